package component

import (
	"sort"
	"sync"

	"github.com/gravsim/grav/internal/core/ecs"
	"github.com/gravsim/grav/internal/core/vmath"
)

// Interaction names a pairwise force law.
type Interaction string

const (
	Gravity        Interaction = "gravity"
	Electrostatics Interaction = "electrostatics"
)

// ForceKey builds the accumulator key "<interaction>:<partner>".
func ForceKey(kind Interaction, partner ecs.EntityID) string {
	return string(kind) + ":" + partner.String()
}

// Forces accumulates named force contributions acting on one particle.
// Different interaction systems write disjoint keys of the same accumulator
// from separate goroutines, so access is serialised per accumulator.
// Construct with NewForces; copies share the underlying map.
type Forces struct {
	acc *forceMap
}

type forceMap struct {
	mu sync.Mutex
	m  map[string]vmath.Vec3
}

func NewForces() Forces {
	return Forces{acc: &forceMap{m: make(map[string]vmath.Vec3)}}
}

func (f Forces) Set(key string, v vmath.Vec3) {
	f.acc.mu.Lock()
	f.acc.m[key] = v
	f.acc.mu.Unlock()
}

func (f Forces) Get(key string) (vmath.Vec3, bool) {
	if f.acc == nil {
		return vmath.Zero, false
	}
	f.acc.mu.Lock()
	defer f.acc.mu.Unlock()
	v, ok := f.acc.m[key]
	return v, ok
}

func (f Forces) Has(key string) bool {
	_, ok := f.Get(key)
	return ok
}

func (f Forces) Len() int {
	if f.acc == nil {
		return 0
	}
	f.acc.mu.Lock()
	defer f.acc.mu.Unlock()
	return len(f.acc.m)
}

// Net sums every contribution. Keys are summed in sorted order so the result
// does not depend on map iteration order.
func (f Forces) Net() vmath.Vec3 {
	if f.acc == nil {
		return vmath.Zero
	}
	f.acc.mu.Lock()
	defer f.acc.mu.Unlock()
	keys := make([]string, 0, len(f.acc.m))
	for k := range f.acc.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var net vmath.Vec3
	for _, k := range keys {
		net = net.Add(f.acc.m[k])
	}
	return net
}

// Reset drops every contribution.
func (f Forces) Reset() {
	if f.acc == nil {
		return
	}
	f.acc.mu.Lock()
	clear(f.acc.m)
	f.acc.mu.Unlock()
}

// Ready reports whether the accumulator was built with NewForces.
func (f Forces) Ready() bool { return f.acc != nil }
