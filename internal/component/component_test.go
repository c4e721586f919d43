package component

import (
	"sync"
	"testing"

	"github.com/gravsim/grav/internal/core/ecs"
	"github.com/gravsim/grav/internal/core/vmath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForceKeyFormat(t *testing.T) {
	assert.Equal(t, "gravity:4.1", ForceKey(Gravity, ecs.NewEntityID(4, 1)))
	assert.Equal(t, "electrostatics:0.2", ForceKey(Electrostatics, ecs.NewEntityID(0, 2)))
}

func TestForcesNetAndReset(t *testing.T) {
	f := NewForces()
	f.Set("gravity:1.1", vmath.Vec3{X: 1})
	f.Set("electrostatics:1.1", vmath.Vec3{Y: -2})
	f.Set("gravity:1.1", vmath.Vec3{X: 3})

	assert.Equal(t, 2, f.Len())
	assert.Equal(t, vmath.Vec3{X: 3, Y: -2}, f.Net())

	f.Reset()
	assert.Zero(t, f.Len())
	assert.Equal(t, vmath.Zero, f.Net())
}

func TestForcesCopiesShareAccumulator(t *testing.T) {
	f := NewForces()
	g := f
	g.Set("k", vmath.Vec3{Z: 1})
	assert.True(t, f.Has("k"))
}

func TestZeroForcesIsEmpty(t *testing.T) {
	var f Forces
	assert.False(t, f.Ready())
	assert.Zero(t, f.Len())
	assert.False(t, f.Has("x"))
	f.Reset()
}

func TestForcesConcurrentWriters(t *testing.T) {
	f := NewForces()
	var wg sync.WaitGroup
	for _, kind := range []Interaction{Gravity, Electrostatics} {
		kind := kind
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := uint32(0); i < 500; i++ {
				f.Set(ForceKey(kind, ecs.NewEntityID(i, 1)), vmath.Vec3{X: 1})
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1000, f.Len())
	assert.InDelta(t, 1000.0, f.Net().X, 1e-9)
}

func TestParseShapeKind(t *testing.T) {
	for in, want := range map[string]ShapeKind{
		"sphere": ShapeSphere, "Point": ShapePoint, "CUBOID": ShapeCuboid, "": ShapePoint,
	} {
		got, err := ParseShapeKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseShapeKind("torus")
	assert.Error(t, err)
}

func TestShapeSphereRadius(t *testing.T) {
	r, ok := Sphere(2.5).SphereRadius()
	assert.True(t, ok)
	assert.Equal(t, 2.5, r)
	_, ok = Cuboid(1, 1, 1).SphereRadius()
	assert.False(t, ok)
	assert.Equal(t, "cuboid", Cuboid(1, 2, 3).Kind.String())
}

func TestCollisionsContains(t *testing.T) {
	c := Collisions{With: []ecs.EntityID{ecs.NewEntityID(1, 1)}}
	assert.True(t, c.Contains(ecs.NewEntityID(1, 1)))
	assert.False(t, c.Contains(ecs.NewEntityID(1, 2)))
}
