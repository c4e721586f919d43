package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravsim/grav/internal/component"
	"github.com/gravsim/grav/internal/core/ecs"
	"github.com/gravsim/grav/internal/core/event"
	"github.com/gravsim/grav/internal/core/vmath"
)

func TestCreateAndReadBack(t *testing.T) {
	s := NewState()
	in := Particle{
		Mass:              2,
		Charge:            -1,
		Position:          vmath.Vec3{X: 1, Y: 2, Z: 3},
		Velocity:          vmath.Vec3{Z: -1},
		Shape:             component.Sphere(0.5),
		CollisionsEnabled: true,
		Lifetime:          7,
		Orientation:       &component.Orientation{AngularPosition: vmath.Vec3{X: 1}},
	}
	id := s.Create(in)

	out, ok := s.Particle(id)
	require.True(t, ok)
	assert.Equal(t, in, out)

	f, ok := s.Forces.Get(id)
	require.True(t, ok)
	assert.True(t, f.Ready())
	assert.Equal(t, 1, s.Count())
}

func TestNoChargeLeavesComponentOff(t *testing.T) {
	s := NewState()
	id := s.Create(Particle{Mass: 1, NoCharge: true})
	assert.False(t, s.Charges.Has(id))
	p, _ := s.Particle(id)
	assert.True(t, p.NoCharge)
}

func TestSpawnAppearsAfterMaintain(t *testing.T) {
	s := NewState()
	id := s.Spawn(Particle{Mass: 3, Charge: 1})
	assert.Zero(t, s.Count())
	assert.False(t, s.Masses.Has(id))

	require.NoError(t, s.Maintain())
	assert.Equal(t, 1, s.Count())
	mass, charge := s.Totals()
	assert.Equal(t, 3.0, mass)
	assert.Equal(t, 1.0, charge)
}

func TestParticleOfDeadEntity(t *testing.T) {
	s := NewState()
	id := s.Create(Particle{Mass: 1})
	s.ECS.MarkForDestruction(id)
	_, ok := s.Particle(id)
	assert.False(t, ok)
	require.NoError(t, s.Maintain())
	assert.Zero(t, s.Masses.Len())
	assert.Zero(t, s.Forces.Len())
}

func TestStatsCountEvents(t *testing.T) {
	bus := event.NewBus()
	var st Stats
	st.Subscribe(bus)

	event.Emit(bus, event.Merged{Absorbed: make([]ecs.EntityID, 3)})
	event.Emit(bus, event.Split{})
	event.Emit(bus, event.Split{})
	assert.Zero(t, st.Splits, "events are delivered a tick later")

	bus.Flush()
	assert.Equal(t, Stats{Merges: 1, Absorbed: 3, Splits: 2}, st)
}

func TestParseBoundary(t *testing.T) {
	b, err := ParseBoundary("CLAMP")
	require.NoError(t, err)
	assert.Equal(t, BoundaryClamp, b)
	b, err = ParseBoundary("")
	require.NoError(t, err)
	assert.Equal(t, BoundaryBounce, b)
	_, err = ParseBoundary("wrap")
	assert.Error(t, err)
}
