package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type posComp struct{ X float64 }
type massComp struct{ M float64 }

func newTestWorld() (*World, *ComponentStore[posComp], *ComponentStore[massComp]) {
	w := NewWorld()
	pos := NewComponentStore[posComp]()
	mass := NewComponentStore[massComp]()
	w.Registry().Register(pos)
	w.Registry().Register(mass)
	return w, pos, mass
}

func TestCreateEntityNeverNil(t *testing.T) {
	w := NewWorld()
	id := w.CreateEntity()
	assert.NotEqual(t, NilEntity, id)
	assert.True(t, w.Alive(id))
	assert.Equal(t, uint32(0), id.Index())
	assert.Equal(t, uint32(1), id.Generation())
}

func TestStaleIDDoesNotResolve(t *testing.T) {
	w, pos, _ := newTestWorld()
	old := w.CreateEntity()
	pos.Set(old, posComp{X: 1})

	w.MarkForDestruction(old)
	require.NoError(t, w.Maintain())

	reused := w.CreateEntity()
	assert.Equal(t, old.Index(), reused.Index(), "slot should be recycled")
	assert.NotEqual(t, old, reused)
	assert.False(t, w.Alive(old))

	pos.Set(reused, posComp{X: 2})
	_, ok := pos.Get(old)
	assert.False(t, ok, "stale id must not see the new occupant's component")
	p, ok := pos.Get(reused)
	require.True(t, ok)
	assert.Equal(t, 2.0, p.X)
}

func TestDestroyIsDeferred(t *testing.T) {
	w, pos, _ := newTestWorld()
	id := w.CreateEntity()
	pos.Set(id, posComp{X: 7})

	w.MarkForDestruction(id)
	assert.False(t, w.Alive(id), "queued entity is hidden immediately")
	_, ok := pos.Get(id)
	assert.True(t, ok, "components stay readable until Maintain")

	count := 0
	pos.Each(func(EntityID, *posComp) { count++ })
	assert.Zero(t, count, "joins skip queued destructions")

	require.NoError(t, w.Maintain())
	_, ok = pos.Get(id)
	assert.False(t, ok)
	assert.Zero(t, pos.Len())
}

func TestDestroyUnknownIsNoop(t *testing.T) {
	w := NewWorld()
	w.MarkForDestruction(NewEntityID(42, 3))
	id := w.CreateEntity()
	w.MarkForDestruction(id)
	w.MarkForDestruction(id)
	_, destroys := w.Pending()
	assert.Equal(t, 1, destroys)
	require.NoError(t, w.Maintain())
	assert.Equal(t, 0, w.Len())
}

func TestSpawnInvisibleUntilMaintain(t *testing.T) {
	w, pos, _ := newTestWorld()
	id := w.Spawn()
	Insert(w, pos, id, posComp{X: 3})

	assert.Empty(t, Join(pos))
	require.NoError(t, w.Maintain())
	assert.Equal(t, []EntityID{id}, Join(pos))
}

func TestSpawnDoesNotReuseSlotDestroyedThisTick(t *testing.T) {
	w, pos, _ := newTestWorld()
	victim := w.CreateEntity()
	pos.Set(victim, posComp{X: 1})

	w.MarkForDestruction(victim)
	fresh := w.Spawn()
	Insert(w, pos, fresh, posComp{X: 9})
	assert.NotEqual(t, victim.Index(), fresh.Index())

	require.NoError(t, w.Maintain())
	p, ok := pos.Get(fresh)
	require.True(t, ok)
	assert.Equal(t, 9.0, p.X)
}

func TestInsertOnDeadEntityFails(t *testing.T) {
	w, pos, _ := newTestWorld()
	id := w.CreateEntity()
	w.MarkForDestruction(id)
	Insert(w, pos, id, posComp{})
	assert.Error(t, w.Maintain())
	assert.Zero(t, pos.Len())
}

func TestEach2JoinsInSlotOrder(t *testing.T) {
	w, pos, mass := newTestWorld()
	var both []EntityID
	for i := 0; i < 200; i++ {
		id := w.CreateEntity()
		pos.Set(id, posComp{X: float64(i)})
		if i%3 == 0 {
			mass.Set(id, massComp{M: 1})
			both = append(both, id)
		}
	}

	var seen []EntityID
	Each2(pos, mass, func(id EntityID, p *posComp, m *massComp) {
		seen = append(seen, id)
	})
	assert.Equal(t, both, seen)
	assert.Equal(t, both, Join(pos, mass))
}

func TestEach3WritesThroughPointers(t *testing.T) {
	w, pos, mass := newTestWorld()
	extra := NewComponentStore[int]()
	w.Registry().Register(extra)

	id := w.CreateEntity()
	pos.Set(id, posComp{X: 1})
	mass.Set(id, massComp{M: 2})
	extra.Set(id, 3)

	Each3(pos, mass, extra, func(_ EntityID, p *posComp, m *massComp, e *int) {
		p.X = m.M * float64(*e)
	})
	p, _ := pos.Get(id)
	assert.Equal(t, 6.0, p.X)
}

func TestJoinSkipsEntitiesDestroyedMidIteration(t *testing.T) {
	w, pos, _ := newTestWorld()
	a := w.CreateEntity()
	b := w.CreateEntity()
	pos.Set(a, posComp{})
	pos.Set(b, posComp{})

	var visited []EntityID
	pos.Each(func(id EntityID, _ *posComp) {
		visited = append(visited, id)
		if id == a {
			w.MarkForDestruction(b)
		}
	})
	assert.Equal(t, []EntityID{a}, visited)
}

func TestRemoveComponent(t *testing.T) {
	_, pos, _ := newTestWorld()
	id := NewEntityID(0, 1)
	pos.Set(id, posComp{X: 5})
	assert.True(t, pos.Has(id))
	pos.Remove(id)
	assert.False(t, pos.Has(id))
	pos.Remove(id)
	assert.Zero(t, pos.Len())
}
