package ecs

import (
	"fmt"
	"sync"
)

// World is the top-level ECS container. It owns the entity pool, the component
// registry, and a command buffer of deferred inserts and destructions that is
// applied by Maintain once per tick.
type World struct {
	pool     *EntityPool
	registry *Registry

	mu           sync.Mutex
	hidden       bitset
	inserts      []insertCmd
	destroyQueue []EntityID
}

type insertCmd struct {
	id    EntityID
	apply func()
}

func NewWorld() *World {
	w := &World{
		pool:         NewEntityPool(),
		destroyQueue: make([]EntityID, 0, 64),
	}
	w.registry = NewRegistry(&w.hidden)
	return w
}

func (w *World) Pool() *EntityPool   { return w.pool }
func (w *World) Registry() *Registry { return w.registry }

// CreateEntity allocates an entity immediately. Use it outside a tick; systems
// running inside a tick use Spawn.
func (w *World) CreateEntity() EntityID {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pool.Create()
}

// Spawn reserves an entity during a tick. It carries no components until the
// inserts queued for it are applied by Maintain, so joins never see it early.
func (w *World) Spawn() EntityID {
	return w.CreateEntity()
}

// Alive reports whether id refers to a live entity that is not queued for destruction.
func (w *World) Alive(id EntityID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pool.Alive(id) && !w.hidden.test(id.Index())
}

// Len returns the number of live entities, including those queued for destruction.
func (w *World) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pool.Len()
}

// MarkForDestruction queues an entity for end-of-tick cleanup. It disappears
// from joins and Alive immediately while its components stay readable until
// Maintain. Unknown or already queued entities are ignored.
func (w *World) MarkForDestruction(id EntityID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.pool.Alive(id) || w.hidden.test(id.Index()) {
		return
	}
	w.hidden.set(id.Index())
	w.destroyQueue = append(w.destroyQueue, id)
}

// Defer queues fn to run during Maintain on behalf of entity id.
func (w *World) Defer(id EntityID, fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.inserts = append(w.inserts, insertCmd{id: id, apply: fn})
}

// Insert queues a component write applied by the next Maintain.
func Insert[T any](w *World, s *ComponentStore[T], id EntityID, c T) {
	w.Defer(id, func() { s.Set(id, c) })
}

// Pending returns the number of queued inserts and destructions.
func (w *World) Pending() (inserts, destroys int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.inserts), len(w.destroyQueue)
}

// Maintain applies the command buffer: queued inserts first, then queued
// destructions. An insert aimed at an entity that is dead or queued for
// destruction is a contract violation and is reported as an error after the
// rest of the buffer has been applied.
func (w *World) Maintain() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var firstErr error
	for _, cmd := range w.inserts {
		if !w.pool.Alive(cmd.id) || w.hidden.test(cmd.id.Index()) {
			if firstErr == nil {
				firstErr = fmt.Errorf("insert component on dead entity %s", cmd.id)
			}
			continue
		}
		cmd.apply()
	}
	w.inserts = w.inserts[:0]

	for _, id := range w.destroyQueue {
		w.registry.RemoveAll(id)
		w.pool.Destroy(id)
		w.hidden.clear(id.Index())
	}
	w.destroyQueue = w.destroyQueue[:0]
	return firstErr
}
