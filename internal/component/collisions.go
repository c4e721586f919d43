package component

import "github.com/gravsim/grav/internal/core/ecs"

// Collisions lists the entities judged colliding with this one during the
// current tick. Cleared at the start of every tick.
type Collisions struct {
	With []ecs.EntityID
}

// Contains reports whether id is already recorded.
func (c *Collisions) Contains(id ecs.EntityID) bool {
	for _, other := range c.With {
		if other == id {
			return true
		}
	}
	return false
}
