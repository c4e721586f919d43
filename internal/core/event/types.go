package event

import "github.com/gravsim/grav/internal/core/ecs"

// Merged is emitted when colliding particles are fused into one.
type Merged struct {
	Step     uint64
	Survivor ecs.EntityID
	Absorbed []ecs.EntityID
	Mass     float64
	Charge   float64
}

// Split is emitted when a particle divides into two daughters.
type Split struct {
	Step      uint64
	Parent    ecs.EntityID
	Daughters [2]ecs.EntityID
	Lifetime  uint64
}

// ContactUnsupported is emitted when a collision test hits a shape pair the
// detector cannot evaluate yet (any pair involving a cuboid).
type ContactUnsupported struct {
	Step uint64
	A, B ecs.EntityID
}
