package system

import (
	"github.com/gravsim/grav/internal/component"
	"github.com/gravsim/grav/internal/core/ecs"
	coresys "github.com/gravsim/grav/internal/core/system"
	"github.com/gravsim/grav/internal/world"
)

// ClearCollisionsSystem empties every Collisions list at the start of a tick.
type ClearCollisionsSystem struct {
	world *world.State
}

func NewClearCollisionsSystem(ws *world.State) *ClearCollisionsSystem {
	return &ClearCollisionsSystem{world: ws}
}

func (s *ClearCollisionsSystem) Stage() coresys.Stage   { return StageClearCollisions }
func (s *ClearCollisionsSystem) After() []coresys.Stage { return nil }

func (s *ClearCollisionsSystem) Update(_ *world.SimContext) error {
	s.world.Collisions.Each(func(_ ecs.EntityID, c *component.Collisions) {
		c.With = c.With[:0]
	})
	return nil
}

// ClearForcesSystem drops last tick's force contributions so the pair guard
// in the interaction systems starts from an empty accumulator.
type ClearForcesSystem struct {
	world *world.State
}

func NewClearForcesSystem(ws *world.State) *ClearForcesSystem {
	return &ClearForcesSystem{world: ws}
}

func (s *ClearForcesSystem) Stage() coresys.Stage   { return StageClearForces }
func (s *ClearForcesSystem) After() []coresys.Stage { return nil }

func (s *ClearForcesSystem) Update(_ *world.SimContext) error {
	s.world.Forces.Each(func(_ ecs.EntityID, f *component.Forces) {
		if !f.Ready() {
			*f = component.NewForces()
			return
		}
		f.Reset()
	})
	return nil
}
