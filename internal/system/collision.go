package system

import (
	"go.uber.org/zap"

	"github.com/gravsim/grav/internal/component"
	"github.com/gravsim/grav/internal/core/ecs"
	"github.com/gravsim/grav/internal/core/event"
	coresys "github.com/gravsim/grav/internal/core/system"
	"github.com/gravsim/grav/internal/world"
)

// Contact is the outcome of a shape test.
type Contact uint8

const (
	NoContact Contact = iota
	Touching
	// Unsupported marks a shape pair with no contact test yet (cuboids).
	Unsupported
)

func (c Contact) String() string {
	switch c {
	case NoContact:
		return "none"
	case Touching:
		return "touching"
	case Unsupported:
		return "unsupported"
	}
	return "unknown"
}

// Classify decides whether two particles whose centres are r apart collide.
// Anything at or beyond MaxThreshold never collides; anything closer than
// MinThreshold always does, whatever the shapes. In between the shapes decide.
func Classify(a, b component.Shape, r float64, lim world.CollisionLimits) Contact {
	if r >= lim.MaxThreshold {
		return NoContact
	}
	if r < lim.MinThreshold {
		return Touching
	}
	return shapeContact(a, b, r)
}

func shapeContact(a, b component.Shape, r float64) Contact {
	switch a.Kind {
	case component.ShapePoint:
		switch b.Kind {
		case component.ShapePoint:
			return NoContact
		case component.ShapeSphere:
			return within(r, b.Radius)
		case component.ShapeCuboid:
			return Unsupported
		}
	case component.ShapeSphere:
		switch b.Kind {
		case component.ShapePoint:
			return within(r, a.Radius)
		case component.ShapeSphere:
			return within(r, a.Radius+b.Radius)
		case component.ShapeCuboid:
			return Unsupported
		}
	case component.ShapeCuboid:
		return Unsupported
	}
	return Unsupported
}

func within(r, reach float64) Contact {
	if r-reach <= 0 {
		return Touching
	}
	return NoContact
}

// CollisionDetectSystem records every colliding pair on both participants.
type CollisionDetectSystem struct {
	world *world.State
}

func NewCollisionDetectSystem(ws *world.State) *CollisionDetectSystem {
	return &CollisionDetectSystem{world: ws}
}

func (s *CollisionDetectSystem) Stage() coresys.Stage { return StageCollisionDetect }
func (s *CollisionDetectSystem) After() []coresys.Stage {
	return after(StageClearCollisions, StageIntegrate)
}

func (s *CollisionDetectSystem) Update(ctx *world.SimContext) error {
	if !ctx.Enabled.Collisions {
		return nil
	}
	ws := s.world
	var ids []ecs.EntityID
	for _, id := range ecs.Join(ws.Dynamics, ws.Physicality, ws.Collisions) {
		if ph, _ := ws.Physicality.Get(id); ph.CollisionsEnabled {
			ids = append(ids, id)
		}
	}

	hits, unsupported := 0, 0
	for i, a := range ids {
		da, _ := ws.Dynamics.Get(a)
		pa, _ := ws.Physicality.Get(a)
		for _, b := range ids[i+1:] {
			db, _ := ws.Dynamics.Get(b)
			pb, _ := ws.Physicality.Get(b)
			r := db.Position.Sub(da.Position).Mag()

			switch Classify(pa.Shape, pb.Shape, r, ctx.Collision) {
			case NoContact:
			case Touching:
				ca, _ := ws.Collisions.Get(a)
				cb, _ := ws.Collisions.Get(b)
				if !ca.Contains(b) {
					ca.With = append(ca.With, b)
				}
				if !cb.Contains(a) {
					cb.With = append(cb.With, a)
				}
				hits++
			case Unsupported:
				unsupported++
				ctx.Logger().Debug("contact test unsupported",
					zap.Stringer("a", a), zap.Stringer("b", b),
					zap.Stringer("shape_a", pa.Shape.Kind), zap.Stringer("shape_b", pb.Shape.Kind))
				event.Emit(ctx.Events, event.ContactUnsupported{Step: ctx.Step, A: a, B: b})
			}
		}
	}
	ctx.Logger().Debug("collision detect",
		zap.Uint64("step", ctx.Step), zap.Int("candidates", len(ids)),
		zap.Int("hits", hits), zap.Int("unsupported", unsupported))
	return nil
}
