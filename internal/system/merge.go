package system

import (
	"go.uber.org/zap"

	"github.com/gravsim/grav/internal/component"
	"github.com/gravsim/grav/internal/core/ecs"
	"github.com/gravsim/grav/internal/core/event"
	coresys "github.com/gravsim/grav/internal/core/system"
	"github.com/gravsim/grav/internal/core/vmath"
	"github.com/gravsim/grav/internal/world"
)

// CollisionResolveSystem fuses every particle with the partners it collided
// with. The merged position walks half way toward each partner in turn rather
// than taking the mass-weighted centroid.
type CollisionResolveSystem struct {
	world *world.State
}

func NewCollisionResolveSystem(ws *world.State) *CollisionResolveSystem {
	return &CollisionResolveSystem{world: ws}
}

func (s *CollisionResolveSystem) Stage() coresys.Stage   { return StageCollisionResolve }
func (s *CollisionResolveSystem) After() []coresys.Stage { return after(StageCollisionDetect) }

func (s *CollisionResolveSystem) Update(ctx *world.SimContext) error {
	ws := s.world
	merges := 0
	// Each skips slots hidden earlier in this pass, so a particle absorbed
	// as someone's partner is never resolved again.
	ws.Collisions.Each(func(id ecs.EntityID, c *component.Collisions) {
		if len(c.With) == 0 {
			return
		}
		if s.merge(ctx, id, c.With) {
			merges++
		}
	})
	if merges > 0 {
		ctx.Logger().Debug("collision resolve", zap.Uint64("step", ctx.Step), zap.Int("merges", merges))
	}
	return nil
}

// merge replaces id and its live partners with one fresh particle. A particle
// whose partners were all absorbed earlier in the pass is still re-created on
// its own; merge reports whether anything was actually fused.
func (s *CollisionResolveSystem) merge(ctx *world.SimContext, id ecs.EntityID, partners []ecs.EntityID) bool {
	ws := s.world
	acc := s.seed(id)
	absorbed := []ecs.EntityID{id}
	for _, p := range partners {
		if !ws.ECS.Alive(p) {
			continue
		}
		other := s.seed(p)
		acc.Charge += other.Charge
		acc.Mass += other.Mass
		acc.Position = acc.Position.Add(other.Position.Sub(acc.Position).Scale(0.5))
		acc.Velocity = acc.Velocity.Add(other.Velocity)
		acc.Shape.Radius += other.Shape.Radius
		absorbed = append(absorbed, p)
	}
	for _, dead := range absorbed {
		ws.ECS.MarkForDestruction(dead)
	}

	acc.Acceleration = vmath.Zero
	survivor := ws.Spawn(acc)
	if len(absorbed) == 1 {
		ctx.Logger().Debug("re-created without partners",
			zap.Uint64("step", ctx.Step), zap.Stringer("entity", id), zap.Stringer("survivor", survivor))
		return false
	}
	ctx.Logger().Debug("merged",
		zap.Uint64("step", ctx.Step), zap.Stringer("survivor", survivor),
		zap.Int("absorbed", len(absorbed)), zap.Float64("mass", acc.Mass), zap.Float64("radius", acc.Shape.Radius))
	event.Emit(ctx.Events, event.Merged{
		Step:     ctx.Step,
		Survivor: survivor,
		Absorbed: absorbed,
		Mass:     acc.Mass,
		Charge:   acc.Charge,
	})
	return true
}

// seed is one particle's contribution to a merge: its own state and half its
// sphere radius. Other shapes contribute no radius.
func (s *CollisionResolveSystem) seed(id ecs.EntityID) world.Particle {
	ws := s.world
	p := world.Particle{
		Shape:             component.Sphere(mergeRadius(ws, id) / 2),
		CollisionsEnabled: true,
	}
	if m, ok := ws.Masses.Get(id); ok {
		p.Mass = float64(*m)
	}
	if q, ok := ws.Charges.Get(id); ok {
		p.Charge = float64(*q)
	}
	if d, ok := ws.Dynamics.Get(id); ok {
		p.Position, p.Velocity = d.Position, d.Velocity
	}
	return p
}

func mergeRadius(ws *world.State, id ecs.EntityID) float64 {
	if ph, ok := ws.Physicality.Get(id); ok {
		if r, ok := ph.Shape.SphereRadius(); ok {
			return r
		}
	}
	return 0
}
