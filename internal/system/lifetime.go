package system

import (
	"math"

	"go.uber.org/zap"

	"github.com/gravsim/grav/internal/component"
	"github.com/gravsim/grav/internal/core/ecs"
	"github.com/gravsim/grav/internal/core/event"
	coresys "github.com/gravsim/grav/internal/core/system"
	"github.com/gravsim/grav/internal/world"
)

// LifetimeSystem ages every particle by one step.
type LifetimeSystem struct {
	world *world.State
}

func NewLifetimeSystem(ws *world.State) *LifetimeSystem {
	return &LifetimeSystem{world: ws}
}

func (s *LifetimeSystem) Stage() coresys.Stage   { return StageLifetimeAdvance }
func (s *LifetimeSystem) After() []coresys.Stage { return nil }

func (s *LifetimeSystem) Update(_ *world.SimContext) error {
	s.world.Lifetimes.Each(func(_ ecs.EntityID, l *component.Lifetime) {
		*l++
	})
	return nil
}

// SplitThreshold is the lifetime beyond which a particle of mass m divides.
// Heavier particles split sooner: every full 10 units of |m| divide the
// maximum lifetime.
func SplitThreshold(m float64, maxLifetime uint64) float64 {
	if am := math.Abs(m); am >= 10 {
		return float64(maxLifetime) / math.Floor(am/10)
	}
	return float64(maxLifetime)
}

// ShouldSplit applies the lifetime rule for one particle.
func ShouldSplit(lifetime uint64, m float64, cfg world.SplittingSettings) bool {
	if lifetime <= cfg.MinLifetime {
		return false
	}
	return lifetime > cfg.MaxLifetime || float64(lifetime) > SplitThreshold(m, cfg.MaxLifetime)
}

// SplitSystem divides aged particles into two daughters.
type SplitSystem struct {
	world *world.State
}

func NewSplitSystem(ws *world.State) *SplitSystem {
	return &SplitSystem{world: ws}
}

func (s *SplitSystem) Stage() coresys.Stage { return StageSplit }
func (s *SplitSystem) After() []coresys.Stage {
	return after(StageCollisionResolve, StageLifetimeAdvance)
}

func (s *SplitSystem) Update(ctx *world.SimContext) error {
	if !ctx.Enabled.Splitting {
		return nil
	}
	ws := s.world
	cfg := ctx.Splitting
	splits := 0
	ecs.Each3(ws.Lifetimes, ws.Masses, ws.Dynamics,
		func(id ecs.EntityID, l *component.Lifetime, m *component.Mass, d *component.Dynamics) {
			if !ShouldSplit(uint64(*l), float64(*m), cfg) {
				return
			}
			s.split(ctx, id, uint64(*l), float64(*m), *d)
			splits++
		})
	if splits > 0 {
		ctx.Logger().Debug("split", zap.Uint64("step", ctx.Step), zap.Int("splits", splits))
	}
	return nil
}

func (s *SplitSystem) split(ctx *world.SimContext, id ecs.EntityID, lifetime uint64, mass float64, d component.Dynamics) {
	ws := s.world
	cfg := ctx.Splitting
	radius := sphereRadius(ws, id)
	offset := cfg.SeparationMultiplier * radius
	velocity := d.Velocity.Scale(cfg.VelocityMultiplier)

	a := world.Particle{
		Mass:              mass / 2,
		Position:          d.Position.AddScalar(offset),
		Velocity:          velocity,
		Shape:             component.Sphere(radius),
		CollisionsEnabled: true,
	}
	b := a
	b.Position = d.Position.AddScalar(-offset)
	b.Velocity = velocity.Neg()

	var charge float64 // charge-less parents split as neutral
	if q, ok := ws.Charges.Get(id); ok {
		charge = float64(*q)
	}
	a.Charge, b.Charge = SplitCharge(charge)

	ws.ECS.MarkForDestruction(id)
	daughters := [2]ecs.EntityID{ws.Spawn(a), ws.Spawn(b)}
	event.Emit(ctx.Events, event.Split{
		Step:      ctx.Step,
		Parent:    id,
		Daughters: daughters,
		Lifetime:  lifetime,
	})
}

// SplitCharge halves q so the two parts sum back to q. A neutral parent
// yields a -1/+1 pair.
func SplitCharge(q float64) (float64, float64) {
	if q == 0 {
		return -1, 1
	}
	lo := math.Floor(q / 2)
	return lo, q - lo
}
