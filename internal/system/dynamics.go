package system

import (
	"github.com/gravsim/grav/internal/component"
	"github.com/gravsim/grav/internal/core/ecs"
	coresys "github.com/gravsim/grav/internal/core/system"
	"github.com/gravsim/grav/internal/core/vmath"
	"github.com/gravsim/grav/internal/world"
)

// ForceAggregationSystem rebuilds acceleration from the net force.
// A zero mass yields zero acceleration instead of an infinity.
type ForceAggregationSystem struct {
	world *world.State
}

func NewForceAggregationSystem(ws *world.State) *ForceAggregationSystem {
	return &ForceAggregationSystem{world: ws}
}

func (s *ForceAggregationSystem) Stage() coresys.Stage { return StageForceAggregation }
func (s *ForceAggregationSystem) After() []coresys.Stage {
	return after(StageGravity, StageElectrostatics)
}

func (s *ForceAggregationSystem) Update(_ *world.SimContext) error {
	ecs.Each3(s.world.Forces, s.world.Masses, s.world.Dynamics,
		func(_ ecs.EntityID, f *component.Forces, m *component.Mass, d *component.Dynamics) {
			if *m == 0 {
				d.Acceleration = vmath.Zero
				return
			}
			d.Acceleration = f.Net().Scale(1 / float64(*m))
		})
	return nil
}

// IntegrateSystem advances velocity and position with semi-implicit Euler,
// clamping each magnitude into its configured range.
type IntegrateSystem struct {
	world *world.State
}

func NewIntegrateSystem(ws *world.State) *IntegrateSystem {
	return &IntegrateSystem{world: ws}
}

func (s *IntegrateSystem) Stage() coresys.Stage   { return StageIntegrate }
func (s *IntegrateSystem) After() []coresys.Stage { return after(StageForceAggregation) }

func (s *IntegrateSystem) Update(ctx *world.SimContext) error {
	lim := ctx.Dynamics
	dt := ctx.DeltaTime
	s.world.Dynamics.Each(func(_ ecs.EntityID, d *component.Dynamics) {
		integrate(d, lim, dt)
	})
	return nil
}

func integrate(d *component.Dynamics, lim world.DynamicsLimits, dt float64) {
	d.Acceleration, _ = vmath.ClampMag(d.Acceleration, lim.MinAcceleration, lim.MaxAcceleration)
	d.Velocity, _ = vmath.ClampMag(d.Velocity.Add(d.Acceleration.Scale(dt)), lim.MinVelocity, lim.MaxVelocity)

	var outside bool
	d.Position, outside = vmath.ClampMag(d.Position.Add(d.Velocity.Scale(dt)), lim.MinPosition, lim.MaxPosition)
	if outside && lim.Boundary == world.BoundaryBounce {
		d.Velocity = d.Velocity.Neg().Scale(0.5)
	}
}

// OrientationSystem spins particles that carry angular state. The angular
// position is renormalised to a unit vector after every step.
type OrientationSystem struct {
	world *world.State
}

func NewOrientationSystem(ws *world.State) *OrientationSystem {
	return &OrientationSystem{world: ws}
}

func (s *OrientationSystem) Stage() coresys.Stage   { return StageOrientation }
func (s *OrientationSystem) After() []coresys.Stage { return nil }

func (s *OrientationSystem) Update(ctx *world.SimContext) error {
	lim := ctx.Orientation
	dt := ctx.DeltaTime
	s.world.Orientations.Each(func(_ ecs.EntityID, o *component.Orientation) {
		o.AngularAcceleration, _ = vmath.ClampMag(o.AngularAcceleration, lim.MinAngularAcceleration, lim.MaxAngularAcceleration)
		o.AngularVelocity, _ = vmath.ClampMag(o.AngularVelocity.Add(o.AngularAcceleration.Scale(dt)), lim.MinAngularVelocity, lim.MaxAngularVelocity)
		o.AngularPosition = o.AngularPosition.Add(o.AngularVelocity.Scale(dt)).Dir()
	})
	return nil
}
