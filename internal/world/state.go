package world

import (
	"github.com/gravsim/grav/internal/component"
	"github.com/gravsim/grav/internal/core/ecs"
	"github.com/gravsim/grav/internal/core/vmath"
)

// State owns the ECS world and one typed store per particle component.
// Stages receive the State through their constructor and the SimContext per tick.
type State struct {
	ECS *ecs.World

	Dynamics     *ecs.ComponentStore[component.Dynamics]
	Masses       *ecs.ComponentStore[component.Mass]
	Charges      *ecs.ComponentStore[component.Charge]
	Forces       *ecs.ComponentStore[component.Forces]
	Physicality  *ecs.ComponentStore[component.Physicality]
	Collisions   *ecs.ComponentStore[component.Collisions]
	Lifetimes    *ecs.ComponentStore[component.Lifetime]
	Orientations *ecs.ComponentStore[component.Orientation]
}

func NewState() *State {
	s := &State{
		ECS:          ecs.NewWorld(),
		Dynamics:     ecs.NewComponentStore[component.Dynamics](),
		Masses:       ecs.NewComponentStore[component.Mass](),
		Charges:      ecs.NewComponentStore[component.Charge](),
		Forces:       ecs.NewComponentStore[component.Forces](),
		Physicality:  ecs.NewComponentStore[component.Physicality](),
		Collisions:   ecs.NewComponentStore[component.Collisions](),
		Lifetimes:    ecs.NewComponentStore[component.Lifetime](),
		Orientations: ecs.NewComponentStore[component.Orientation](),
	}
	reg := s.ECS.Registry()
	reg.Register(s.Dynamics)
	reg.Register(s.Masses)
	reg.Register(s.Charges)
	reg.Register(s.Forces)
	reg.Register(s.Physicality)
	reg.Register(s.Collisions)
	reg.Register(s.Lifetimes)
	reg.Register(s.Orientations)
	return s
}

// Maintain applies the deferred command buffer.
func (s *State) Maintain() error { return s.ECS.Maintain() }

// Particle is the full description of one body, used for seeding, spawning
// merge/split products and reading state back.
type Particle struct {
	Mass   float64
	Charge float64
	// NoCharge leaves the entity without a Charge component, which keeps it
	// out of electrostatics and drops charge from its snapshot record.
	NoCharge bool

	Acceleration vmath.Vec3
	Position     vmath.Vec3
	Velocity     vmath.Vec3

	Shape             component.Shape
	CollisionsEnabled bool
	Lifetime          uint64

	Orientation *component.Orientation
}

// Create adds a particle immediately. Only valid outside a tick.
func (s *State) Create(p Particle) ecs.EntityID {
	id := s.ECS.CreateEntity()
	s.Dynamics.Set(id, p.dynamics())
	s.Masses.Set(id, component.Mass(p.Mass))
	if !p.NoCharge {
		s.Charges.Set(id, component.Charge(p.Charge))
	}
	s.Forces.Set(id, component.NewForces())
	s.Physicality.Set(id, component.Physicality{Shape: p.Shape, CollisionsEnabled: p.CollisionsEnabled})
	s.Collisions.Set(id, component.Collisions{})
	s.Lifetimes.Set(id, component.Lifetime(p.Lifetime))
	if p.Orientation != nil {
		s.Orientations.Set(id, *p.Orientation)
	}
	return id
}

// Spawn reserves an entity for p and queues its components; the particle
// becomes visible after the next Maintain.
func (s *State) Spawn(p Particle) ecs.EntityID {
	w := s.ECS
	id := w.Spawn()
	ecs.Insert(w, s.Dynamics, id, p.dynamics())
	ecs.Insert(w, s.Masses, id, component.Mass(p.Mass))
	if !p.NoCharge {
		ecs.Insert(w, s.Charges, id, component.Charge(p.Charge))
	}
	ecs.Insert(w, s.Forces, id, component.NewForces())
	ecs.Insert(w, s.Physicality, id, component.Physicality{Shape: p.Shape, CollisionsEnabled: p.CollisionsEnabled})
	ecs.Insert(w, s.Collisions, id, component.Collisions{})
	ecs.Insert(w, s.Lifetimes, id, component.Lifetime(p.Lifetime))
	if p.Orientation != nil {
		ecs.Insert(w, s.Orientations, id, *p.Orientation)
	}
	return id
}

func (p Particle) dynamics() component.Dynamics {
	return component.Dynamics{
		Acceleration: p.Acceleration,
		Position:     p.Position,
		Velocity:     p.Velocity,
	}
}

// Particle reads an entity back. Missing components leave zero values.
func (s *State) Particle(id ecs.EntityID) (Particle, bool) {
	if !s.ECS.Alive(id) {
		return Particle{}, false
	}
	var p Particle
	if d, ok := s.Dynamics.Get(id); ok {
		p.Acceleration, p.Position, p.Velocity = d.Acceleration, d.Position, d.Velocity
	}
	if m, ok := s.Masses.Get(id); ok {
		p.Mass = float64(*m)
	}
	if c, ok := s.Charges.Get(id); ok {
		p.Charge = float64(*c)
	} else {
		p.NoCharge = true
	}
	if ph, ok := s.Physicality.Get(id); ok {
		p.Shape, p.CollisionsEnabled = ph.Shape, ph.CollisionsEnabled
	}
	if l, ok := s.Lifetimes.Get(id); ok {
		p.Lifetime = uint64(*l)
	}
	if o, ok := s.Orientations.Get(id); ok {
		orient := *o
		p.Orientation = &orient
	}
	return p, true
}

// IDs lists visible entities that carry Dynamics, in store order.
func (s *State) IDs() []ecs.EntityID {
	return ecs.Join(s.Dynamics)
}

// Count returns the number of visible particles.
func (s *State) Count() int {
	return len(s.IDs())
}

// Totals sums mass and charge over visible particles.
func (s *State) Totals() (mass, charge float64) {
	s.Masses.Each(func(_ ecs.EntityID, m *component.Mass) { mass += float64(*m) })
	s.Charges.Each(func(_ ecs.EntityID, c *component.Charge) { charge += float64(*c) })
	return mass, charge
}
