package world

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/gravsim/grav/internal/core/event"
	"github.com/gravsim/grav/internal/persist"
)

// Boundary selects what happens to velocity when a particle is clamped back
// inside the maximum position radius.
type Boundary uint8

const (
	// BoundaryBounce reverses and halves the velocity.
	BoundaryBounce Boundary = iota
	// BoundaryClamp only clamps the position.
	BoundaryClamp
)

func (b Boundary) String() string {
	if b == BoundaryClamp {
		return "clamp"
	}
	return "bounce"
}

func ParseBoundary(s string) (Boundary, error) {
	switch strings.ToLower(s) {
	case "bounce", "":
		return BoundaryBounce, nil
	case "clamp":
		return BoundaryClamp, nil
	}
	return BoundaryBounce, fmt.Errorf("unknown boundary %q", s)
}

// DynamicsLimits bounds the magnitudes of acceleration, velocity and position.
type DynamicsLimits struct {
	MinAcceleration float64
	MaxAcceleration float64
	MinVelocity     float64
	MaxVelocity     float64
	MinPosition     float64
	MaxPosition     float64
	Boundary        Boundary
}

// OrientationLimits bounds angular acceleration and velocity magnitudes.
type OrientationLimits struct {
	MinAngularAcceleration float64
	MaxAngularAcceleration float64
	MinAngularVelocity     float64
	MaxAngularVelocity     float64
}

// CollisionLimits: closer than Min always collides, Max and beyond never does.
type CollisionLimits struct {
	MinThreshold float64
	MaxThreshold float64
}

// SplittingSettings control lifetime-driven division.
type SplittingSettings struct {
	MinLifetime          uint64
	MaxLifetime          uint64
	SeparationMultiplier float64
	VelocityMultiplier   float64
}

// Features switches optional stages on or off. A disabled stage still runs
// but does nothing, so the stage graph stays the same.
type Features struct {
	Gravity        bool
	Electrostatics bool
	Collisions     bool
	Splitting      bool
}

// Sink receives one snapshot record per step.
type Sink interface {
	Append(persist.Record) error
}

// SimContext is the tick-scoped, read-only set of constants and collaborators
// handed to every stage. Only Step changes, between ticks.
type SimContext struct {
	GravitationalConstant float64
	ElectrostaticConstant float64
	DeltaTime             float64

	Enabled     Features
	Dynamics    DynamicsLimits
	Orientation OrientationLimits
	Collision   CollisionLimits
	Splitting   SplittingSettings

	// Step is the 1-based number of the tick being run.
	Step uint64

	Sink   Sink
	Events *event.Bus
	Log    *zap.Logger
}

// DefaultSimContext returns unit constants and unbounded dynamics.
func DefaultSimContext() SimContext {
	inf := math.Inf(1)
	return SimContext{
		GravitationalConstant: 1,
		ElectrostaticConstant: 1,
		DeltaTime:             1,
		Enabled:               Features{Gravity: true, Electrostatics: true, Collisions: true, Splitting: true},
		Dynamics: DynamicsLimits{
			MaxAcceleration: inf,
			MaxVelocity:     inf,
			MaxPosition:     inf,
			Boundary:        BoundaryBounce,
		},
		Orientation: OrientationLimits{
			MaxAngularAcceleration: inf,
			MaxAngularVelocity:     inf,
		},
		Collision: CollisionLimits{
			MinThreshold: 1,
			MaxThreshold: 100,
		},
		Splitting: SplittingSettings{
			MinLifetime:          100,
			MaxLifetime:          1000,
			SeparationMultiplier: 2,
			VelocityMultiplier:   1,
		},
		Log: zap.NewNop(),
	}
}

// Logger never returns nil.
func (c *SimContext) Logger() *zap.Logger {
	if c.Log == nil {
		return zap.NewNop()
	}
	return c.Log
}
