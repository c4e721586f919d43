package component

import "github.com/gravsim/grav/internal/core/vmath"

// Dynamics holds the newtonian state of a particle. Acceleration is rebuilt
// from the force accumulator every tick before velocity and position advance.
type Dynamics struct {
	Acceleration vmath.Vec3
	Position     vmath.Vec3
	Velocity     vmath.Vec3
}

// Orientation holds angular state. AngularPosition is kept as a unit vector.
type Orientation struct {
	AngularAcceleration vmath.Vec3
	AngularPosition     vmath.Vec3
	AngularVelocity     vmath.Vec3
}
