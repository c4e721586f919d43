package vmath

import (
	"math"
	"math/rand"
)

// Epsilon is the smallest separation treated as a real distance. Pairs closer
// than this are considered coincident and do not interact.
const Epsilon = 1e-9

// Vec3 is a 3D vector of float64 components.
type Vec3 struct {
	X, Y, Z float64
}

// Zero is the zero vector.
var Zero = Vec3{}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}
func (v Vec3) Neg() Vec3 { return Vec3{-v.X, -v.Y, -v.Z} }

// AddScalar adds s to every component.
func (v Vec3) AddScalar(s float64) Vec3 { return Vec3{v.X + s, v.Y + s, v.Z + s} }

func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Mag returns the Euclidean length of v.
func (v Vec3) Mag() float64 { return math.Sqrt(v.Dot(v)) }

// Dir returns v scaled to unit length, or the zero vector when v is zero.
func (v Vec3) Dir() Vec3 {
	m := v.Mag()
	if m == 0 {
		return Zero
	}
	return v.Scale(1 / m)
}

// IsZero reports whether all components are exactly zero.
func (v Vec3) IsZero() bool { return v == Zero }

// Array returns the components as [x, y, z].
func (v Vec3) Array() [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

// FromArray builds a vector from [x, y, z].
func FromArray(a [3]float64) Vec3 { return Vec3{a[0], a[1], a[2]} }

// ClampMag rescales v so its magnitude lies in [min, max]. A zero vector is
// returned unchanged since it has no direction to scale along. The second
// result reports whether the upper bound was applied.
func ClampMag(v Vec3, min, max float64) (Vec3, bool) {
	m := v.Mag()
	if m == 0 {
		return v, false
	}
	if m < min {
		return v.Scale(min / m), false
	}
	if m > max {
		return v.Scale(max / m), true
	}
	return v, false
}

// Sum adds all vectors.
func Sum(vs ...Vec3) Vec3 {
	var out Vec3
	for _, v := range vs {
		out = out.Add(v)
	}
	return out
}

// RandomDirection draws a unit vector uniformly over the sphere.
func RandomDirection(r *rand.Rand) Vec3 {
	z := 2*r.Float64() - 1
	phi := 2 * math.Pi * r.Float64()
	s := math.Sqrt(1 - z*z)
	return Vec3{s * math.Cos(phi), s * math.Sin(phi), z}
}
