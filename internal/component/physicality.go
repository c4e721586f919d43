package component

import (
	"fmt"
	"strings"

	"github.com/gravsim/grav/internal/core/vmath"
)

// ShapeKind tags the variant held by a Shape.
type ShapeKind uint8

const (
	ShapePoint ShapeKind = iota
	ShapeSphere
	ShapeCuboid
)

func (k ShapeKind) String() string {
	switch k {
	case ShapePoint:
		return "point"
	case ShapeSphere:
		return "sphere"
	case ShapeCuboid:
		return "cuboid"
	}
	return fmt.Sprintf("shape(%d)", uint8(k))
}

// ParseShapeKind accepts "point", "sphere" or "cuboid" (case-insensitive).
func ParseShapeKind(s string) (ShapeKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "point", "":
		return ShapePoint, nil
	case "sphere":
		return ShapeSphere, nil
	case "cuboid":
		return ShapeCuboid, nil
	}
	return ShapePoint, fmt.Errorf("unknown shape %q", s)
}

// Shape is a point, a sphere of Radius, or a cuboid with the given half
// extents measured from the centre to each face.
type Shape struct {
	Kind        ShapeKind
	Radius      float64
	HalfExtents vmath.Vec3
}

func Point() Shape                { return Shape{Kind: ShapePoint} }
func Sphere(radius float64) Shape { return Shape{Kind: ShapeSphere, Radius: radius} }
func Cuboid(hx, hy, hz float64) Shape {
	return Shape{Kind: ShapeCuboid, HalfExtents: vmath.Vec3{X: hx, Y: hy, Z: hz}}
}

// SphereRadius returns the radius when the shape is a sphere.
func (s Shape) SphereRadius() (float64, bool) {
	if s.Kind != ShapeSphere {
		return 0, false
	}
	return s.Radius, true
}

// Physicality gives a particle extent and opts it in or out of collisions.
type Physicality struct {
	Shape             Shape
	CollisionsEnabled bool
}
