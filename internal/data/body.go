package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Body is one particle of an explicit initial population.
type Body struct {
	Mass        *float64   `yaml:"mass"`   // default 1
	Charge      *float64   `yaml:"charge"` // absent = no charge component
	Shape       string     `yaml:"shape"`  // point, sphere (default) or cuboid
	Radius      float64    `yaml:"radius"` // sphere radius, default 1
	HalfExtents [3]float64 `yaml:"half_extents,flow"`
	Position    [3]float64 `yaml:"position,flow"`
	Velocity    [3]float64 `yaml:"velocity,flow"`
	Collisions  *bool      `yaml:"collisions"` // default true
	Lifetime    uint64     `yaml:"lifetime"`

	// Optional angular state; when set the body spins.
	AngularPosition *[3]float64 `yaml:"angular_position,flow"`
	AngularVelocity *[3]float64 `yaml:"angular_velocity,flow"`
}

type bodyListFile struct {
	Bodies []Body `yaml:"bodies"`
}

// BodyTable holds the bodies of one population file in file order.
type BodyTable struct {
	bodies []Body
}

// LoadBodyTable loads a population from a YAML file with a top-level
// "bodies" list.
func LoadBodyTable(path string) (*BodyTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read body_list: %w", err)
	}
	return ParseBodyTable(data)
}

func ParseBodyTable(data []byte) (*BodyTable, error) {
	var f bodyListFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse body_list: %w", err)
	}
	for i := range f.Bodies {
		b, err := NormalizeBody(f.Bodies[i])
		if err != nil {
			return nil, fmt.Errorf("body %d: %w", i, err)
		}
		f.Bodies[i] = b
	}
	return &BodyTable{bodies: f.Bodies}, nil
}

// NormalizeBody fills the defaults of unset fields and rejects impossible
// values.
func NormalizeBody(b Body) (Body, error) {
	if b.Mass == nil {
		one := 1.0
		b.Mass = &one
	}
	if b.Shape == "" {
		b.Shape = "sphere"
	}
	if b.Radius < 0 {
		return b, fmt.Errorf("negative radius %g", b.Radius)
	}
	if b.Radius == 0 {
		b.Radius = 1
	}
	if b.Collisions == nil {
		on := true
		b.Collisions = &on
	}
	return b, nil
}

// Get returns the i-th body.
func (t *BodyTable) Get(i int) (Body, bool) {
	if i < 0 || i >= len(t.bodies) {
		return Body{}, false
	}
	return t.bodies[i], true
}

func (t *BodyTable) Count() int { return len(t.bodies) }

// Each visits every body in file order.
func (t *BodyTable) Each(fn func(i int, b Body)) {
	for i, b := range t.bodies {
		fn(i, b)
	}
}
