package main

import (
	"math"

	"github.com/gravsim/grav/internal/persist"
)

type summaryListYAML struct {
	Steps []Summary `yaml:"steps"`
}

// Summary aggregates one snapshot record.
type Summary struct {
	Step              uint64     `yaml:"step"`
	Count             int        `yaml:"count"`
	Charged           int        `yaml:"charged"`
	Mass              float64    `yaml:"mass"`
	Charge            float64    `yaml:"charge"`
	KineticEnergy     float64    `yaml:"kinetic_energy"`
	Momentum          [3]float64 `yaml:"momentum,flow"`
	MomentumMagnitude float64    `yaml:"momentum_magnitude"`
}

func Summarize(r persist.Record) Summary {
	s := Summary{Step: r.Step, Count: len(r.Entities)}
	for _, e := range r.Entities {
		s.Mass += e.Mass
		if e.Charge != nil {
			s.Charge += *e.Charge
			s.Charged++
		}
		v2 := 0.0
		for i, v := range e.Velocity {
			s.Momentum[i] += e.Mass * v
			v2 += v * v
		}
		s.KineticEnergy += 0.5 * e.Mass * v2
	}
	p := s.Momentum
	s.MomentumMagnitude = math.Sqrt(p[0]*p[0] + p[1]*p[1] + p[2]*p[2])
	return s
}
