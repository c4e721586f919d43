// Package seed builds the initial particle population.
package seed

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/gravsim/grav/internal/component"
	"github.com/gravsim/grav/internal/config"
	"github.com/gravsim/grav/internal/core/vmath"
	"github.com/gravsim/grav/internal/data"
	"github.com/gravsim/grav/internal/scripting"
	"github.com/gravsim/grav/internal/world"
)

// Populate creates the initial particles in ws according to cfg.Mode and
// returns how many were created. count is ignored in file mode, where the
// body list decides.
func Populate(ws *world.State, cfg config.SeedingConfig, count int, rng *rand.Rand, log *zap.Logger) (int, error) {
	var (
		particles []world.Particle
		err       error
	)
	switch cfg.Mode {
	case "random", "":
		particles = Random(count, cfg, rng)
	case "file":
		particles, err = File(cfg.File)
	case "script":
		particles, err = Script(cfg.Script, count, rng, log)
	default:
		err = fmt.Errorf("unknown seeding mode %q", cfg.Mode)
	}
	if err != nil {
		return 0, fmt.Errorf("seed %s: %w", cfg.Mode, err)
	}
	for _, p := range particles {
		ws.Create(p)
	}
	log.Info("population seeded", zap.String("mode", cfg.Mode), zap.Int("particles", len(particles)))
	return len(particles), nil
}

var chargeCycle = [3]float64{0, -1, 1}

// Random scatters n spheres around the origin. Charges cycle 0, -1, +1 by
// index; positions and velocities have uniformly random directions with
// magnitudes drawn from the configured ranges.
func Random(n int, cfg config.SeedingConfig, rng *rand.Rand) []world.Particle {
	out := make([]world.Particle, 0, n)
	for i := 0; i < n; i++ {
		pos := vmath.RandomDirection(rng).Scale(uniform(rng, cfg.PositionMin, cfg.PositionMax))
		vel := vmath.RandomDirection(rng).Scale(uniform(rng, cfg.VelocityMin, cfg.VelocityMax))
		out = append(out, world.Particle{
			Mass:              cfg.Mass,
			Charge:            chargeCycle[i%len(chargeCycle)],
			Position:          pos,
			Velocity:          vel,
			Shape:             component.Sphere(cfg.Radius),
			CollisionsEnabled: true,
		})
	}
	return out
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}

// File reads an explicit population from a YAML body list.
func File(path string) ([]world.Particle, error) {
	tbl, err := data.LoadBodyTable(path)
	if err != nil {
		return nil, err
	}
	out := make([]world.Particle, 0, tbl.Count())
	var firstErr error
	tbl.Each(func(i int, b data.Body) {
		p, err := FromBody(b)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("body %d: %w", i, err)
			}
			return
		}
		out = append(out, p)
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

// Script asks the Lua seed(index, count) function for n particles.
func Script(path string, n int, rng *rand.Rand, log *zap.Logger) ([]world.Particle, error) {
	eng, err := scripting.NewEngine(path, rng, log)
	if err != nil {
		return nil, err
	}
	defer eng.Close()

	out := make([]world.Particle, 0, n)
	for i := 0; i < n; i++ {
		b, err := eng.Seed(i, n)
		if err != nil {
			return nil, err
		}
		p, err := FromBody(b)
		if err != nil {
			return nil, fmt.Errorf("body %d: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// FromBody converts a normalised body description into a particle.
func FromBody(b data.Body) (world.Particle, error) {
	kind, err := component.ParseShapeKind(b.Shape)
	if err != nil {
		return world.Particle{}, err
	}
	p := world.Particle{
		Position: vmath.FromArray(b.Position),
		Velocity: vmath.FromArray(b.Velocity),
		Lifetime: b.Lifetime,
		Mass:     1,
	}
	if b.Mass != nil {
		p.Mass = *b.Mass
	}
	if b.Charge != nil {
		p.Charge = *b.Charge
	} else {
		p.NoCharge = true
	}
	p.CollisionsEnabled = b.Collisions == nil || *b.Collisions

	switch kind {
	case component.ShapePoint:
		p.Shape = component.Point()
	case component.ShapeSphere:
		p.Shape = component.Sphere(b.Radius)
	case component.ShapeCuboid:
		h := b.HalfExtents
		p.Shape = component.Cuboid(h[0], h[1], h[2])
	}

	if b.AngularPosition != nil || b.AngularVelocity != nil {
		o := component.Orientation{AngularPosition: vmath.Vec3{X: 1}}
		if b.AngularPosition != nil {
			o.AngularPosition = vmath.FromArray(*b.AngularPosition).Dir()
		}
		if b.AngularVelocity != nil {
			o.AngularVelocity = vmath.FromArray(*b.AngularVelocity)
		}
		p.Orientation = &o
	}
	return p, nil
}
