package seed

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gravsim/grav/internal/component"
	"github.com/gravsim/grav/internal/config"
	"github.com/gravsim/grav/internal/core/vmath"
	"github.com/gravsim/grav/internal/data"
	"github.com/gravsim/grav/internal/world"
)

func TestRandomPopulation(t *testing.T) {
	cfg := config.Default().Seeding
	ps := Random(7, cfg, rand.New(rand.NewSource(3)))
	require.Len(t, ps, 7)

	for i, p := range ps {
		assert.Equal(t, chargeCycle[i%3], p.Charge)
		assert.Equal(t, cfg.Mass, p.Mass)
		assert.Equal(t, component.Sphere(cfg.Radius), p.Shape)
		assert.True(t, p.CollisionsEnabled)
		assert.GreaterOrEqual(t, p.Position.Mag(), cfg.PositionMin-1e-9)
		assert.LessOrEqual(t, p.Position.Mag(), cfg.PositionMax+1e-9)
		assert.LessOrEqual(t, p.Velocity.Mag(), cfg.VelocityMax+1e-9)
	}
	assert.Equal(t, []float64{0, -1, 1, 0}, []float64{ps[0].Charge, ps[1].Charge, ps[2].Charge, ps[3].Charge})
}

func TestRandomIsDeterministicPerSeed(t *testing.T) {
	cfg := config.Default().Seeding
	a := Random(20, cfg, rand.New(rand.NewSource(9)))
	b := Random(20, cfg, rand.New(rand.NewSource(9)))
	c := Random(20, cfg, rand.New(rand.NewSource(10)))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestFromBody(t *testing.T) {
	mass, charge := 4.0, -2.0
	off := false
	b, err := data.NormalizeBody(data.Body{
		Mass:            &mass,
		Charge:          &charge,
		Shape:           "cuboid",
		HalfExtents:     [3]float64{1, 2, 3},
		Position:        [3]float64{1, 0, 0},
		Collisions:      &off,
		AngularVelocity: &[3]float64{0, 0, 2},
	})
	require.NoError(t, err)

	p, err := FromBody(b)
	require.NoError(t, err)
	assert.Equal(t, 4.0, p.Mass)
	assert.Equal(t, -2.0, p.Charge)
	assert.False(t, p.NoCharge)
	assert.Equal(t, component.Cuboid(1, 2, 3), p.Shape)
	assert.False(t, p.CollisionsEnabled)
	require.NotNil(t, p.Orientation)
	assert.Equal(t, vmath.Vec3{X: 1}, p.Orientation.AngularPosition)
	assert.Equal(t, vmath.Vec3{Z: 2}, p.Orientation.AngularVelocity)

	_, err = FromBody(data.Body{Shape: "torus"})
	assert.Error(t, err)
}

func TestPopulateFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bodies.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
bodies:
  - {mass: 2, charge: 1, position: [0, 0, 0]}
  - {mass: 3, position: [5, 0, 0], shape: point}
`), 0o644))

	ws := world.NewState()
	cfg := config.Default().Seeding
	cfg.Mode = "file"
	cfg.File = path
	n, err := Populate(ws, cfg, 99, rand.New(rand.NewSource(1)), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, ws.Count())
	mass, charge := ws.Totals()
	assert.Equal(t, 5.0, mass)
	assert.Equal(t, 1.0, charge)
}

func TestPopulateFromScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.lua")
	require.NoError(t, os.WriteFile(path, []byte(`
function seed(index, count)
  return {mass = 10, charge = 0, position = {index * 3, 0, 0}}
end
`), 0o644))

	ws := world.NewState()
	cfg := config.Default().Seeding
	cfg.Mode = "script"
	cfg.Script = path
	n, err := Populate(ws, cfg, 4, rand.New(rand.NewSource(1)), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	mass, _ := ws.Totals()
	assert.Equal(t, 40.0, mass)
}

func TestPopulateUnknownMode(t *testing.T) {
	cfg := config.Default().Seeding
	cfg.Mode = "lattice"
	_, err := Populate(world.NewState(), cfg, 1, rand.New(rand.NewSource(1)), zap.NewNop())
	assert.ErrorContains(t, err, "unknown seeding mode")
}
