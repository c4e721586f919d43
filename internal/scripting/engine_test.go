package scripting

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const ringScript = `
function seed(index, count)
  local d = direction()
  local r = uniform(5, 10)
  return {
    mass = index + 1,
    charge = (index % 2 == 0) and 1 or -1,
    radius = 0.5,
    position = {x = d.x * r, y = d.y * r, z = d.z * r},
    velocity = {0, 1, 0},
    collisions = index ~= 2,
  }
end
`

func newEngine(t *testing.T, script string, seed int64) *Engine {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.lua")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o644))
	e, err := NewEngine(path, rand.New(rand.NewSource(seed)), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

func TestSeedReadsTable(t *testing.T) {
	e := newEngine(t, ringScript, 1)

	b, err := e.Seed(2, 4)
	require.NoError(t, err)
	assert.Equal(t, 3.0, *b.Mass)
	assert.Equal(t, 1.0, *b.Charge)
	assert.Equal(t, 0.5, b.Radius)
	assert.Equal(t, "sphere", b.Shape)
	assert.Equal(t, [3]float64{0, 1, 0}, b.Velocity)
	assert.False(t, *b.Collisions)

	p := b.Position
	r := p[0]*p[0] + p[1]*p[1] + p[2]*p[2]
	assert.GreaterOrEqual(t, r, 25.0)
	assert.Less(t, r, 100.0)
}

func TestSeedIsDeterministic(t *testing.T) {
	a := newEngine(t, ringScript, 42)
	b := newEngine(t, ringScript, 42)
	for i := 0; i < 5; i++ {
		ba, err := a.Seed(i, 5)
		require.NoError(t, err)
		bb, err := b.Seed(i, 5)
		require.NoError(t, err)
		assert.Equal(t, ba.Position, bb.Position)
	}
}

func TestSeedDefaults(t *testing.T) {
	e := newEngine(t, `function seed(i, n) return {} end`, 1)
	b, err := e.Seed(0, 1)
	require.NoError(t, err)
	assert.Equal(t, 1.0, *b.Mass)
	assert.Nil(t, b.Charge)
	assert.Equal(t, 1.0, b.Radius)
	assert.True(t, *b.Collisions)
}

func TestSeedErrors(t *testing.T) {
	_, err := newEngine(t, `x = 1`, 1).Seed(0, 1)
	assert.ErrorContains(t, err, "seed not found")

	_, err = newEngine(t, `function seed() return 3 end`, 1).Seed(0, 1)
	assert.ErrorContains(t, err, "want table")

	_, err = newEngine(t, `function seed() error("boom") end`, 1).Seed(0, 1)
	assert.ErrorContains(t, err, "boom")

	_, err = NewEngine(filepath.Join(t.TempDir(), "missing.lua"), rand.New(rand.NewSource(1)), zap.NewNop())
	assert.Error(t, err)
}

func TestDirectoryLoadsScriptsInNameOrder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.lua"), []byte(`function seed() return {mass = 1} end`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.lua"), []byte(`function seed() return {mass = 2} end`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(`not lua`), 0o644))

	e, err := NewEngine(dir, rand.New(rand.NewSource(1)), zap.NewNop())
	require.NoError(t, err)
	defer e.Close()

	b, err := e.Seed(0, 1)
	require.NoError(t, err)
	assert.Equal(t, 2.0, *b.Mass)
}
