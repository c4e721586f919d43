package scripting

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/gravsim/grav/internal/core/vmath"
	"github.com/gravsim/grav/internal/data"
)

// Engine wraps a single gopher-lua VM that evaluates seeding scripts.
// Single-goroutine access only; seeding runs before the first tick.
type Engine struct {
	vm  *lua.LState
	rng *rand.Rand
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads the script at path. A directory
// loads every .lua file in it, in name order. The helpers uniform(a, b) and
// direction() draw from rng so a fixed seed reproduces the population.
func NewEngine(path string, rng *rand.Rand, log *zap.Logger) (*Engine, error) {
	files, err := scriptFiles(path)
	if err != nil {
		return nil, fmt.Errorf("seed script: %w", err)
	}

	e := &Engine{vm: lua.NewState(), rng: rng, log: log}
	e.vm.SetGlobal("uniform", e.vm.NewFunction(e.luaUniform))
	e.vm.SetGlobal("direction", e.vm.NewFunction(e.luaDirection))

	for _, f := range files {
		if err := e.vm.DoFile(f); err != nil {
			e.vm.Close()
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
		log.Debug("loaded seed script", zap.String("file", f))
	}
	return e, nil
}

// scriptFiles expands path into the .lua files to load. Glob returns
// matches in lexical order.
func scriptFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	return filepath.Glob(filepath.Join(path, "*.lua"))
}

// uniform(a, b) returns a number drawn uniformly from [a, b).
func (e *Engine) luaUniform(L *lua.LState) int {
	a := float64(L.CheckNumber(1))
	b := float64(L.CheckNumber(2))
	L.Push(lua.LNumber(a + (b-a)*e.rng.Float64()))
	return 1
}

// direction() returns a random unit vector as {x=, y=, z=}.
func (e *Engine) luaDirection(L *lua.LState) int {
	d := vmath.RandomDirection(e.rng)
	t := L.NewTable()
	t.RawSetString("x", lua.LNumber(d.X))
	t.RawSetString("y", lua.LNumber(d.Y))
	t.RawSetString("z", lua.LNumber(d.Z))
	L.Push(t)
	return 1
}

// Seed calls the Lua seed(index, count) function for one body. index is
// 0-based. Missing fields take the same defaults as a body list entry.
func (e *Engine) Seed(index, count int) (data.Body, error) {
	fn := e.vm.GetGlobal("seed")
	if fn == lua.LNil {
		return data.Body{}, fmt.Errorf("lua function seed not found")
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lua.LNumber(index), lua.LNumber(count)); err != nil {
		return data.Body{}, fmt.Errorf("lua seed(%d): %w", index, err)
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		return data.Body{}, fmt.Errorf("lua seed(%d) returned %s, want table", index, result.Type())
	}

	b := data.Body{
		Shape:    lStr(rt, "shape"),
		Radius:   lNum(rt, "radius"),
		Position: lVec(rt, "position"),
		Velocity: lVec(rt, "velocity"),
		Lifetime: uint64(lNum(rt, "lifetime")),
	}
	if v := rt.RawGetString("mass"); v != lua.LNil {
		m := float64(lua.LVAsNumber(v))
		b.Mass = &m
	}
	if v := rt.RawGetString("charge"); v != lua.LNil {
		q := float64(lua.LVAsNumber(v))
		b.Charge = &q
	}
	if v := rt.RawGetString("collisions"); v != lua.LNil {
		on := lua.LVAsBool(v)
		b.Collisions = &on
	}
	if v, ok := rt.RawGetString("half_extents").(*lua.LTable); ok {
		b.HalfExtents = vecOf(v)
	}
	return data.NormalizeBody(b)
}

func lNum(t *lua.LTable, key string) float64 {
	return float64(lua.LVAsNumber(t.RawGetString(key)))
}

func lStr(t *lua.LTable, key string) string {
	return lua.LVAsString(t.RawGetString(key))
}

// lVec reads {x=, y=, z=} or {a, b, c}; anything else is the zero vector.
func lVec(t *lua.LTable, key string) [3]float64 {
	v, ok := t.RawGetString(key).(*lua.LTable)
	if !ok {
		return [3]float64{}
	}
	return vecOf(v)
}

func vecOf(v *lua.LTable) [3]float64 {
	if v.RawGetString("x") != lua.LNil || v.RawGetString("y") != lua.LNil || v.RawGetString("z") != lua.LNil {
		return [3]float64{lNum(v, "x"), lNum(v, "y"), lNum(v, "z")}
	}
	var out [3]float64
	for i := range out {
		out[i] = float64(lua.LVAsNumber(v.RawGetInt(i + 1)))
	}
	return out
}

func (e *Engine) Close() {
	e.vm.Close()
}
