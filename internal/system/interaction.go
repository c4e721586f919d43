package system

import (
	"go.uber.org/zap"

	"github.com/gravsim/grav/internal/component"
	"github.com/gravsim/grav/internal/core/ecs"
	coresys "github.com/gravsim/grav/internal/core/system"
	"github.com/gravsim/grav/internal/core/vmath"
	"github.com/gravsim/grav/internal/world"
)

// pairStrength returns the signed inverse-square coefficient for a pair.
// Positive values pull a toward b.
type pairStrength func(a, b ecs.EntityID) float64

// accumulatePairs walks every unordered pair of ids once, writes the force on
// a under "<kind>:<b>" and its negation on b under "<kind>:<a>". Pairs already
// written and coincident pairs are skipped. Returns the number of pairs written.
func accumulatePairs(ws *world.State, kind component.Interaction, ids []ecs.EntityID, strength pairStrength) int {
	written := 0
	for i, a := range ids {
		da, _ := ws.Dynamics.Get(a)
		fa, _ := ws.Forces.Get(a)
		for _, b := range ids[i+1:] {
			key := component.ForceKey(kind, b)
			if fa.Has(key) {
				continue
			}
			db, _ := ws.Dynamics.Get(b)
			d := db.Position.Sub(da.Position)
			r := d.Mag()
			if r < vmath.Epsilon {
				continue
			}
			f := d.Dir().Scale(strength(a, b) / (r * r))
			fb, _ := ws.Forces.Get(b)
			fa.Set(key, f)
			fb.Set(component.ForceKey(kind, a), f.Neg())
			written++
		}
	}
	return written
}

// GravitySystem computes newtonian attraction between every pair of massive
// particles.
type GravitySystem struct {
	world *world.State
}

func NewGravitySystem(ws *world.State) *GravitySystem {
	return &GravitySystem{world: ws}
}

func (s *GravitySystem) Stage() coresys.Stage   { return StageGravity }
func (s *GravitySystem) After() []coresys.Stage { return after(StageClearForces) }

func (s *GravitySystem) Update(ctx *world.SimContext) error {
	if !ctx.Enabled.Gravity {
		return nil
	}
	ws := s.world
	g := ctx.GravitationalConstant
	ids := ecs.Join(ws.Dynamics, ws.Masses, ws.Forces)
	n := accumulatePairs(ws, component.Gravity, ids, func(a, b ecs.EntityID) float64 {
		ma, _ := ws.Masses.Get(a)
		mb, _ := ws.Masses.Get(b)
		return g * float64(*ma) * float64(*mb)
	})
	ctx.Logger().Debug("gravity", zap.Uint64("step", ctx.Step), zap.Int("bodies", len(ids)), zap.Int("pairs", n))
	return nil
}

// ElectrostaticsSystem computes Coulomb forces: like charges repel.
type ElectrostaticsSystem struct {
	world *world.State
}

func NewElectrostaticsSystem(ws *world.State) *ElectrostaticsSystem {
	return &ElectrostaticsSystem{world: ws}
}

func (s *ElectrostaticsSystem) Stage() coresys.Stage   { return StageElectrostatics }
func (s *ElectrostaticsSystem) After() []coresys.Stage { return after(StageClearForces) }

func (s *ElectrostaticsSystem) Update(ctx *world.SimContext) error {
	if !ctx.Enabled.Electrostatics {
		return nil
	}
	ws := s.world
	k := ctx.ElectrostaticConstant
	ids := ecs.Join(ws.Dynamics, ws.Charges, ws.Forces)
	n := accumulatePairs(ws, component.Electrostatics, ids, func(a, b ecs.EntityID) float64 {
		qa, _ := ws.Charges.Get(a)
		qb, _ := ws.Charges.Get(b)
		return -k * float64(*qa) * float64(*qb)
	})
	ctx.Logger().Debug("electrostatics", zap.Uint64("step", ctx.Step), zap.Int("bodies", len(ids)), zap.Int("pairs", n))
	return nil
}
