package system

import (
	"fmt"

	"github.com/gravsim/grav/internal/component"
	"github.com/gravsim/grav/internal/core/ecs"
	coresys "github.com/gravsim/grav/internal/core/system"
	"github.com/gravsim/grav/internal/persist"
	"github.com/gravsim/grav/internal/world"
)

// OutputSystem appends one snapshot record per step to the context's sink.
// A failed append aborts the run.
type OutputSystem struct {
	world *world.State
}

func NewOutputSystem(ws *world.State) *OutputSystem {
	return &OutputSystem{world: ws}
}

func (s *OutputSystem) Stage() coresys.Stage   { return StageOutput }
func (s *OutputSystem) After() []coresys.Stage { return after(StageIntegrate) }

func (s *OutputSystem) Update(ctx *world.SimContext) error {
	if ctx.Sink == nil {
		return nil
	}
	rec := Snapshot(s.world, ctx.Step)
	if err := ctx.Sink.Append(rec); err != nil {
		return fmt.Errorf("append snapshot step %d: %w", ctx.Step, err)
	}
	return nil
}

// Snapshot captures every particle carrying Dynamics and Mass.
func Snapshot(ws *world.State, step uint64) persist.Record {
	rec := persist.Record{Step: step, Entities: make([]persist.EntityRecord, 0, ws.Masses.Len())}
	ecs.Each2(ws.Dynamics, ws.Masses, func(id ecs.EntityID, d *component.Dynamics, m *component.Mass) {
		er := persist.EntityRecord{
			Acceleration: d.Acceleration.Array(),
			Mass:         float64(*m),
			Position:     d.Position.Array(),
			Velocity:     d.Velocity.Array(),
		}
		if q, ok := ws.Charges.Get(id); ok {
			v := float64(*q)
			er.Charge = &v
		}
		rec.Entities = append(rec.Entities, er)
	})
	return rec
}
