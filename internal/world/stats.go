package world

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gravsim/grav/internal/core/event"
)

// Stats counts merge and split activity over a run. It is fed by the event
// bus, so counts lag the simulation by one tick until the bus is flushed.
type Stats struct {
	Merges              int
	Absorbed            int
	Splits              int
	UnsupportedContacts int
}

// Subscribe wires the counters to bus.
func (st *Stats) Subscribe(bus *event.Bus) {
	event.Subscribe(bus, func(e event.Merged) {
		st.Merges++
		st.Absorbed += len(e.Absorbed)
	})
	event.Subscribe(bus, func(event.Split) { st.Splits++ })
	event.Subscribe(bus, func(event.ContactUnsupported) { st.UnsupportedContacts++ })
}

func (st Stats) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("merges", st.Merges)
	enc.AddInt("absorbed", st.Absorbed)
	enc.AddInt("splits", st.Splits)
	enc.AddInt("unsupported_contacts", st.UnsupportedContacts)
	return nil
}

// Field renders the counters as a single zap field.
func (st Stats) Field() zap.Field { return zap.Object("stats", st) }
