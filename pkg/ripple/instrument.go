package ripple

import (
	"sync/atomic"
	"time"
)

// Instruments receives runtime events for observability layers (metrics,
// tracing, live inspectors). Implementations must be cheap: hooks fire on
// the runtime's single execution thread.
type Instruments interface {
	// NodeCreated fires when a node joins the graph.
	NodeCreated(kind Kind)

	// NodeDisposed fires when a node is removed from the graph.
	NodeDisposed(kind Kind)

	// Recompute fires after every memo or effect computation, including
	// failed ones.
	Recompute(kind Kind, took time.Duration)

	// FlushPass fires after each flush pass with the number of effects
	// that were queued for it.
	FlushPass(queued int, took time.Duration)

	// CycleDetected fires when a computation re-enters itself.
	CycleDetected(node string)

	// ComputeError fires when a computation panics.
	ComputeError(node string)
}

type nopInstruments struct{}

func (nopInstruments) NodeCreated(Kind)              {}
func (nopInstruments) NodeDisposed(Kind)             {}
func (nopInstruments) Recompute(Kind, time.Duration) {}
func (nopInstruments) FlushPass(int, time.Duration)  {}
func (nopInstruments) CycleDetected(string)          {}
func (nopInstruments) ComputeError(string)           {}

// instrumentsBox keeps the stored concrete type stable for atomic.Value.
type instrumentsBox struct{ in Instruments }

var activeInstruments atomic.Value // instrumentsBox

// SetInstruments installs the observability hooks. Pass nil to restore
// the no-op default.
func SetInstruments(in Instruments) {
	if in == nil {
		in = nopInstruments{}
	}
	activeInstruments.Store(instrumentsBox{in: in})
}

func instruments() Instruments {
	if box, ok := activeInstruments.Load().(instrumentsBox); ok {
		return box.in
	}
	return nopInstruments{}
}
