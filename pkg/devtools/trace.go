package devtools

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ripple-dev/ripple/pkg/ripple"
)

// Default tracer name for ripple runtimes.
const defaultTracerName = "ripple"

// TracerConfig configures the OpenTelemetry instruments.
type TracerConfig struct {
	// TracerName is the name of the tracer (default: "ripple").
	TracerName string

	// MinFlushQueue skips spans for flush passes smaller than this,
	// keeping trace volume manageable for chatty runtimes. Default 1
	// (trace everything).
	MinFlushQueue int
}

// TracerOption configures the OpenTelemetry instruments.
type TracerOption func(*TracerConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracerOption {
	return func(c *TracerConfig) { c.TracerName = name }
}

// WithMinFlushQueue sets the smallest flush pass worth a span.
func WithMinFlushQueue(n int) TracerOption {
	return func(c *TracerConfig) { c.MinFlushQueue = n }
}

// Tracer is a ripple.Instruments implementation that emits OpenTelemetry
// spans for flush passes and span-free counters for errors. It uses the
// global tracer provider; configure that in main() before wiring it in.
type Tracer struct {
	tracer        trace.Tracer
	minFlushQueue int
}

// NewTracer creates the tracing instruments.
func NewTracer(opts ...TracerOption) *Tracer {
	config := TracerConfig{
		TracerName:    defaultTracerName,
		MinFlushQueue: 1,
	}
	for _, opt := range opts {
		opt(&config)
	}
	return &Tracer{
		tracer:        otel.Tracer(config.TracerName),
		minFlushQueue: config.MinFlushQueue,
	}
}

// NodeCreated implements ripple.Instruments.
func (t *Tracer) NodeCreated(ripple.Kind) {}

// NodeDisposed implements ripple.Instruments.
func (t *Tracer) NodeDisposed(ripple.Kind) {}

// Recompute implements ripple.Instruments.
func (t *Tracer) Recompute(ripple.Kind, time.Duration) {}

// FlushPass implements ripple.Instruments. The hook fires after the pass
// completes, so the span is reconstructed with explicit timestamps.
func (t *Tracer) FlushPass(queued int, took time.Duration) {
	if queued < t.minFlushQueue {
		return
	}
	end := time.Now()
	start := end.Add(-took)

	_, span := t.tracer.Start(context.Background(), "ripple.flush",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithTimestamp(start),
		trace.WithAttributes(
			attribute.Int("ripple.flush.queued", queued),
		),
	)
	span.End(trace.WithTimestamp(end))
}

// CycleDetected implements ripple.Instruments.
func (t *Tracer) CycleDetected(node string) {
	_, span := t.tracer.Start(context.Background(), "ripple.cycle",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("ripple.node", node)),
	)
	span.End()
}

// ComputeError implements ripple.Instruments.
func (t *Tracer) ComputeError(node string) {
	_, span := t.tracer.Start(context.Background(), "ripple.compute_error",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("ripple.node", node)),
	)
	span.End()
}

var _ ripple.Instruments = (*Tracer)(nil)

// Fanout combines several instrument implementations into one, so metrics,
// tracing, and a live inspector can observe the same runtime.
func Fanout(list ...ripple.Instruments) ripple.Instruments {
	return fanout(list)
}

type fanout []ripple.Instruments

func (f fanout) NodeCreated(kind ripple.Kind) {
	for _, in := range f {
		in.NodeCreated(kind)
	}
}

func (f fanout) NodeDisposed(kind ripple.Kind) {
	for _, in := range f {
		in.NodeDisposed(kind)
	}
}

func (f fanout) Recompute(kind ripple.Kind, took time.Duration) {
	for _, in := range f {
		in.Recompute(kind, took)
	}
}

func (f fanout) FlushPass(queued int, took time.Duration) {
	for _, in := range f {
		in.FlushPass(queued, took)
	}
}

func (f fanout) CycleDetected(node string) {
	for _, in := range f {
		in.CycleDetected(node)
	}
}

func (f fanout) ComputeError(node string) {
	for _, in := range f {
		in.ComputeError(node)
	}
}
