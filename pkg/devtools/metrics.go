package devtools

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ripple-dev/ripple/pkg/ripple"
)

// MetricsConfig configures the Prometheus instruments.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "ripple").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus instruments.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) { c.Namespace = namespace }
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) { c.Subsystem = subsystem }
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) { c.ConstLabels = labels }
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) { c.Registry = registry }
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "ripple",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics is a ripple.Instruments implementation backed by Prometheus.
//
// Metrics collected:
//   - ripple_nodes_created_total{kind}
//   - ripple_nodes_disposed_total{kind}
//   - ripple_live_nodes{kind}
//   - ripple_recomputes_total{kind}
//   - ripple_recompute_duration_seconds{kind}
//   - ripple_flush_passes_total
//   - ripple_flush_queue_length
//   - ripple_flush_duration_seconds
//   - ripple_cycle_errors_total
//   - ripple_compute_errors_total
//
// Install with:
//
//	ripple.SetInstruments(devtools.NewMetrics())
//	http.Handle("/metrics", promhttp.Handler())
type Metrics struct {
	nodesCreated      *prometheus.CounterVec
	nodesDisposed     *prometheus.CounterVec
	liveNodes         *prometheus.GaugeVec
	recomputes        *prometheus.CounterVec
	recomputeDuration *prometheus.HistogramVec
	flushPasses       prometheus.Counter
	flushQueueLength  prometheus.Histogram
	flushDuration     prometheus.Histogram
	cycleErrors       prometheus.Counter
	computeErrors     prometheus.Counter
}

// NewMetrics creates and registers the Prometheus instruments.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		nodesCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "nodes_created_total",
			Help:        "Total number of reactive nodes created",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		nodesDisposed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "nodes_disposed_total",
			Help:        "Total number of reactive nodes disposed",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		liveNodes: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "live_nodes",
			Help:        "Number of live reactive nodes",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		recomputes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "recomputes_total",
			Help:        "Total number of memo/effect computations",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		recomputeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "recompute_duration_seconds",
			Help:        "Computation duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     prometheus.ExponentialBuckets(1e-6, 10, 7), // 1µs to 1s
		}, []string{"kind"}),

		flushPasses: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_passes_total",
			Help:        "Total number of flush passes",
			ConstLabels: config.ConstLabels,
		}),

		flushQueueLength: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_queue_length",
			Help:        "Number of effects queued per flush pass",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{1, 2, 5, 10, 25, 50, 100, 250},
		}),

		flushDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_duration_seconds",
			Help:        "Flush pass duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     prometheus.ExponentialBuckets(1e-5, 10, 6), // 10µs to 1s
		}),

		cycleErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "cycle_errors_total",
			Help:        "Total number of dependency cycles detected",
			ConstLabels: config.ConstLabels,
		}),

		computeErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "compute_errors_total",
			Help:        "Total number of failed computations",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// NodeCreated implements ripple.Instruments.
func (m *Metrics) NodeCreated(kind ripple.Kind) {
	m.nodesCreated.WithLabelValues(kind.String()).Inc()
	m.liveNodes.WithLabelValues(kind.String()).Inc()
}

// NodeDisposed implements ripple.Instruments.
func (m *Metrics) NodeDisposed(kind ripple.Kind) {
	m.nodesDisposed.WithLabelValues(kind.String()).Inc()
	m.liveNodes.WithLabelValues(kind.String()).Dec()
}

// Recompute implements ripple.Instruments.
func (m *Metrics) Recompute(kind ripple.Kind, took time.Duration) {
	m.recomputes.WithLabelValues(kind.String()).Inc()
	m.recomputeDuration.WithLabelValues(kind.String()).Observe(took.Seconds())
}

// FlushPass implements ripple.Instruments.
func (m *Metrics) FlushPass(queued int, took time.Duration) {
	m.flushPasses.Inc()
	m.flushQueueLength.Observe(float64(queued))
	m.flushDuration.Observe(took.Seconds())
}

// CycleDetected implements ripple.Instruments.
func (m *Metrics) CycleDetected(string) {
	m.cycleErrors.Inc()
}

// ComputeError implements ripple.Instruments.
func (m *Metrics) ComputeError(string) {
	m.computeErrors.Inc()
}

var _ ripple.Instruments = (*Metrics)(nil)
