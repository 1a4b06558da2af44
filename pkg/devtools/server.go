package devtools

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ripple-dev/ripple/pkg/ripple"
)

// SnapshotFunc produces a graph snapshot. The runtime is single-threaded,
// so the host must marshal the call onto the runtime's execution thread
// (typically by dispatching into its event loop) and hand back the plain
// snapshot data.
type SnapshotFunc func() ripple.GraphSnapshot

// ServerConfig configures the inspector server.
type ServerConfig struct {
	// Logger receives server diagnostics. Default: slog.Default().
	Logger *slog.Logger

	// Gatherer serves /metrics. Default: prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
}

// ServerOption configures the inspector server.
type ServerOption func(*ServerConfig)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(c *ServerConfig) { c.Logger = logger }
}

// WithGatherer sets the Prometheus gatherer served at /metrics.
func WithGatherer(g prometheus.Gatherer) ServerOption {
	return func(c *ServerConfig) { c.Gatherer = g }
}

// Server is the graph inspector: a JSON snapshot endpoint, a Prometheus
// metrics endpoint, and a WebSocket stream of live runtime events.
//
// Routes:
//   - GET /graph: current graph snapshot as JSON
//   - GET /live: WebSocket stream of runtime events
//   - GET /metrics: Prometheus exposition
//   - GET /healthz: liveness probe
type Server struct {
	logger   *slog.Logger
	snapshot SnapshotFunc
	gatherer prometheus.Gatherer
	hub      *hub
}

// NewServer creates an inspector around the given snapshot provider.
func NewServer(snapshot SnapshotFunc, opts ...ServerOption) *Server {
	config := ServerConfig{
		Logger:   slog.Default(),
		Gatherer: prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(&config)
	}
	return &Server{
		logger:   config.Logger,
		snapshot: snapshot,
		gatherer: config.Gatherer,
		hub:      newHub(config.Logger),
	}
}

// Events returns the instruments feeding the /live stream. Wire it into
// the runtime, alone or fanned out with metrics and tracing:
//
//	ripple.SetInstruments(devtools.Fanout(srv.Events(), devtools.NewMetrics()))
func (s *Server) Events() ripple.Instruments {
	return &recorder{hub: s.hub}
}

// Handler returns the http.Handler for mounting in an external router or
// serving directly.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)
	r.Get("/graph", s.handleGraph)
	r.Get("/live", s.hub.handleUpgrade)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		s.logger.Error("graph snapshot encode failed", "error", err)
	}
}

// Close disconnects all live stream clients.
func (s *Server) Close() {
	s.hub.close()
}
