package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/temperature-heatmap-service/internal/config"
	"github.com/couchcryptid/temperature-heatmap-service/internal/pipeline"
	"github.com/couchcryptid/temperature-heatmap-service/internal/render"
	"github.com/couchcryptid/temperature-heatmap-service/internal/view"
)

// SnapshotProvider returns the snapshot currently being served.
type SnapshotProvider interface {
	Current() *pipeline.Snapshot
}

// Deps are the components the heatmap routes are served from.
type Deps struct {
	Ready       sharedobs.ReadinessChecker
	Snapshots   SnapshotProvider
	Controllers view.Controllers
	Renderer    render.Renderer
	Layout      config.Layout
}

// Server exposes the heatmap pages, SVG and JSON endpoints alongside health,
// readiness, and metrics.
type Server struct {
	httpServer *http.Server
	deps       Deps
	logger     *slog.Logger
}

// NewServer creates an HTTP server with every heatmap route registered.
func NewServer(addr string, deps Deps, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		deps:   deps,
		logger: logger,
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /level/{level}", s.handlePage)
	mux.HandleFunc("POST /level/{level}/mode/{mode}", s.handleSelectMode)
	mux.HandleFunc("GET /level/{level}/heatmap.svg", s.handleHeatmap)
	mux.HandleFunc("GET /level/2/cells/{year}/{month}/chart.svg", s.handleCellChart)

	mux.HandleFunc("GET /api/snapshot", s.handleSnapshot)
	mux.HandleFunc("GET /api/level/{level}/aggregates", s.handleAggregates)
	mux.HandleFunc("GET /api/level/{level}/cells/{year}/{month}/tooltip", s.handleTooltip)

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(deps.Ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
