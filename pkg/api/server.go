package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/plotkit/pkg/pipeline"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Server routes HTTP requests to a pipeline runner.
type Server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	metrics http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithLogger sets the access and error logger. The runner's logger is used
// otherwise.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New creates a server over runner.
func New(runner *pipeline.Runner, opts ...Option) *Server {
	s := &Server{runner: runner, logger: runner.Logger}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(s.recoverer)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeStatus(w, http.StatusNotFound, "NOT_FOUND", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeStatus(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})

	r.Get("/healthz", s.handleHealthz)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/blueprints", s.handleListBlueprints)
		r.Get("/blueprints/{id}/{version}", s.handleGetBlueprint)
		r.Get("/blueprints/{id}/{version}/preview", s.handlePreview)

		r.Get("/plots", s.handleListPlots)
		r.Post("/plots", s.handleCreatePlot)
		r.Route("/plots/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetPlot)
			r.Delete("/", s.handleDeletePlot)
			r.Get("/layout", s.handleLayout)
			r.Get("/completion", s.handleCompletion)
			r.Post("/trees", s.handlePutTree)
			r.Post("/vegetation", s.handlePutVegetation)
			r.Put("/progress/{unit}", s.handlePutProgress)
		})

		r.Post("/analysis", s.handleAnalyze)
	})

	return r
}

// HTTPServer wraps the handler in an *http.Server listening on addr.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}
