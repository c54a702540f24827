package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/chat-summary-api/internal/metrics"
	"github.com/chat-summary-api/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// SummaryRoute is the path of the summary endpoint
const SummaryRoute = "/api/generate-summary"

// SummaryGenerator produces a summary for a single request
type SummaryGenerator interface {
	GenerateSummary(ctx context.Context, req *models.SummaryRequest) (*models.SummaryResponse, error)
}

// Server represents the HTTP server of the summary endpoint
type Server struct {
	config    *models.ServerConfig
	generator SummaryGenerator
	provider  string
	metrics   *metrics.Metrics
	gatherer  prometheus.Gatherer
	router    *chi.Mux
	http      *http.Server
	logger    zerolog.Logger
}

// New creates a new server instance.
// gatherer backs /metrics and may be nil when metrics are disabled.
func New(
	config *models.ServerConfig,
	generator SummaryGenerator,
	provider string,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
	logger zerolog.Logger,
) *Server {
	if m == nil {
		m = metrics.NewMetrics(nil)
	}

	s := &Server{
		config:    config,
		generator: generator,
		provider:  provider,
		metrics:   m,
		gatherer:  gatherer,
		router:    chi.NewRouter(),
		logger:    logger.With().Str("component", "api").Logger(),
	}
	s.routes(logger)

	s.http = &http.Server{
		Addr:         config.ListenAddr,
		Handler:      s.router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}

	return s
}

// routes wires middleware and handlers.
// Request loggers derive from the root logger so each component sets its own tag.
func (s *Server) routes(logger zerolog.Logger) {
	r := s.router

	r.Use(middleware.RealIP)
	r.Use(requestIDMiddleware(logger))
	r.Use(s.accessLogMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(s.corsMiddleware)

	r.Post(SummaryRoute, s.handleGenerateSummary)
	r.Options(SummaryRoute, s.handlePreflight)

	r.Get("/health", s.handleHealth)

	if s.config.MetricsEnabled && s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.NotFound(s.handleNotFound)
	r.MethodNotAllowed(s.handleMethodNotAllowed)
}

// ServeHTTP lets Server be used as a plain http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start listens until the server is shut down.
// It returns nil after a graceful Stop.
func (s *Server) Start() error {
	s.logger.Info().
		Str("addr", s.http.Addr).
		Str("provider", s.provider).
		Bool("metrics_enabled", s.config.MetricsEnabled).
		Msg("HTTP server listening")

	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Stop stops accepting connections and waits for in-flight requests
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info().Msg("Stopping HTTP server...")
	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
