// Package http assembles the board API: route tree, middleware chain and
// the server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/ProjectPulse/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ProjectPulse/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ProjectPulse/internal/interfaces/http/handlers"
	"github.com/turtacn/ProjectPulse/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the dependencies of the route tree.  Nil handlers
// leave their routes unmounted.
type RouterConfig struct {
	BoardHandler  *handlers.BoardHandler
	HealthHandler *handlers.HealthHandler

	Logger           logging.Logger
	MetricsCollector prometheus.MetricsCollector
	Metrics          *prometheus.AppMetrics
	MetricsPath      string

	CORSOrigins []string
	MaxBodySize int64
}

// NewRouter builds the complete route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// ── Global middleware ───────────────────────────────────────────────────
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if len(cfg.CORSOrigins) > 0 {
		r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSOrigins)))
	}
	if cfg.Logger != nil {
		r.Use(middleware.RequestLogging(cfg.Logger, middleware.DefaultLoggingConfig()))
	}
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	r.Use(middleware.MaxBodySize(cfg.MaxBodySize))

	// ── Probes ──────────────────────────────────────────────────────────────
	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsCollector != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, cfg.MetricsCollector.Handler())
	}

	// ── API v1 ──────────────────────────────────────────────────────────────
	r.Route("/api/v1", func(api chi.Router) {
		if cfg.BoardHandler != nil {
			cfg.BoardHandler.RegisterRoutes(api)
		}
	})

	return r
}

//Personal.AI order the ending
