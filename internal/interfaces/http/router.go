// Package http exposes the chart service over a chi router.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/saju-engine/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/saju-engine/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/saju-engine/internal/interfaces/http/handlers"
	"github.com/turtacn/saju-engine/internal/interfaces/http/middleware"
)

// APIPrefix is the mount point of the versioned API.
const APIPrefix = "/api/v1"

// RouterConfig aggregates all handler and middleware dependencies required
// to construct the HTTP route tree.
type RouterConfig struct {
	// Handlers
	ChartHandler  *handlers.ChartHandler
	HealthHandler *handlers.HealthHandler

	// Middleware
	Logging     middleware.LoggingConfig
	CORSOrigins []string
	// RateLimiter throttles the API group; nil disables limiting.
	RateLimiter middleware.RateLimiter

	// Infrastructure
	Logger  logging.Logger
	Metrics *prometheus.EngineMetrics
	// MetricsHandler is served at MetricsPath when set.
	MetricsHandler http.Handler
	MetricsPath    string
}

// NewRouter constructs the complete HTTP route tree from the given configuration.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	r := chi.NewRouter()

	// --- Global middleware (applied to every request) ---
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogging(logger, cfg.Metrics, cfg.Logging))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSOrigins)))

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	// --- Probes ---
	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}

	if cfg.MetricsHandler != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, cfg.MetricsHandler)
	}

	// --- API v1 ---
	r.Route(APIPrefix, func(api chi.Router) {
		api.Use(middleware.InFlight(cfg.Metrics, APIPrefix))
		if cfg.RateLimiter != nil {
			api.Use(middleware.RateLimit(cfg.RateLimiter, logger))
		}
		registerChartRoutes(api, cfg.ChartHandler)
	})

	return r
}

// registerChartRoutes mounts the chart endpoints.
func registerChartRoutes(r chi.Router, h *handlers.ChartHandler) {
	if h == nil {
		return
	}
	r.Post("/charts", h.Compute)
	r.Post("/charts/batch", h.Batch)
	r.Get("/solar-terms/{year}", h.SolarTerms)
	r.Get("/options", h.Defaults)
	r.Post("/options/resolve", h.ResolveOptions)
}

//Personal.AI order the ending
