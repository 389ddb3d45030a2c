// Package api provides the REST API server for the catalog sync service.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	v0 "github.com/syncline/catalog-sync-server/internal/api/v0"
	"github.com/syncline/catalog-sync-server/internal/logger"
	"github.com/syncline/catalog-sync-server/internal/sync"
)

// ServerOption configures the sync API server
type ServerOption func(*serverConfig)

// serverConfig holds the server configuration
type serverConfig struct {
	middlewares []func(http.Handler) http.Handler
	registry    *prometheus.Registry
}

// WithMiddlewares adds middleware to the server
func WithMiddlewares(mw ...func(http.Handler) http.Handler) ServerOption {
	return func(cfg *serverConfig) {
		cfg.middlewares = append(cfg.middlewares, mw...)
	}
}

// WithMetricsRegistry exposes the given Prometheus registry at /metrics
func WithMetricsRegistry(reg *prometheus.Registry) ServerOption {
	return func(cfg *serverConfig) {
		cfg.registry = reg
	}
}

// NewServer creates and configures the HTTP router with the given service and options
func NewServer(svc sync.Service, opts ...ServerOption) *chi.Mux {
	cfg := &serverConfig{
		middlewares: []func(http.Handler) http.Handler{},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	for _, mw := range cfg.middlewares {
		r.Use(mw)
	}

	// Health and version routes live at the root
	r.Mount("/", v0.HealthRouter())

	if cfg.registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.registry, promhttp.HandlerOpts{}))
	}

	r.Mount("/api/v0", v0.Router(svc))

	return r
}

// LoggingMiddleware logs HTTP requests
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		logger.Debugf("HTTP %s %s %d %s %s",
			r.Method,
			r.URL.Path,
			ww.Status(),
			time.Since(start),
			middleware.GetReqID(r.Context()),
		)
	})
}
