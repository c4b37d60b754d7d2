// Package http assembles the registry's HTTP surface: admission record CRUD
// over the SQLite store, read-only access to the latest pipeline run, health
// and Prometheus metrics.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"burnreg/internal/config"
	apierrors "burnreg/internal/errors"
	"burnreg/internal/middleware"
	"burnreg/internal/operations"
	"burnreg/internal/registry"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// NewRouter wires the middleware chain and mounts all handlers.
func NewRouter(cfg *config.Config, logger *slog.Logger, store *registry.Store, result *operations.Result) http.Handler {
	errorHandler := apierrors.NewErrorHandler(logger)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger))
	if cfg.Server.RateLimit.Enabled {
		r.Use(middleware.RateLimit(cfg.Server.RateLimit.RPS, cfg.Server.RateLimit.Burst))
	}

	health := NewHealthHandler(logger, Version)
	r.Get("/healthz", health.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Mount("/records", NewRecordsHandler(store, logger, errorHandler).Routes())
		r.Mount("/results", NewResultsHandler(result, logger, errorHandler).Routes())
	})

	return r
}
