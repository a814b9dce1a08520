// Package web provides the HTTP API surface: document transformation,
// document store access, and rule snapshot management.
package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/CBIIT/ccdi-dcc-federation-service/adapters/metrics"
)

// Router builds the chi router for the service.
func Router(h *Handler, logger zerolog.Logger, collector *metrics.Collector, metricsPath string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger, collector))

	r.Get("/healthz", h.Health)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/info", h.Info)
		r.Post("/transform", h.Transform)

		r.Get("/rules", h.Rules)
		r.Post("/rules/reload", h.ReloadRules)

		r.Post("/documents", h.CreateDocument)
		r.Get("/documents/{id}", h.GetDocument)
		r.Get("/documents/{id}/transformed", h.GetTransformedDocument)
	})

	if collector != nil && metricsPath != "" {
		r.Handle(metricsPath, promhttp.Handler())
	}

	return r
}

// requestLogger logs each request and records HTTP metrics.
func requestLogger(logger zerolog.Logger, collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			elapsed := time.Since(start)
			logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("elapsed", elapsed).
				Msg("request")

			if collector != nil {
				status := strconv.Itoa(ww.Status())
				path := routePattern(r)
				collector.RequestsTotal.WithLabelValues(r.Method, path, status).Inc()
				collector.RequestDuration.WithLabelValues(r.Method, path, status).Observe(elapsed.Seconds())
			}
		})
	}
}

// routePattern labels metrics with the matched chi pattern so that
// parameterized routes like /v1/documents/{id} stay one label value
// instead of one per id.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}
