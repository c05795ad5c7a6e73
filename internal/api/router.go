package api

import (
	"log/slog"
	"net/http"
	"time"

	"eventtracker/internal/metrics"
	"eventtracker/internal/ratelimit"
	"eventtracker/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates and configures the HTTP router. A nil limiter leaves
// the event routes unthrottled; health, ping and metrics are never
// throttled either way.
func NewRouter(events store.EventStore, backend string, m *metrics.Metrics, limiter ratelimit.Limiter, retryAfter time.Duration, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))
	r.Use(requestMetrics(m))

	eventHandler := NewEventHandler(events, m, logger)

	r.Get("/health", HealthHandler(backend))
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/events", func(r chi.Router) {
		if limiter != nil {
			r.Use(ratelimit.Middleware(limiter, retryAfter, m.RateLimited, logger))
		}
		r.Post("/", eventHandler.Create)
		r.Get("/", eventHandler.List)
		r.Get("/{id}", eventHandler.Get)
	})

	return r
}

// requestMetrics counts completed requests by matched route pattern, method
// and status code.
func requestMetrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			m.IncRequest(route, r.Method, ww.Status())
		})
	}
}
