package chi

import (
	"net/http"

	gochi "github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/storefront/internal/metrics"
)

// RouterOptions configures the cross-cutting middleware.
type RouterOptions struct {
	APIKeys        []string
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter mounts the API routes with recovery, request ids, request
// logging, auth and metrics.
func NewRouter(s *Server, opts RouterOptions, logger *zap.Logger) http.Handler {
	r := gochi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(BearerAuthMiddleware(opts.APIKeys))
	r.Use(metrics.Middleware())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "Method not allowed")
	})

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.With(RateLimitMiddleware(opts.RateLimitRPS, opts.RateLimitBurst)).
		Post("/api/products", s.QueryProducts)
	r.Get("/api/products/filters", s.ListFilters)

	return r
}
