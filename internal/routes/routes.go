package routes

import (
	"log/slog"
	"net/http"
	"time"

	handlers "github.com/example/skyfare/internal/http"
	mid "github.com/example/skyfare/internal/middleware"
	"github.com/example/skyfare/internal/obs"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

type Options struct {
	Timeout        time.Duration
	AllowedOrigins []string
}

func GetRoutes(h *handlers.Handler, metrics *obs.Metrics, logger *slog.Logger, opts Options) *chi.Mux {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	// Useful built-in middlewares
	r.Use(middleware.RealIP)    // proper client IP extraction
	r.Use(middleware.RequestID) // sets request ID header
	r.Use(middleware.Recoverer) // built-in recoverer to avoid panics taking server down

	r.Use(cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Cache", "X-Request-Id"},
	}).Handler)

	// our custom middlewares: metrics, logging & timeout
	r.Use(mid.MetricsMiddleware(metrics))
	r.Use(mid.LoggingMiddleware(logger))
	r.Use(middleware.Timeout(opts.Timeout))

	// endpoints
	r.Get("/api/flights/search", h.FlightSearch)
	r.Get("/api/places", h.Places)
	r.Get("/healthz", h.Healthz)
	r.Get("/metrics", metrics.Handler().ServeHTTP)

	return r
}
