package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"larpilot/backoffice/internal/api"
	"larpilot/backoffice/internal/logging"
	"larpilot/backoffice/internal/middleware"
)

// RegisterRoutes builds the HTTP handler for all routes.
func RegisterRoutes(deps *api.Dependencies, upSince time.Time) http.Handler {

	// initialize Chi router
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(deps.Metrics))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	limiter := middleware.NewRateLimiter(deps.Config.RateLimitRPS, deps.Config.RateLimitBurst, deps.Metrics)

	// health and metrics stay outside the rate limit
	r.Get("/healthCheck", api.HealthCheckHandler(deps.HealthProbe, upSince))
	r.Handle("/metrics", deps.Metrics.Handler())

	handlers := api.NewHandlers(deps)

	r.Group(func(public chi.Router) {
		public.Use(limiter.Middleware)
		public.Get("/public/larps", handlers.ListPublicLarps())
		public.Get("/public/larps/{larpID}", handlers.GetLarp())
	})

	RegisterAPIRoutes(r, deps, handlers, limiter)

	logging.Info("Router initialized", "cors_origins", deps.Config.CORSAllowedOrigins)
	return r
}
