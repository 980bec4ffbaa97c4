package routes

import (
	"github.com/go-chi/chi/v5"

	"larpilot/backoffice/internal/api"
	"larpilot/backoffice/internal/middleware"
)

// RegisterAPIRoutes registers all API v1 routes and handlers
func RegisterAPIRoutes(r chi.Router, deps *api.Dependencies, handlers *api.Handlers, limiter *middleware.RateLimiter) {
	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(limiter.Middleware)
		v1.Use(middleware.AuthMiddleware(deps.Tokens, deps.Actors)) // every v1 route needs a bearer token
		v1.Use(middleware.RequireActor())

		v1.Get("/me/capabilities", handlers.GetCapabilities())
		v1.Get("/plans", handlers.ListPlans())

		v1.Route("/larps", func(larps chi.Router) {
			larps.Post("/", handlers.CreateLarp())
			larps.Route("/{larpID}", func(larp chi.Router) {
				larp.Get("/", handlers.GetLarp())
				larp.Get("/transitions", handlers.ListTransitions())
				larp.Post("/transitions/{transition}", handlers.ApplyTransition())
				larp.Get("/history", handlers.GetLarpHistory())

				larp.Get("/participants", handlers.ListParticipants())
				larp.Post("/participants", handlers.AddParticipant())
				larp.Put("/participants/{participantID}/roles", handlers.UpdateParticipantRoles())
				larp.Delete("/participants/{participantID}", handlers.RemoveParticipant())
			})
		})

		v1.Get("/locations", handlers.ListLocations())
		v1.Post("/locations", handlers.CreateLocation())
		v1.Put("/locations/{locationID}", handlers.UpdateLocation())
		v1.Delete("/locations/{locationID}", handlers.DeleteLocation())

		// Super admin group
		v1.Group(func(admin chi.Router) {
			admin.Use(middleware.IsSuperAdminMiddleware())

			admin.Get("/admin/locations/pending", handlers.ListPendingLocations())
			admin.Post("/admin/locations/{locationID}/approve", handlers.ApproveLocation())
			admin.Post("/admin/locations/{locationID}/reject", handlers.RejectLocation())

			admin.Get("/admin/users/{userID}", handlers.GetAccount())
			admin.Put("/admin/users/{userID}/status", handlers.SetAccountStatus())
			admin.Put("/admin/users/{userID}/plan", handlers.SetAccountPlan())
		})
	})
}
