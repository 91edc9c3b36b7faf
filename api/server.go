/*
server.go - HTTP router and middleware configuration

PURPOSE:

	Configures the chi router, the middleware stack and the route
	definitions. This is the wiring layer that connects URLs to
	handlers.

MIDDLEWARE STACK:
 1. Logger:     Request logging
 2. Recoverer:  Panic recovery (500 instead of crash)
 3. RequestID:  Unique ID per request for tracing
 4. CORS:       Cross-origin requests from the mobile shell

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/punches", func(r chi.Router) {
			r.Get("/", h.ListPunches)
			r.Post("/", h.InsertPunch)
			r.Delete("/", h.RemovePunch)
		})

		r.Route("/days", func(r chi.Router) {
			r.Get("/{date}", h.GetDay)
			r.Get("/{date}/notifications", h.GetDayNotifications)
		})

		r.Get("/period", h.GetPeriod)

		r.Route("/config", func(r chi.Router) {
			r.Get("/", h.GetConfig)
			r.Put("/", h.PutConfig)
		})
	})

	return r
}
