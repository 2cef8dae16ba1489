/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions. This
  is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin form posts

ROUTES:
  GET  /             Intake form (HEAD returns 200 empty)
  POST /submit       Submit a request
  GET  /decision     Finalize a request from an emailed link
  GET  /admin        Basic-Auth log view, newest first
  GET  /admin/reset-log  Destructive full log reset
  GET  /healthz, /ping   Liveness probes
  GET  /_smtp_test, /_store_test  Diagnostics

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "HEAD", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	// Intake
	r.Get("/", h.IntakeForm)
	r.Head("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Post("/submit", h.Submit)

	// Decision links
	r.Get("/decision", h.Decision)

	// Admin (single shared credential pair)
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.BasicAuth("leave-workflow", map[string]string{
			h.Cfg.AdminUser: h.Cfg.AdminPassword,
		}))
		r.Get("/", h.Admin)
		r.Get("/reset-log", h.ResetLog)
	})

	// Liveness
	r.Get("/healthz", h.Healthz)
	r.Get("/ping", h.Ping)

	// Diagnostics
	r.Get("/_smtp_test", h.SMTPTest)
	r.Get("/_store_test", h.StoreTest)

	return r
}
