/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for a terminal frontend

SECURITY NOTE:
  Login is a lookup, not authentication. Terminals run on a trusted
  network; anything stronger belongs in front of this service.

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
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Post("/login", h.Login)

		r.Route("/items", func(r chi.Router) {
			r.Get("/", h.ListItems)
			r.Post("/", h.CreateItem)
			r.Post("/temporary", h.CreateTemporaryItem)
			r.Get("/{barcode}", h.GetItem)
			r.Get("/{barcode}/status", h.GetItemStatus)
			r.Post("/{barcode}/restock", h.Restock)
		})

		r.Route("/stock", func(r chi.Router) {
			r.Get("/low", h.LowStock)
			r.Get("/out", h.OutOfStock)
		})

		r.Post("/sales", h.ProcessSale)
		r.Post("/returns", h.ProcessReturn)

		r.Route("/receipts", func(r chi.Router) {
			r.Get("/{id}", h.GetReceipt)
			r.Get("/{id}/text", h.GetReceiptText)
		})
	})

	return r
}
