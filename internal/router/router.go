// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// taxocms API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"taxocms/internal/handlers"
	"taxocms/internal/middleware"
)

// Handlers groups the API handlers the router mounts.
type Handlers struct {
	Categories *handlers.Categories
	Pages      *handlers.Pages
	Media      *handlers.Media
	Failures   *handlers.Failures
}

// Options configures the middleware the router installs.
type Options struct {
	// Limiter rate-limits /api; nil disables it.
	Limiter *middleware.RateLimiter
	// CORSOrigins are the browser origins allowed to call the API.
	CORSOrigins []string
}

// New creates and returns the configured Chi router.
func New(h Handlers, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(opts.CORSOrigins))
	r.Use(middleware.SecureHeaders)

	// Health check, not rate limited.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(opts.Limiter.Middleware)

		r.Get("/accessors", h.Categories.Accessors)

		r.Route("/category-trees", func(r chi.Router) {
			r.Get("/", h.Categories.ListTrees)
			r.Post("/", h.Categories.CreateTree)
			r.Get("/{id}", h.Categories.GetTree)
			r.Delete("/{id}", h.Categories.DeleteTree)
			r.Get("/{id}/usage", h.Categories.TreeUsage)
			r.Post("/{id}/categories", h.Categories.AddCategory)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Delete("/{id}", h.Categories.DeleteCategory)
			r.Get("/{id}/memberships", h.Categories.Memberships)
		})

		r.Route("/pages", func(r chi.Router) {
			r.Get("/exists", h.Pages.ExistsByURL)
			r.Post("/", h.Pages.Create)
			r.Get("/{id}", h.Pages.Get)
			r.Get("/{id}/exists", h.Pages.ExistsByID)
			r.Delete("/{id}", h.Pages.Delete)
			r.Put("/{id}/categories", h.Pages.SetCategories)
		})

		r.Route("/media", func(r chi.Router) {
			r.Post("/", h.Media.Upload)
			r.Get("/{id}", h.Media.Get)
			r.Delete("/{id}", h.Media.Delete)
			r.Put("/{id}/categories", h.Media.SetCategories)
		})

		r.Get("/event-failures", h.Failures.Recent)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
