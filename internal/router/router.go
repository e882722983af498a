// Copyright (c) 2026 Viewforge Contributors
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// viewforge server. It organizes routes into the public render group and
// the token-guarded admin group.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"viewforge/internal/handlers"
	"viewforge/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. adminTokenHash is the bcrypt hash guarding
// the admin API; empty disables it.
func New(renderHandlers *handlers.Render, adminHandlers *handlers.Admin, adminTokenHash string) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	// Health check — no auth.
	r.Get("/health", healthHandler)

	// Public render endpoint. The wildcard is the template key.
	r.Get("/views/*", renderHandlers.ServeView)

	// Admin API — bearer token required.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.AdminAuth(adminTokenHash))

		r.Put("/overrides/*", adminHandlers.SetOverride)
		r.Delete("/overrides/*", adminHandlers.RemoveOverride)

		r.Post("/cache/clear", adminHandlers.ClearCache)
		r.Delete("/cache/*", adminHandlers.InvalidateKey)

		r.Get("/templates", adminHandlers.ListTemplates)
		r.Put("/templates/*", adminHandlers.UpsertTemplate)
		r.Delete("/templates/*", adminHandlers.DeleteTemplate)
	})

	return r
}

// healthHandler responds 200 OK for liveness probes.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
