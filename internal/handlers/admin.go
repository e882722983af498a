// Copyright (c) 2026 Viewforge Contributors
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"viewforge/internal/cache"
	"viewforge/internal/compiler"
	"viewforge/internal/store"
)

// maxTemplateBytes bounds admin upload bodies.
const maxTemplateBytes = 1 << 20

// Admin groups the operational endpoints: dynamic template overrides,
// cache invalidation, and template CRUD against the database store.
type Admin struct {
	compiler  *compiler.Cache
	output    *cache.OutputCache
	templates *store.TemplateStore
}

// NewAdmin creates the admin handler group. templates is nil when the
// server runs on a filesystem source; the CRUD endpoints then report
// 501 Not Implemented.
func NewAdmin(c *compiler.Cache, output *cache.OutputCache, templates *store.TemplateStore) *Admin {
	return &Admin{compiler: c, output: output, templates: templates}
}

// SetOverride installs literal template text for a key. The override
// takes precedence over the template source until removed.
func (h *Admin) SetOverride(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if key == "" {
		http.Error(w, "missing template key", http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxTemplateBytes))
	if err != nil {
		http.Error(w, "read body failed", http.StatusBadRequest)
		return
	}

	h.compiler.SetOverride(key, string(body))
	h.output.Invalidate(r.Context(), key)

	slog.Info("template override set", "key", key, "bytes", len(body))
	writeJSON(w, http.StatusOK, map[string]string{"status": "override set", "key": key})
}

// RemoveOverride deletes a dynamic override so the source serves the
// key again.
func (h *Admin) RemoveOverride(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if key == "" {
		http.Error(w, "missing template key", http.StatusBadRequest)
		return
	}

	h.compiler.RemoveOverride(key)
	h.output.Invalidate(r.Context(), key)

	slog.Info("template override removed", "key", key)
	writeJSON(w, http.StatusOK, map[string]string{"status": "override removed", "key": key})
}

// InvalidateKey evicts one compiled template and its cached output.
func (h *Admin) InvalidateKey(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if key == "" {
		http.Error(w, "missing template key", http.StatusBadRequest)
		return
	}

	h.compiler.Invalidate(key)
	h.output.Invalidate(r.Context(), key)
	writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated", "key": key})
}

// ClearCache evicts every compiled template and all cached output.
func (h *Admin) ClearCache(w http.ResponseWriter, r *http.Request) {
	h.compiler.Clear()
	h.output.InvalidateAll(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// ListTemplates returns all view templates from the database store.
func (h *Admin) ListTemplates(w http.ResponseWriter, r *http.Request) {
	if h.templates == nil {
		http.Error(w, "template store not configured", http.StatusNotImplemented)
		return
	}

	templates, err := h.templates.List()
	if err != nil {
		slog.Error("list templates failed", "error", err)
		http.Error(w, "list failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, templates)
}

// UpsertTemplate creates or replaces a stored view template, then drops
// the compiled entry so the next render picks up the new content.
func (h *Admin) UpsertTemplate(w http.ResponseWriter, r *http.Request) {
	if h.templates == nil {
		http.Error(w, "template store not configured", http.StatusNotImplemented)
		return
	}

	key := chi.URLParam(r, "*")
	if key == "" {
		http.Error(w, "missing template key", http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxTemplateBytes))
	if err != nil {
		http.Error(w, "read body failed", http.StatusBadRequest)
		return
	}

	tmpl, err := h.templates.Upsert(key, string(body))
	if err != nil {
		slog.Error("upsert template failed", "key", key, "error", err)
		http.Error(w, "upsert failed", http.StatusInternalServerError)
		return
	}

	// The source poller would catch the version bump eventually; evicting
	// here makes the change visible on the next request.
	h.compiler.Invalidate(key)
	h.output.Invalidate(r.Context(), key)

	writeJSON(w, http.StatusOK, tmpl)
}

// DeleteTemplate removes a stored view template and evicts its caches.
func (h *Admin) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if h.templates == nil {
		http.Error(w, "template store not configured", http.StatusNotImplemented)
		return
	}

	key := chi.URLParam(r, "*")
	if key == "" {
		http.Error(w, "missing template key", http.StatusBadRequest)
		return
	}

	if err := h.templates.Delete(key); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	h.compiler.Invalidate(key)
	h.output.Invalidate(r.Context(), key)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "key": key})
}

// writeJSON renders v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write json response failed", "error", err)
	}
}
