// Copyright (c) 2026 Viewforge Contributors
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the viewforge server:
// the public render endpoint and the token-guarded admin API.
package handlers

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"viewforge/internal/cache"
	"viewforge/internal/compiler"
	"viewforge/internal/render"
)

// Render serves rendered views. It checks the Valkey output cache before
// compiling and executing a template, and stores rendered results on miss.
type Render struct {
	compiler *compiler.Cache
	output   *cache.OutputCache
}

// NewRender creates the render handler group. output may be nil when
// Valkey is not configured.
func NewRender(c *compiler.Cache, output *cache.OutputCache) *Render {
	return &Render{compiler: c, output: output}
}

// ServeView renders the template addressed by the URL wildcard. Query
// parameters become the model; requests without parameters are served
// from (and stored into) the output cache.
func (h *Render) ServeView(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	key := chi.URLParam(r, "*")
	if key == "" {
		http.NotFound(w, r)
		return
	}

	// Parameterized renders are per-request; only bare lookups are cacheable.
	cacheable := len(r.URL.Query()) == 0
	if cacheable {
		if out, ok := h.output.Get(ctx, key); ok {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write(out)
			return
		}
	}

	desc, err := h.compiler.Compile(ctx, key)
	if err != nil {
		var notFound *compiler.NotFoundError
		switch {
		case errors.As(err, &notFound):
			http.NotFound(w, r)
		case errors.Is(err, compiler.ErrInvalidKey):
			http.Error(w, "invalid template key", http.StatusBadRequest)
		default:
			slog.Error("view compilation failed", "key", key, "error", err)
			http.Error(w, "template error", http.StatusInternalServerError)
		}
		return
	}

	model := make(map[string]string, len(r.URL.Query()))
	for name, values := range r.URL.Query() {
		if len(values) > 0 {
			model[name] = values[0]
		}
	}

	var buf bytes.Buffer
	rctx := render.NewContext(&buf, model)
	rctx.Set("Path", r.URL.Path)
	rctx.Set("Key", key)

	if err := render.Execute(desc, rctx); err != nil {
		slog.Error("view execution failed", "key", key, "error", err)
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}

	if cacheable {
		h.output.Set(ctx, key, buf.Bytes())
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
