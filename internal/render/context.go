// Copyright (c) 2026 Viewforge Contributors
// All rights reserved. See LICENSE for details.

// Package render executes compiled template descriptors against a
// page-scoped context: an output writer, a string-keyed property bag
// (ViewData), and a model value.
package render

import (
	"fmt"
	"io"
	"sync"

	"viewforge/internal/compiler"
)

// Context is the execution context for one page render. It is scoped to
// a single render call and is safe for concurrent Set/Get, but the
// writer itself is driven by exactly one Execute.
type Context struct {
	W     io.Writer
	Model any

	mu       sync.RWMutex
	viewData map[string]any
}

// NewContext creates a render context writing to w with the given model.
func NewContext(w io.Writer, model any) *Context {
	return &Context{
		W:        w,
		Model:    model,
		viewData: make(map[string]any),
	}
}

// Set adds a named value to the property bag, available to templates as
// {{.ViewData.name}}.
func (c *Context) Set(name string, value any) {
	c.mu.Lock()
	c.viewData[name] = value
	c.mu.Unlock()
}

// Get returns a named value from the property bag.
func (c *Context) Get(name string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.viewData[name]
	return v, ok
}

// payload is the value a template executes against.
type payload struct {
	Key      string
	Model    any
	ViewData map[string]any
	Meta     map[string]string
}

// Execute runs the descriptor's loaded unit against the context.
func Execute(desc *compiler.Descriptor, ctx *Context) error {
	if desc.Unit == nil || desc.Unit.Template == nil {
		return fmt.Errorf("descriptor %q has no loaded unit", desc.Key)
	}

	ctx.mu.RLock()
	data := make(map[string]any, len(ctx.viewData))
	for k, v := range ctx.viewData {
		data[k] = v
	}
	ctx.mu.RUnlock()

	p := payload{
		Key:      desc.Key,
		Model:    ctx.Model,
		ViewData: data,
		Meta:     desc.Meta,
	}
	if err := desc.Unit.Template.Execute(ctx.W, p); err != nil {
		return fmt.Errorf("execute template %q: %w", desc.Key, err)
	}
	return nil
}
