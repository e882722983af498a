// Copyright (c) 2026 Viewforge Contributors
// All rights reserved. See LICENSE for details.

package compiler

import (
	"context"

	"viewforge/internal/codegen"
	"viewforge/internal/source"
	"viewforge/internal/unit"
)

// Source supplies template items. The cache treats it as the sole
// supplier of template content when no precompiled descriptor or dynamic
// override matches a key.
type Source interface {
	// PathKeyed reports whether keys are filesystem-style paths. When
	// true the cache normalizes keys (forward slashes, leading slash)
	// before using them as cache slots.
	PathKeyed() bool

	// Exists reports whether a template exists for the key.
	Exists(ctx context.Context, key string) bool

	// GetItem resolves a key to an item. A missing template is reported
	// through the item's Exists flag, not an error; errors are reserved
	// for I/O failures.
	GetItem(ctx context.Context, key string) (*source.Item, error)
}

// Generator translates a template item into a generated program ready for
// unit compilation.
type Generator interface {
	Generate(ctx context.Context, item *source.Item) (*codegen.Program, error)
}

// UnitCompiler turns a generated program into a loaded, invokable unit
// and extracts per-template metadata from it.
type UnitCompiler interface {
	CompileAndLoad(p *codegen.Program) (*unit.Unit, error)
	ExtractMetadata(u *unit.Unit) (meta map[string]string, attrs []string)
}

// Descriptor is the durable cache payload: the loaded unit, the owning
// key, the directive metadata extracted at compile time, and the change
// token inherited from the source item. Immutable once constructed; one
// instance per successful compilation, shared by all callers.
type Descriptor struct {
	Key   string
	Unit  *unit.Unit
	Meta  map[string]string
	Attrs []string
	Token *source.Token
}
