// Copyright (c) 2026 Viewforge Contributors
// All rights reserved. See LICENSE for details.

// Package source provides template sources for the viewforge compiler.
// A source resolves a template key to an Item carrying the template text
// and an optional change token that fires when the underlying template
// changes, letting the compilation cache drop stale compiled units.
package source

// Item is the result of resolving a template key against a source. Items
// are created per resolution attempt and never cached — only the compiled
// descriptor built from an item is.
type Item struct {
	// Key is the key the item was resolved for.
	Key string

	// Exists reports whether the source has a template for the key.
	Exists bool

	// Content returns the template text. Nil when Exists is false.
	Content func() (string, error)

	// Token fires when the template changes. May be nil for sources
	// that cannot observe changes.
	Token *Token
}

// NotFoundItem returns an item marking the key as unresolvable.
func NotFoundItem(key string) *Item {
	return &Item{Key: key}
}

// TextItem returns an in-memory item with fixed content and no change
// token. Used for dynamic template overrides.
func TextItem(key, text string) *Item {
	return &Item{
		Key:     key,
		Exists:  true,
		Content: func() (string, error) { return text, nil },
	}
}
