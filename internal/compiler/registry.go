// Copyright (c) 2026 Viewforge Contributors
// All rights reserved. See LICENSE for details.

package compiler

import "strings"

// Registry holds descriptors for templates compiled ahead of time. It is
// consulted before any runtime compilation; a hit produces a ready
// descriptor with no code generation. Keys are compared
// case-insensitively and the registry is read-only after construction,
// so lookups need no locking.
type Registry struct {
	entries map[string]*Descriptor
}

// NewRegistry builds a registry from key to descriptor. Two keys that
// collide under case-insensitive comparison fail construction with a
// ConfigError.
func NewRegistry(descriptors map[string]*Descriptor) (*Registry, error) {
	entries := make(map[string]*Descriptor, len(descriptors))
	for key, desc := range descriptors {
		folded := strings.ToLower(key)
		if _, dup := entries[folded]; dup {
			return nil, &ConfigError{Key: key}
		}
		entries[folded] = desc
	}
	return &Registry{entries: entries}, nil
}

// TryGet looks up a descriptor by normalized key.
func (r *Registry) TryGet(key string) (*Descriptor, bool) {
	desc, ok := r.entries[strings.ToLower(key)]
	return desc, ok
}

// Len returns the number of registered descriptors.
func (r *Registry) Len() int { return len(r.entries) }
