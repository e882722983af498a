// Copyright (c) 2026 Viewforge Contributors
// All rights reserved. See LICENSE for details.

package source

import (
	"context"
	"sync"
)

// MemorySource serves templates from an in-memory map. Keys are opaque
// (not path-based), so the compiler applies no normalization to them.
// Replacing or removing a template fires the change token handed out
// with its items.
type MemorySource struct {
	mu        sync.RWMutex
	templates map[string]string
	tokens    map[string]*Token
}

// NewMemorySource creates a source pre-populated with the given templates.
func NewMemorySource(templates map[string]string) *MemorySource {
	s := &MemorySource{
		templates: make(map[string]string, len(templates)),
		tokens:    make(map[string]*Token),
	}
	for k, v := range templates {
		s.templates[k] = v
	}
	return s
}

// PathKeyed reports that memory keys are opaque identifiers.
func (s *MemorySource) PathKeyed() bool { return false }

// Exists reports whether a template is registered for the key.
func (s *MemorySource) Exists(ctx context.Context, key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.templates[key]
	return ok
}

// GetItem resolves a key to an item. Items for the same key share one
// change token until it fires.
func (s *MemorySource) GetItem(ctx context.Context, key string) (*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	text, ok := s.templates[key]
	if !ok {
		return NotFoundItem(key), nil
	}

	tok := s.tokens[key]
	if tok == nil || tok.HasChanged() {
		tok = NewToken()
		s.tokens[key] = tok
	}

	return &Item{
		Key:     key,
		Exists:  true,
		Content: func() (string, error) { return text, nil },
		Token:   tok,
	}, nil
}

// Set registers or replaces a template and fires the token of any
// previously handed-out items for the key.
func (s *MemorySource) Set(key, text string) {
	s.mu.Lock()
	s.templates[key] = text
	tok := s.tokens[key]
	delete(s.tokens, key)
	s.mu.Unlock()

	if tok != nil {
		tok.Fire()
	}
}

// Remove deletes a template and fires its token.
func (s *MemorySource) Remove(key string) {
	s.mu.Lock()
	delete(s.templates, key)
	tok := s.tokens[key]
	delete(s.tokens, key)
	s.mu.Unlock()

	if tok != nil {
		tok.Fire()
	}
}
