// Copyright (c) 2026 Viewforge Contributors
// All rights reserved. See LICENSE for details.

package compiler

import (
	"strings"
	"sync"
)

// Normalizer canonicalizes template keys for path-keyed sources: forward
// slashes only, always a single leading slash. For opaque keys it is the
// identity. Results are memoized per raw key; the memo is unbounded for
// the process lifetime, so callers must not feed it unbounded
// cardinalities of distinct keys.
type Normalizer struct {
	pathKeyed bool

	mu   sync.RWMutex
	memo map[string]string
}

// NewNormalizer creates a normalizer. pathKeyed should come from the
// active source's PathKeyed method.
func NewNormalizer(pathKeyed bool) *Normalizer {
	return &Normalizer{
		pathKeyed: pathKeyed,
		memo:      make(map[string]string),
	}
}

// Normalize returns the canonical cache key for key. Normalization is
// idempotent and deterministic; empty keys are returned unchanged without
// touching the memo.
func (n *Normalizer) Normalize(key string) string {
	if !n.pathKeyed || key == "" {
		return key
	}

	n.mu.RLock()
	norm, ok := n.memo[key]
	n.mu.RUnlock()
	if ok {
		return norm
	}

	norm = normalizePath(key)

	n.mu.Lock()
	n.memo[key] = norm
	n.mu.Unlock()
	return norm
}

func normalizePath(key string) string {
	if strings.HasPrefix(key, "/") && !strings.ContainsRune(key, '\\') {
		return key
	}

	var b strings.Builder
	b.Grow(len(key) + 1)
	if !strings.HasPrefix(key, "/") && !strings.HasPrefix(key, `\`) {
		b.WriteByte('/')
	}
	for i := 0; i < len(key); i++ {
		ch := key[i]
		if ch == '\\' {
			ch = '/'
		}
		b.WriteByte(ch)
	}
	return b.String()
}
