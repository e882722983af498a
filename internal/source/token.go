// Copyright (c) 2026 Viewforge Contributors
// All rights reserved. See LICENSE for details.

package source

import "sync"

// Token is a one-shot change notification. A source hands out one token
// per live template; firing it tells every subscriber (typically the
// compilation cache) that the template content is stale.
type Token struct {
	mu    sync.Mutex
	fired bool
	subs  []func()
}

// NewToken creates an unfired token.
func NewToken() *Token {
	return &Token{}
}

// HasChanged reports whether the token has fired.
func (t *Token) HasChanged() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fired
}

// Fire marks the token as changed and runs all subscribers. Firing more
// than once is a no-op; subscribers run exactly once.
func (t *Token) Fire() {
	t.mu.Lock()
	if t.fired {
		t.mu.Unlock()
		return
	}
	t.fired = true
	subs := t.subs
	t.subs = nil
	t.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// Subscribe registers fn to run when the token fires. If the token has
// already fired, fn runs immediately on the calling goroutine.
func (t *Token) Subscribe(fn func()) {
	t.mu.Lock()
	if t.fired {
		t.mu.Unlock()
		fn()
		return
	}
	t.subs = append(t.subs, fn)
	t.mu.Unlock()
}
