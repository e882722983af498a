// Copyright (c) 2026 Viewforge Contributors
// All rights reserved. See LICENSE for details.

package source

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"viewforge/internal/store"
)

// tracked pairs a handed-out token with the template version it was
// issued for.
type tracked struct {
	token   *Token
	version int
}

// DBSource serves templates from the view_templates table. Keys are
// opaque identifiers, not paths. A background poller compares row
// versions and fires the token of any template whose version changed or
// whose row disappeared.
type DBSource struct {
	store    *store.TemplateStore
	interval time.Duration

	mu      sync.Mutex
	tokens  map[string]*tracked
	done    chan struct{}
	closing sync.Once
}

// NewDBSource creates a database source and starts its version poller.
// interval defaults to 10 seconds when zero. Close must be called to
// stop the poller.
func NewDBSource(ts *store.TemplateStore, interval time.Duration) *DBSource {
	if interval == 0 {
		interval = 10 * time.Second
	}
	s := &DBSource{
		store:    ts,
		interval: interval,
		tokens:   make(map[string]*tracked),
		done:     make(chan struct{}),
	}
	go s.poll()
	return s
}

// PathKeyed reports that database keys are opaque identifiers.
func (s *DBSource) PathKeyed() bool { return false }

// Exists reports whether a template row exists for the key.
func (s *DBSource) Exists(ctx context.Context, key string) bool {
	t, err := s.store.FindByKey(key)
	return err == nil && t != nil
}

// GetItem resolves a key to an item backed by the template row. The
// item's token is tracked at the row's current version.
func (s *DBSource) GetItem(ctx context.Context, key string) (*Item, error) {
	row, err := s.store.FindByKey(key)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return NotFoundItem(key), nil
	}

	s.mu.Lock()
	tr := s.tokens[key]
	if tr == nil || tr.token.HasChanged() {
		tr = &tracked{token: NewToken(), version: row.Version}
		s.tokens[key] = tr
	}
	s.mu.Unlock()

	content := row.Content
	return &Item{
		Key:     key,
		Exists:  true,
		Content: func() (string, error) { return content, nil },
		Token:   tr.token,
	}, nil
}

// Close stops the poller and fires all outstanding tokens.
func (s *DBSource) Close() error {
	s.closing.Do(func() { close(s.done) })

	s.mu.Lock()
	tokens := s.tokens
	s.tokens = make(map[string]*tracked)
	s.mu.Unlock()

	for _, tr := range tokens {
		tr.token.Fire()
	}
	return nil
}

// poll periodically compares the tracked versions against the database
// and fires tokens for templates that changed or vanished.
func (s *DBSource) poll() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *DBSource) sweep() {
	s.mu.Lock()
	snapshot := make(map[string]*tracked, len(s.tokens))
	for k, tr := range s.tokens {
		snapshot[k] = tr
	}
	s.mu.Unlock()

	for key, tr := range snapshot {
		version, err := s.store.Version(key)
		if err != nil {
			slog.Warn("template version poll failed", "key", key, "error", err)
			continue
		}
		if version == tr.version {
			continue
		}

		s.mu.Lock()
		if s.tokens[key] == tr {
			delete(s.tokens, key)
		}
		s.mu.Unlock()

		slog.Debug("template version changed", "key", key, "from", tr.version, "to", version)
		tr.token.Fire()
	}
}
