// Copyright (c) 2026 Viewforge Contributors
// All rights reserved. See LICENSE for details.

package source

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// FSSource serves templates from a directory tree. Keys are slash paths
// relative to the root (e.g. "/pages/about.vf"). An fsnotify watcher
// observes the tree and fires the change token of a template when its
// file is written, renamed, or removed.
type FSSource struct {
	root    string
	watcher *fsnotify.Watcher

	mu     sync.Mutex
	tokens map[string]*Token // keyed by normalized template key

	done chan struct{}
}

// NewFSSource creates a filesystem source rooted at dir and starts the
// change watcher. Close must be called to release the watcher.
func NewFSSource(dir string) (*FSSource, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve template root: %w", err)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("template root %q is not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	s := &FSSource{
		root:    root,
		watcher: watcher,
		tokens:  make(map[string]*Token),
		done:    make(chan struct{}),
	}

	// Watch the whole tree; fsnotify does not recurse on its own.
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch template root: %w", err)
	}

	go s.watch()
	return s, nil
}

// PathKeyed reports that keys are filesystem paths, enabling slash
// normalization in the compiler.
func (s *FSSource) PathKeyed() bool { return true }

// Exists reports whether a regular file backs the key.
func (s *FSSource) Exists(ctx context.Context, key string) bool {
	info, err := os.Stat(s.filePath(key))
	return err == nil && info.Mode().IsRegular()
}

// GetItem resolves a key to an item backed by the file on disk. Items
// for the same key share one change token until it fires.
func (s *FSSource) GetItem(ctx context.Context, key string) (*Item, error) {
	path := s.filePath(key)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return NotFoundItem(key), nil
	}

	return &Item{
		Key:    key,
		Exists: true,
		Content: func() (string, error) {
			b, err := os.ReadFile(path)
			if err != nil {
				return "", fmt.Errorf("read template %s: %w", key, err)
			}
			return string(b), nil
		},
		Token: s.tokenFor(key),
	}, nil
}

// Close stops the watcher. Pending tokens are fired so cached entries
// built on them do not outlive the source.
func (s *FSSource) Close() error {
	close(s.done)
	err := s.watcher.Close()

	s.mu.Lock()
	tokens := s.tokens
	s.tokens = make(map[string]*Token)
	s.mu.Unlock()

	for _, tok := range tokens {
		tok.Fire()
	}
	return err
}

// filePath maps a normalized key back to a path under the root.
func (s *FSSource) filePath(key string) string {
	rel := strings.TrimPrefix(key, "/")
	return filepath.Join(s.root, filepath.FromSlash(rel))
}

// keyFor maps an absolute file path to its normalized template key.
func (s *FSSource) keyFor(path string) (string, bool) {
	rel, err := filepath.Rel(s.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return "/" + filepath.ToSlash(rel), true
}

func (s *FSSource) tokenFor(key string) *Token {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok := s.tokens[key]
	if tok == nil || tok.HasChanged() {
		tok = NewToken()
		s.tokens[key] = tok
	}
	return tok
}

// watch consumes fsnotify events until Close. Content-changing events
// fire the token for the affected key; newly created directories are
// added to the watch set.
func (s *FSSource) watch() {
	for {
		select {
		case <-s.done:
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			s.handleEvent(event)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("template watcher error", "error", err)
		}
	}
}

func (s *FSSource) handleEvent(event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := s.watcher.Add(event.Name); err != nil {
				slog.Warn("watch new directory failed", "dir", event.Name, "error", err)
			}
			return
		}
	}

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Remove) &&
		!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Create) {
		return
	}

	key, ok := s.keyFor(event.Name)
	if !ok {
		return
	}

	s.mu.Lock()
	tok := s.tokens[key]
	delete(s.tokens, key)
	s.mu.Unlock()

	if tok != nil {
		slog.Debug("template changed", "key", key, "op", event.Op.String())
		tok.Fire()
	}
}
