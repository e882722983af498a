// Copyright (c) 2026 Viewforge Contributors
// All rights reserved. See LICENSE for details.

// Package compiler implements the runtime template compilation cache.
// It maps a template key to a compiled, invokable unit, guarantees
// at-most-one generate+compile per key under concurrent access, and
// drops entries when their source change tokens fire so externally
// changed templates are recompiled on the next request.
package compiler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"viewforge/internal/source"
)

// entry pairs a cache slot with a one-shot future of a descriptor. All
// concurrent callers for a key share one entry and therefore observe the
// same eventual descriptor or failure.
type entry struct {
	key  string // normalized key, the canonical slot
	keys []string
	done chan struct{}

	desc *Descriptor
	err  error
}

func newEntry(key string, keys []string) *entry {
	return &entry{key: key, keys: keys, done: make(chan struct{})}
}

// resolve completes the entry. Must be called exactly once.
func (e *entry) resolve(desc *Descriptor, err error) {
	e.desc = desc
	e.err = err
	close(e.done)
}

// wait blocks until the entry resolves or ctx is done. A canceled waiter
// stops waiting; the compilation itself is not preempted and completes
// for the remaining waiters.
func (e *entry) wait(ctx context.Context) (*Descriptor, error) {
	select {
	case <-e.done:
		return e.desc, e.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// workKind selects how a cache miss is satisfied.
type workKind int

const (
	workPrecompiled workKind = iota // ready descriptor, no compilation
	workDynamic                     // in-memory override text
	workSource                      // item resolved from the source
)

// workItem is the variant produced on the miss path: either a ready
// precompiled descriptor or an item that still needs generate+compile.
type workItem struct {
	kind workKind
	desc *Descriptor  // set for workPrecompiled
	item *source.Item // set for workDynamic and workSource
}

func (w *workItem) token() *source.Token {
	if w.kind == workPrecompiled {
		return w.desc.Token
	}
	return w.item.Token
}

// Cache is the compilation cache. Create one per compiler instance with
// New and share it across goroutines; it must not be used as a
// process-wide singleton.
type Cache struct {
	src      Source
	gen      Generator
	units    UnitCompiler
	registry *Registry
	norm     *Normalizer

	// mu guards cache-entry creation only. The expensive generate+compile
	// work always runs outside of it.
	mu sync.Mutex

	lookupMu sync.RWMutex
	entries  map[string]*entry

	overrideMu sync.RWMutex
	overrides  map[string]string
}

// New creates a compilation cache over the given collaborators. registry
// may be nil when no templates are precompiled.
func New(src Source, gen Generator, units UnitCompiler, registry *Registry) *Cache {
	return &Cache{
		src:       src,
		gen:       gen,
		units:     units,
		registry:  registry,
		norm:      NewNormalizer(src.PathKeyed()),
		entries:   make(map[string]*entry),
		overrides: make(map[string]string),
	}
}

// Compile returns the compiled descriptor for key, compiling on miss.
// An empty key returns ErrInvalidKey synchronously. All other failures
// are delivered through the shared cache entry, so every concurrent
// caller for the same key observes the identical result.
func (c *Cache) Compile(ctx context.Context, key string) (*Descriptor, error) {
	e, err := c.lookupOrCreate(ctx, key)
	if err != nil {
		return nil, err
	}
	return e.wait(ctx)
}

// SetOverride installs literal template text for key. Overrides take
// precedence over the source and bypass path resolution entirely. Any
// cached entry for the key is evicted so the next request compiles the
// override.
func (c *Cache) SetOverride(key, text string) {
	c.overrideMu.Lock()
	c.overrides[key] = text
	c.overrideMu.Unlock()
	c.Invalidate(key)
}

// RemoveOverride deletes a dynamic override and evicts its cached entry.
func (c *Cache) RemoveOverride(key string) {
	c.overrideMu.Lock()
	delete(c.overrides, key)
	c.overrideMu.Unlock()
	c.Invalidate(key)
}

// Invalidate evicts the entry for key, if any. The next request takes
// the miss path and recompiles.
func (c *Cache) Invalidate(key string) {
	norm := c.norm.Normalize(key)

	c.lookupMu.Lock()
	e := c.entries[norm]
	if e == nil {
		e = c.entries[key]
	}
	if e != nil {
		for _, k := range e.keys {
			if c.entries[k] == e {
				delete(c.entries, k)
			}
		}
	}
	c.lookupMu.Unlock()
}

// Clear evicts every cache entry.
func (c *Cache) Clear() {
	c.lookupMu.Lock()
	c.entries = make(map[string]*entry)
	c.lookupMu.Unlock()
	slog.Debug("compiler cache cleared")
}

// lookupOrCreate implements the lookup protocol: probe by raw key, then
// by normalized key, then take the single-flight miss path.
func (c *Cache) lookupOrCreate(ctx context.Context, key string) (*entry, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}

	c.lookupMu.RLock()
	if e, ok := c.entries[key]; ok {
		c.lookupMu.RUnlock()
		return e, nil
	}
	norm := c.norm.Normalize(key)
	e, ok := c.entries[norm]
	c.lookupMu.RUnlock()
	if ok {
		return e, nil
	}

	e, work, err := c.createEntry(ctx, key, norm)
	if err != nil {
		return nil, err
	}

	// The expensive step happens here, outside the creation lock, in the
	// goroutine that won entry creation. Everyone else waits on e.done.
	// Once started the work is not preemptible: a canceled caller stops
	// waiting while the compilation completes for the other waiters, so
	// the winner's cancellation must not fail the shared entry.
	if work != nil {
		c.generateAndCompile(context.WithoutCancel(ctx), e, work.item)
	}
	return e, nil
}

// createEntry runs the critical section of the miss path: double-checked
// re-probe, work item resolution, entry registration, and change-token
// wiring. It returns a non-nil workItem when the caller still has to run
// generate+compile for the entry.
//
// Resolving the item from the source happens while the lock is held,
// serializing all cache misses globally. Entry creation stays cheap for
// override and precompiled items; filesystem or database resolution under
// the lock is the accepted trade-off for a simple single-flight protocol.
func (c *Cache) createEntry(ctx context.Context, key, norm string) (*entry, *workItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lookupMu.RLock()
	e, ok := c.entries[norm]
	c.lookupMu.RUnlock()
	if ok {
		return e, nil, nil
	}

	work, err := c.resolveWork(ctx, key, norm)
	if err != nil {
		return nil, nil, err
	}

	keys := []string{norm}
	if key != norm {
		keys = append(keys, key)
	}
	e = newEntry(norm, keys)

	if work.kind == workPrecompiled {
		e.resolve(work.desc, nil)
	}

	c.lookupMu.Lock()
	for _, k := range keys {
		c.entries[k] = e
	}
	c.lookupMu.Unlock()

	if tok := work.token(); tok != nil {
		tok.Subscribe(func() { c.evict(e) })
	}

	if work.kind == workPrecompiled {
		return e, nil, nil
	}
	return e, work, nil
}

// resolveWork selects how the miss is satisfied: precompiled registry,
// dynamic override, or source resolution, in that order. A key that
// matches none of them fails with NotFoundError carrying the attempted
// key; nothing is cached, so a later request probes the source again.
func (c *Cache) resolveWork(ctx context.Context, key, norm string) (*workItem, error) {
	if c.registry != nil {
		if desc, ok := c.registry.TryGet(norm); ok {
			return &workItem{kind: workPrecompiled, desc: desc}, nil
		}
	}

	c.overrideMu.RLock()
	text, ok := c.overrides[key]
	c.overrideMu.RUnlock()
	if ok {
		return &workItem{kind: workDynamic, item: source.TextItem(key, text)}, nil
	}

	item, err := c.src.GetItem(ctx, norm)
	if err != nil {
		return nil, fmt.Errorf("resolve template %q: %w", key, err)
	}
	if !item.Exists {
		return nil, &NotFoundError{Key: key}
	}
	return &workItem{kind: workSource, item: item}, nil
}

// generateAndCompile runs the generator and unit compiler for an item
// and resolves the pending entry. Failures resolve the entry too and
// stay cached until the entry is evicted.
func (c *Cache) generateAndCompile(ctx context.Context, e *entry, item *source.Item) {
	prog, err := c.gen.Generate(ctx, item)
	if err != nil {
		slog.Warn("template generation failed", "key", e.key, "error", err)
		e.resolve(nil, &GenerateError{Key: e.key, Err: err})
		return
	}

	u, err := c.units.CompileAndLoad(prog)
	if err != nil {
		slog.Warn("template compilation failed", "key", e.key, "error", err)
		e.resolve(nil, &CompileError{Key: e.key, Err: err})
		return
	}

	meta, attrs := c.units.ExtractMetadata(u)
	e.resolve(&Descriptor{
		Key:   e.key,
		Unit:  u,
		Meta:  meta,
		Attrs: attrs,
		Token: item.Token,
	}, nil)
	slog.Debug("template compiled", "key", e.key)
}

// evict removes an entry from every slot that still points to it. A slot
// already taken over by a newer entry is left alone.
func (c *Cache) evict(e *entry) {
	c.lookupMu.Lock()
	for _, k := range e.keys {
		if c.entries[k] == e {
			delete(c.entries, k)
		}
	}
	c.lookupMu.Unlock()
	slog.Debug("template evicted", "key", e.key)
}
