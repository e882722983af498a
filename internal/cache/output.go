// Copyright (c) 2026 Viewforge Contributors
// All rights reserved. See LICENSE for details.

// output.go provides a Valkey-backed cache of rendered template output.
// When the render endpoint executes a compiled template, the resulting
// bytes are stored here so subsequent requests for the same key skip
// template execution entirely. Compiled units themselves never leave the
// process; only their output is shared.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// outputKeyPrefix is the Valkey key prefix for cached rendered output.
	outputKeyPrefix = "view:"

	// DefaultOutputTTL is how long rendered output stays cached.
	DefaultOutputTTL = 5 * time.Minute
)

// OutputCache manages rendered template output in Valkey. A nil
// *OutputCache is a valid no-op cache, so callers can run without Valkey.
type OutputCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewOutputCache creates an output cache backed by the given Valkey client.
func NewOutputCache(client *redis.Client, ttl time.Duration) *OutputCache {
	if ttl == 0 {
		ttl = DefaultOutputTTL
	}
	return &OutputCache{client: client, ttl: ttl}
}

// Get retrieves cached output for a template key.
func (oc *OutputCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if oc == nil {
		return nil, false
	}
	val, err := oc.client.Get(ctx, outputKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("output cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("output cache hit", "key", key)
	return val, true
}

// Set stores rendered output for a template key with the configured TTL.
func (oc *OutputCache) Set(ctx context.Context, key string, output []byte) {
	if oc == nil {
		return
	}
	if err := oc.client.Set(ctx, outputKeyPrefix+key, output, oc.ttl).Err(); err != nil {
		slog.Warn("output cache set error", "key", key, "error", err)
	}
}

// Invalidate removes the cached output for a single template key.
func (oc *OutputCache) Invalidate(ctx context.Context, key string) {
	if oc == nil {
		return
	}
	if err := oc.client.Del(ctx, outputKeyPrefix+key).Err(); err != nil {
		slog.Warn("output cache invalidate error", "key", key, "error", err)
	}
	slog.Debug("output cache invalidated", "key", key)
}

// InvalidateAll removes all cached output by scanning for the prefix.
// Used when the compiler cache is cleared, since any page could be stale.
func (oc *OutputCache) InvalidateAll(ctx context.Context) {
	if oc == nil {
		return
	}
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := oc.client.Scan(ctx, cursor, outputKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("output cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := oc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("output cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("output cache fully cleared", "deleted", deleted)
	}
}
