// Copyright (c) 2026 Viewforge Contributors
// All rights reserved. See LICENSE for details.

// Package cache provides the Valkey client and the rendered-output cache
// for the viewforge server.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// The client sits on the hot render path, so operations get short
// timeouts: a slow or absent Valkey degrades a request to an uncached
// render instead of stalling it.
const (
	dialTimeout = 2 * time.Second
	opTimeout   = 250 * time.Millisecond
)

// ConnectValkey opens a Valkey client for addr and verifies the
// connection with a ping before returning it.
func ConnectValkey(addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  dialTimeout,
		ReadTimeout:  opTimeout,
		WriteTimeout: opTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("valkey ping %s: %w", addr, err)
	}

	slog.Info("valkey connected", "addr", addr)
	return client, nil
}
