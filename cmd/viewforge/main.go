// Copyright (c) 2026 Viewforge Contributors
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the viewforge server.
// It loads configuration, connects the template source and caches, builds
// the compilation pipeline, and starts the HTTP server with graceful
// shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"viewforge/internal/cache"
	"viewforge/internal/codegen"
	"viewforge/internal/compiler"
	"viewforge/internal/config"
	"viewforge/internal/database"
	"viewforge/internal/handlers"
	"viewforge/internal/router"
	"viewforge/internal/source"
	"viewforge/internal/store"
	"viewforge/internal/unit"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"source", cfg.Source,
	)

	// Wire the template source.
	var (
		src           compiler.Source
		templateStore *store.TemplateStore
	)
	switch cfg.Source {
	case "db":
		db, err := database.Connect(cfg.DSN())
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := database.Migrate(db); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}

		// Seed starter data in development (no-op if data already exists).
		if cfg.IsDev() {
			if err := database.Seed(db); err != nil {
				slog.Error("failed to seed database", "error", err)
				os.Exit(1)
			}
		}

		templateStore = store.NewTemplateStore(db)
		dbSource := source.NewDBSource(templateStore, cfg.DBPollInterval)
		defer dbSource.Close()
		src = dbSource

	default: // "fs"
		fsSource, err := source.NewFSSource(cfg.TemplatesDir)
		if err != nil {
			slog.Error("failed to open template directory", "error", err)
			os.Exit(1)
		}
		defer fsSource.Close()
		src = fsSource
	}

	// Connect to Valkey for the rendered-output cache. Optional: the
	// server runs uncached without it.
	var outputCache *cache.OutputCache
	if cfg.ValkeyEnabled {
		valkeyClient, err := cache.ConnectValkey(cfg.ValkeyAddr(), cfg.ValkeyPassword)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkeyClient.Close()
		outputCache = cache.NewOutputCache(valkeyClient, cache.DefaultOutputTTL)
	} else {
		slog.Warn("valkey disabled — rendered output is not cached")
	}

	// Build the compilation pipeline: generator, unit compiler, cache.
	comp := compiler.New(src, codegen.NewGenerator(), unit.NewCompiler(), nil)

	// Create handler groups with their dependencies.
	renderHandlers := handlers.NewRender(comp, outputCache)
	adminHandlers := handlers.NewAdmin(comp, outputCache, templateStore)

	// Set up the Chi router with all middleware and routes.
	r := router.New(renderHandlers, adminHandlers, cfg.AdminTokenHash)

	// Create the HTTP server with sensible timeouts.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
