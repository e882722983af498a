// Copyright (c) 2026 Viewforge Contributors
// All rights reserved. See LICENSE for details.

// Package database owns the PostgreSQL pool and schema lifecycle for the
// template store: Connect opens and tunes a pgx-backed *sql.DB, Migrate
// applies the embedded goose migrations, and Seed fills an empty database
// with a starter template.
package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations
var migrations embed.FS

const pingTimeout = 5 * time.Second

// Connect opens a pgx connection pool for dsn and verifies it with a
// bounded ping. The pool is deliberately small: traffic is template
// lookups plus one short version query per tracked template each poll
// interval, so a handful of connections suffices.
func Connect(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}

	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(4)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	slog.Info("postgres connected")
	return db, nil
}

// Migrate brings the schema up to date from the migration files embedded
// at build time, so the binary carries its own schema.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	slog.Info("schema up to date")
	return nil
}
