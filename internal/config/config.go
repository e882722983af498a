// Copyright (c) 2026 Viewforge Contributors
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// Template source selection: "fs" (directory tree) or "db" (PostgreSQL)
	Source string

	// Filesystem source
	TemplatesDir string

	// PostgreSQL connection (db source)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Poll interval for the db source version watcher
	DBPollInterval time.Duration

	// Valkey (rendered-output cache); optional
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
	ValkeyEnabled  bool

	// AdminTokenHash is the bcrypt hash of the admin API bearer token.
	// Empty disables the admin endpoints.
	AdminTokenHash string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		Source:       envOrDefault("TEMPLATE_SOURCE", "fs"),
		TemplatesDir: envOrDefault("TEMPLATES_DIR", "./templates"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "viewforge"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "viewforge"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),
		ValkeyEnabled:  envOrDefault("VALKEY_ENABLED", "true") == "true",

		AdminTokenHash: os.Getenv("ADMIN_TOKEN_HASH"),
	}

	interval, err := time.ParseDuration(envOrDefault("DB_POLL_INTERVAL", "10s"))
	if err != nil {
		return nil, fmt.Errorf("DB_POLL_INTERVAL: %w", err)
	}
	cfg.DBPollInterval = interval

	if cfg.Source != "fs" && cfg.Source != "db" {
		return nil, fmt.Errorf("TEMPLATE_SOURCE must be \"fs\" or \"db\", got %q", cfg.Source)
	}

	if cfg.Env == "production" {
		if cfg.Source == "db" && cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.AdminTokenHash == "" {
			return nil, fmt.Errorf("ADMIN_TOKEN_HASH must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// ValkeyAddr returns the Valkey address (host:port).
func (c *Config) ValkeyAddr() string {
	return fmt.Sprintf("%s:%s", c.ValkeyHost, c.ValkeyPort)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
