// Copyright (c) 2026 Viewforge Contributors
// All rights reserved. See LICENSE for details.

// Package store contains the database access layer for view templates.
package store

import (
	"database/sql"
	"fmt"

	"viewforge/internal/models"
)

// TemplateStore handles all view-template database operations.
type TemplateStore struct {
	db *sql.DB
}

// NewTemplateStore creates a new TemplateStore with the given database connection.
func NewTemplateStore(db *sql.DB) *TemplateStore {
	return &TemplateStore{db: db}
}

// List returns all view templates ordered by key.
func (s *TemplateStore) List() ([]models.ViewTemplate, error) {
	rows, err := s.db.Query(`
		SELECT id, key, content, version, created_at, updated_at
		FROM view_templates
		ORDER BY key
	`)
	if err != nil {
		return nil, fmt.Errorf("list view templates: %w", err)
	}
	defer rows.Close()

	var templates []models.ViewTemplate
	for rows.Next() {
		var t models.ViewTemplate
		if err := rows.Scan(
			&t.ID, &t.Key, &t.Content, &t.Version, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan view template: %w", err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// FindByKey retrieves a view template by its key. Returns nil if not found.
func (s *TemplateStore) FindByKey(key string) (*models.ViewTemplate, error) {
	t := &models.ViewTemplate{}
	err := s.db.QueryRow(`
		SELECT id, key, content, version, created_at, updated_at
		FROM view_templates WHERE key = $1
	`, key).Scan(
		&t.ID, &t.Key, &t.Content, &t.Version, &t.CreatedAt, &t.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find view template by key: %w", err)
	}
	return t, nil
}

// Upsert inserts a view template or replaces its content, bumping the
// version so pollers and caches see the change.
func (s *TemplateStore) Upsert(key, content string) (*models.ViewTemplate, error) {
	t := &models.ViewTemplate{}
	err := s.db.QueryRow(`
		INSERT INTO view_templates (key, content, version)
		VALUES ($1, $2, 1)
		ON CONFLICT (key) DO UPDATE SET
			content = EXCLUDED.content,
			version = view_templates.version + 1,
			updated_at = NOW()
		RETURNING id, key, content, version, created_at, updated_at
	`, key, content).Scan(
		&t.ID, &t.Key, &t.Content, &t.Version, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert view template: %w", err)
	}
	return t, nil
}

// Delete removes a view template by key.
func (s *TemplateStore) Delete(key string) error {
	result, err := s.db.Exec(`DELETE FROM view_templates WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("delete view template: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("view template %q not found", key)
	}
	return nil
}

// Version returns the current version for a key, or 0 when the row is
// gone. Used by the database source poller.
func (s *TemplateStore) Version(key string) (int, error) {
	var version int
	err := s.db.QueryRow(`SELECT version FROM view_templates WHERE key = $1`, key).Scan(&version)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("view template version: %w", err)
	}
	return version, nil
}

// Count returns the total number of view templates.
func (s *TemplateStore) Count() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM view_templates`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count view templates: %w", err)
	}
	return count, nil
}
