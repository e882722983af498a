// Copyright (c) 2026 Viewforge Contributors
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// defaultTemplate is the template inserted on first run so a fresh
// database renders something immediately.
const defaultTemplate = `@title Welcome
<!DOCTYPE html>
<html>
<head><title>{{.Meta.title}}</title></head>
<body>
<h1>{{.Meta.title}} to viewforge</h1>
<p>Rendered from the seeded "welcome" template.</p>
</body>
</html>
`

// Seed inserts a starter view template when the table is empty. It is a
// no-op on databases that already have templates.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM view_templates`).Scan(&count); err != nil {
		return fmt.Errorf("seed count: %w", err)
	}
	if count > 0 {
		return nil
	}

	_, err := db.Exec(`
		INSERT INTO view_templates (key, content, version)
		VALUES ($1, $2, 1)
	`, "welcome", defaultTemplate)
	if err != nil {
		return fmt.Errorf("seed welcome template: %w", err)
	}

	slog.Info("seeded default view template", "key", "welcome")
	return nil
}
