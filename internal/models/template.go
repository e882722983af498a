// Copyright (c) 2026 Viewforge Contributors
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ViewTemplate is a view template stored in the database. The content
// holds template markup plus optional @directives; the version bumps on
// every update so the database source can detect stale compiled units.
type ViewTemplate struct {
	ID        uuid.UUID `json:"id"`
	Key       string    `json:"key"`
	Content   string    `json:"content"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
