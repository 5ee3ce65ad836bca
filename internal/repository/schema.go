package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema is valid for both PostgreSQL and SQLite.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS announcements (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	type TEXT,
	display_mode TEXT,
	target_class_id TEXT,
	enabled BOOLEAN NOT NULL DEFAULT TRUE,
	starts_at TIMESTAMP NOT NULL,
	ends_at TIMESTAMP,
	created_by TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_announcements_active ON announcements (enabled, starts_at, ends_at)`,
	`CREATE INDEX IF NOT EXISTS idx_announcements_target_class ON announcements (target_class_id)`,
	`CREATE TABLE IF NOT EXISTS viewer_storage (
	storage_key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS viewers (
	id TEXT PRIMARY KEY,
	full_name TEXT NOT NULL,
	role TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	active BOOLEAN NOT NULL DEFAULT TRUE
)`,
}

// Migrate creates the tables if they do not exist.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate statement %d: %w", i+1, err)
		}
	}
	return nil
}
