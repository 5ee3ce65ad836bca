package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// ViewerStorageRepository is a durable key-value table. It backs the permanent
// seen registry, which must survive across sessions.
type ViewerStorageRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewViewerStorageRepository creates the repository.
func NewViewerStorageRepository(db *sqlx.DB) *ViewerStorageRepository {
	return &ViewerStorageRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Get returns the value stored under key.
func (r *ViewerStorageRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.GetContext(ctx, &value, r.db.Rebind("SELECT value FROM viewer_storage WHERE storage_key = ?"), key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get viewer storage %s: %w", key, err)
	}
	return value, true, nil
}

// Set upserts value under key.
func (r *ViewerStorageRepository) Set(ctx context.Context, key, value string) error {
	query := r.db.Rebind(`INSERT INTO viewer_storage (storage_key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT (storage_key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`)
	if _, err := r.db.ExecContext(ctx, query, key, value, r.now()); err != nil {
		return fmt.Errorf("set viewer storage %s: %w", key, err)
	}
	return nil
}
