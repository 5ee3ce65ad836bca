package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-announcer/internal/models"
)

// ViewerRepository reads viewer credentials.
type ViewerRepository struct {
	db *sqlx.DB
}

// NewViewerRepository creates the repository.
func NewViewerRepository(db *sqlx.DB) *ViewerRepository {
	return &ViewerRepository{db: db}
}

// FindByID returns a viewer or sql.ErrNoRows.
func (r *ViewerRepository) FindByID(ctx context.Context, id string) (*models.Viewer, error) {
	var viewer models.Viewer
	query := r.db.Rebind("SELECT id, full_name, role, password_hash, active FROM viewers WHERE id = ?")
	if err := r.db.GetContext(ctx, &viewer, query, id); err != nil {
		return nil, err
	}
	return &viewer, nil
}

// Create inserts a viewer with an already hashed password.
func (r *ViewerRepository) Create(ctx context.Context, viewer *models.Viewer) error {
	query := `INSERT INTO viewers (id, full_name, role, password_hash, active)
VALUES (:id, :full_name, :role, :password_hash, :active)`
	_, err := r.db.NamedExecContext(ctx, query, viewer)
	return err
}
