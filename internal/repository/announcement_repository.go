package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-announcer/internal/models"
)

const announcementColumns = `id, title, content, COALESCE(type, '') AS type, COALESCE(display_mode, '') AS display_mode,
target_class_id, enabled, starts_at, ends_at, created_by, created_at, updated_at`

// AnnouncementRepository provides persistence for announcements.
type AnnouncementRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewAnnouncementRepository creates the repository.
func NewAnnouncementRepository(db *sqlx.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// ListActive returns the announcements enabled and inside their window right now,
// addressed to every classroom or to classroomID. Newest first.
func (r *AnnouncementRepository) ListActive(ctx context.Context, classroomID string) ([]models.Announcement, error) {
	now := r.now()
	where := "enabled = ? AND starts_at <= ? AND (ends_at IS NULL OR ends_at > ?)"
	args := []interface{}{true, now, now}
	if r.textTimestamps() {
		where = "enabled = ?"
		args = []interface{}{true}
	}
	args = append(args, classroomID)
	query := r.db.Rebind(`SELECT ` + announcementColumns + `
FROM announcements
WHERE ` + where + `
AND (target_class_id IS NULL OR target_class_id = ?)
ORDER BY starts_at DESC, created_at DESC`)
	var rows []models.Announcement
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list active announcements for %s: %w", classroomID, err)
	}

	announcements := rows[:0]
	for _, a := range rows {
		if a.ActiveAt(now) {
			announcements = append(announcements, a)
		}
	}
	sort.SliceStable(announcements, func(i, j int) bool {
		a, b := announcements[i], announcements[j]
		if !a.StartsAt.Equal(b.StartsAt) {
			return a.StartsAt.After(b.StartsAt)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return announcements, nil
}

// textTimestamps reports whether the driver stores timestamps as text, where
// SQL comparisons and ordering on them are lexical rather than chronological.
func (r *AnnouncementRepository) textTimestamps() bool {
	return r.db.DriverName() == "sqlite"
}

// List returns announcements for the admin screens.
func (r *AnnouncementRepository) List(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if !filter.IncludeDisabled {
		where = append(where, "enabled = ?")
		args = append(args, true)
	}
	if filter.ClassID != "" {
		where = append(where, "(target_class_id IS NULL OR target_class_id = ?)")
		args = append(args, filter.ClassID)
	}
	whereClause := strings.Join(where, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := r.db.Rebind(fmt.Sprintf(`SELECT %s
FROM announcements WHERE %s
ORDER BY created_at DESC
LIMIT %d OFFSET %d`, announcementColumns, whereClause, size, offset))
	var announcements []models.Announcement
	if err := r.db.SelectContext(ctx, &announcements, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list announcements: %w", err)
	}
	countQuery := r.db.Rebind(fmt.Sprintf("SELECT COUNT(*) FROM announcements WHERE %s", whereClause))
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count announcements: %w", err)
	}
	return announcements, total, nil
}

// GetByID returns an announcement by identifier.
func (r *AnnouncementRepository) GetByID(ctx context.Context, id string) (*models.Announcement, error) {
	query := r.db.Rebind(`SELECT ` + announcementColumns + ` FROM announcements WHERE id = ?`)
	var announcement models.Announcement
	if err := r.db.GetContext(ctx, &announcement, query, id); err != nil {
		return nil, err
	}
	return &announcement, nil
}

// Create inserts a new announcement.
func (r *AnnouncementRepository) Create(ctx context.Context, announcement *models.Announcement) error {
	if announcement.ID == "" {
		announcement.ID = uuid.NewString()
	}
	now := r.now()
	if announcement.CreatedAt.IsZero() {
		announcement.CreatedAt = now
	}
	announcement.UpdatedAt = now
	normalizeTimes(announcement)
	query := `INSERT INTO announcements (id, title, content, type, display_mode, target_class_id, enabled, starts_at, ends_at, created_by, created_at, updated_at)
VALUES (:id, :title, :content, :type, :display_mode, :target_class_id, :enabled, :starts_at, :ends_at, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, announcement); err != nil {
		return fmt.Errorf("create announcement: %w", err)
	}
	return nil
}

// Update modifies an existing announcement.
func (r *AnnouncementRepository) Update(ctx context.Context, announcement *models.Announcement) error {
	announcement.UpdatedAt = r.now()
	normalizeTimes(announcement)
	query := `UPDATE announcements SET title = :title, content = :content, type = :type, display_mode = :display_mode,
target_class_id = :target_class_id, enabled = :enabled, starts_at = :starts_at, ends_at = :ends_at, updated_at = :updated_at
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, announcement); err != nil {
		return fmt.Errorf("update announcement: %w", err)
	}
	return nil
}

// Delete removes an announcement. It returns sql.ErrNoRows when nothing matched.
func (r *AnnouncementRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM announcements WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func normalizeTimes(a *models.Announcement) {
	a.StartsAt = a.StartsAt.UTC()
	if a.EndsAt != nil {
		end := a.EndsAt.UTC()
		a.EndsAt = &end
	}
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
}
