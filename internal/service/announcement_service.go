package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-announcer/internal/dto"
	"github.com/noah-isme/sma-announcer/internal/models"
	appErrors "github.com/noah-isme/sma-announcer/pkg/errors"
	"github.com/noah-isme/sma-announcer/pkg/export"
)

type announcementRepository interface {
	ListActive(ctx context.Context, classroomID string) ([]models.Announcement, error)
	List(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, int, error)
	GetByID(ctx context.Context, id string) (*models.Announcement, error)
	Create(ctx context.Context, announcement *models.Announcement) error
	Update(ctx context.Context, announcement *models.Announcement) error
	Delete(ctx context.Context, id string) error
}

// AnnouncementService handles the announcement admin workflows.
type AnnouncementService struct {
	repo      announcementRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAnnouncementService constructs the service.
func NewAnnouncementService(repo announcementRepository, validate *validator.Validate, logger *zap.Logger) *AnnouncementService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &AnnouncementService{repo: repo, validator: validate, logger: logger}
	svc.validator.RegisterValidation("announcement_type", func(fl validator.FieldLevel) bool {
		switch models.AnnouncementType(strings.ToLower(fl.Field().String())) {
		case "", models.AnnouncementTypeInfo, models.AnnouncementTypeImportant, models.AnnouncementTypeWarning, models.AnnouncementTypeSuccess:
			return true
		default:
			return false
		}
	})
	svc.validator.RegisterValidation("display_mode", func(fl validator.FieldLevel) bool {
		switch models.DisplayMode(strings.ToLower(fl.Field().String())) {
		case "", models.DisplayModeOnce, models.DisplayModeAlways:
			return true
		default:
			return false
		}
	})
	return svc
}

// AnnouncementListRequest describes filters for listing announcements.
type AnnouncementListRequest struct {
	ClassID         string `json:"class_id"`
	IncludeDisabled bool   `json:"include_disabled"`
	Page            int    `json:"page"`
	PageSize        int    `json:"page_size"`
}

// AnnouncementRequest describes the create and update payload.
// An empty type or display mode is stored as is and read back as info / always.
type AnnouncementRequest struct {
	Title         string     `json:"title" validate:"required"`
	Content       string     `json:"content" validate:"required"`
	Type          string     `json:"type" validate:"announcement_type"`
	DisplayMode   string     `json:"display_mode" validate:"display_mode"`
	TargetClassID *string    `json:"target_class_id"`
	Enabled       *bool      `json:"enabled"`
	StartsAt      time.Time  `json:"starts_at" validate:"required"`
	EndsAt        *time.Time `json:"ends_at"`
	CreatedBy     string     `json:"created_by"`
}

// List returns announcements with pagination.
func (s *AnnouncementService) List(ctx context.Context, req AnnouncementListRequest) ([]models.Announcement, *models.Pagination, error) {
	filter := models.AnnouncementFilter{
		ClassID:         req.ClassID,
		IncludeDisabled: req.IncludeDisabled,
		Page:            req.Page,
		PageSize:        req.PageSize,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list announcements")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return rows, pagination, nil
}

// Get returns an announcement by id.
func (s *AnnouncementService) Get(ctx context.Context, id string) (*models.Announcement, error) {
	ann, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get announcement")
	}
	return ann, nil
}

// Create registers a new announcement.
func (s *AnnouncementService) Create(ctx context.Context, req AnnouncementRequest) (*models.Announcement, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.CreatedBy) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "created_by is required")
	}
	announcement := &models.Announcement{CreatedBy: req.CreatedBy}
	apply(announcement, req)
	if err := s.repo.Create(ctx, announcement); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create announcement")
	}
	s.logger.Info("announcement created", zap.String("announcement_id", announcement.ID), zap.String("display_mode", string(announcement.DisplayMode)))
	return announcement, nil
}

// Update modifies an existing announcement.
func (s *AnnouncementService) Update(ctx context.Context, id string, req AnnouncementRequest) (*models.Announcement, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	apply(existing, req)
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update announcement")
	}
	return existing, nil
}

// Delete removes an announcement by id.
func (s *AnnouncementService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete announcement")
	}
	return nil
}

// Export renders the announcements active right now in classID as a printable
// notice sheet. An empty classID covers announcements addressed to every classroom.
func (s *AnnouncementService) Export(ctx context.Context, classID string, format export.Format) (*dto.ExportFile, error) {
	items, err := s.repo.ListActive(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list active announcements")
	}

	scope := "all classrooms"
	name := "announcements"
	if classID != "" {
		scope = "classroom " + classID
		name = "announcements-" + classID
	}
	data := export.Dataset{
		Title:   fmt.Sprintf("Announcements for %s", scope),
		Headers: []string{"Type", "Shown", "From", "Until", "Title", "Content"},
		Rows:    make([][]string, 0, len(items)),
	}
	for _, a := range items {
		shown := string(models.DisplayModeAlways)
		if a.ShowOnce() {
			shown = string(models.DisplayModeOnce)
		}
		until := ""
		if a.EndsAt != nil {
			until = a.EndsAt.Format("2006-01-02 15:04")
		}
		data.Rows = append(data.Rows, []string{
			string(a.EffectiveType()),
			shown,
			a.StartsAt.Format("2006-01-02 15:04"),
			until,
			a.Title,
			a.Content,
		})
	}

	renderer := export.For(format)
	content, err := renderer.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render announcements")
	}
	return &dto.ExportFile{
		Filename:    name + "." + renderer.Extension(),
		ContentType: renderer.ContentType(),
		Content:     content,
	}, nil
}

func (s *AnnouncementService) validate(req AnnouncementRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if req.EndsAt != nil && !req.EndsAt.After(req.StartsAt) {
		return appErrors.Clone(appErrors.ErrValidation, "ends_at must be after starts_at")
	}
	if req.TargetClassID != nil && strings.TrimSpace(*req.TargetClassID) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "target_class_id must not be blank")
	}
	return nil
}

func apply(a *models.Announcement, req AnnouncementRequest) {
	a.Title = req.Title
	a.Content = req.Content
	a.Type = models.AnnouncementType(strings.ToLower(req.Type))
	a.DisplayMode = models.DisplayMode(strings.ToLower(req.DisplayMode))
	a.TargetClassID = req.TargetClassID
	a.Enabled = req.Enabled == nil || *req.Enabled
	a.StartsAt = req.StartsAt
	a.EndsAt = req.EndsAt
}
