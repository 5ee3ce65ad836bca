package models

import (
	"strings"
	"time"
)

// AnnouncementType drives how the presentation surface styles an item.
type AnnouncementType string

const (
	AnnouncementTypeInfo      AnnouncementType = "info"
	AnnouncementTypeImportant AnnouncementType = "important"
	AnnouncementTypeWarning   AnnouncementType = "warning"
	AnnouncementTypeSuccess   AnnouncementType = "success"
)

// DisplayMode selects the seen registry, and so the lifetime, governing de-duplication.
type DisplayMode string

const (
	// DisplayModeOnce shows an announcement once per viewer, ever.
	DisplayModeOnce DisplayMode = "once"
	// DisplayModeAlways shows an announcement once per browsing session.
	DisplayModeAlways DisplayMode = "always"
)

// Announcement represents a persisted announcement row.
type Announcement struct {
	ID            string           `db:"id" json:"id"`
	Title         string           `db:"title" json:"title"`
	Content       string           `db:"content" json:"content"`
	Type          AnnouncementType `db:"type" json:"type"`
	DisplayMode   DisplayMode      `db:"display_mode" json:"display_mode"`
	TargetClassID *string          `db:"target_class_id" json:"target_class_id,omitempty"`
	Enabled       bool             `db:"enabled" json:"enabled"`
	StartsAt      time.Time        `db:"starts_at" json:"starts_at"`
	EndsAt        *time.Time       `db:"ends_at" json:"ends_at,omitempty"`
	CreatedBy     string           `db:"created_by" json:"created_by"`
	CreatedAt     time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time        `db:"updated_at" json:"updated_at"`
}

// EffectiveType returns the announcement type, defaulting to info when unset.
func (a Announcement) EffectiveType() AnnouncementType {
	switch t := AnnouncementType(strings.ToLower(string(a.Type))); t {
	case AnnouncementTypeImportant, AnnouncementTypeWarning, AnnouncementTypeSuccess:
		return t
	default:
		return AnnouncementTypeInfo
	}
}

// ShowOnce reports whether the announcement is governed by the permanent registry.
// Anything other than exactly "once", including an absent mode, behaves as always.
// Writers store the mode lowercased.
func (a Announcement) ShowOnce() bool {
	return a.DisplayMode == DisplayModeOnce
}

// ActiveAt reports whether the announcement is enabled and inside its window at t.
func (a Announcement) ActiveAt(t time.Time) bool {
	if !a.Enabled || t.Before(a.StartsAt) {
		return false
	}
	return a.EndsAt == nil || t.Before(*a.EndsAt)
}

// AnnouncementFilter allows listing announcements.
type AnnouncementFilter struct {
	ClassID         string
	IncludeDisabled bool
	Page            int
	PageSize        int
}
