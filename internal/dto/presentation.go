package dto

import "github.com/noah-isme/sma-announcer/internal/models"

// PresentationView is the announcement surface as seen by the viewer.
// Position and Total are present only while more than one announcement is queued.
type PresentationView struct {
	Open        bool                    `json:"open"`
	ID          string                  `json:"id,omitempty"`
	Type        models.AnnouncementType `json:"type,omitempty"`
	Title       string                  `json:"title,omitempty"`
	Content     string                  `json:"content,omitempty"`
	ContentHTML string                  `json:"content_html,omitempty"`
	Position    int                     `json:"position,omitempty"`
	Total       int                     `json:"total,omitempty"`
}
