package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ViewerRole identifies who is looking at a classroom.
type ViewerRole string

const (
	ViewerRoleStudent ViewerRole = "STUDENT"
	ViewerRoleTeacher ViewerRole = "TEACHER"
	ViewerRoleAdmin   ViewerRole = "ADMIN"
)

// Viewer is the credential row consulted when a browsing session starts.
type Viewer struct {
	ID           string     `db:"id" json:"id"`
	FullName     string     `db:"full_name" json:"full_name"`
	Role         ViewerRole `db:"role" json:"role"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Active       bool       `db:"active" json:"active"`
}

// SessionRequest starts a browsing session.
type SessionRequest struct {
	ViewerID string `json:"viewer_id" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SessionResponse returns the viewer token bound to a fresh session.
type SessionResponse struct {
	Token     string     `json:"token"`
	SessionID string     `json:"session_id"`
	ExpiresAt time.Time  `json:"expires_at"`
	ViewerID  string     `json:"viewer_id"`
	Role      ViewerRole `json:"role"`
}

// ViewerClaims is the JWT payload identifying a viewer and their browsing session.
type ViewerClaims struct {
	ViewerID  string     `json:"viewer_id"`
	SessionID string     `json:"session_id"`
	Role      ViewerRole `json:"role"`
	jwt.RegisteredClaims
}
