package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-announcer/internal/models"
	appErrors "github.com/noah-isme/sma-announcer/pkg/errors"
	"github.com/noah-isme/sma-announcer/pkg/response"
)

type sessionService interface {
	Login(ctx context.Context, req models.SessionRequest) (*models.SessionResponse, error)
}

// SessionHandler starts viewer browsing sessions.
type SessionHandler struct {
	service sessionService
}

// NewSessionHandler creates a new handler.
func NewSessionHandler(svc sessionService) *SessionHandler {
	return &SessionHandler{service: svc}
}

// Create godoc
// @Summary Start viewer session
// @Description Check viewer credentials and issue a token bound to a fresh session id
// @Tags Sessions
// @Accept json
// @Produce json
// @Param payload body models.SessionRequest true "Session payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	var req models.SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid session payload"))
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, res)
}
