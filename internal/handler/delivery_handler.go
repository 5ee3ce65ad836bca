package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-announcer/internal/dto"
	"github.com/noah-isme/sma-announcer/internal/models"
	appErrors "github.com/noah-isme/sma-announcer/pkg/errors"
	"github.com/noah-isme/sma-announcer/pkg/response"
)

type deliveryService interface {
	Enter(ctx context.Context, viewer *models.ViewerClaims, classroomID string) dto.PresentationView
	Current(viewer *models.ViewerClaims) dto.PresentationView
	Next(viewer *models.ViewerClaims) dto.PresentationView
	Dismiss(viewer *models.ViewerClaims) dto.PresentationView
}

// DeliveryHandler exposes the classroom entry point and the presentation surface.
type DeliveryHandler struct {
	service deliveryService
}

// NewDeliveryHandler constructs a delivery handler.
func NewDeliveryHandler(svc deliveryService) *DeliveryHandler {
	return &DeliveryHandler{service: svc}
}

// Enter godoc
// @Summary Enter classroom
// @Description Run one announcement delivery cycle for the classroom and return the surface. Delivery problems never fail the request.
// @Tags Delivery
// @Produce json
// @Param classId path string true "Classroom ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /classrooms/{classId}/announcements/enter [post]
func (h *DeliveryHandler) Enter(c *gin.Context) {
	viewer := viewerFromContext(c)
	if viewer == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	classID := strings.TrimSpace(c.Param("classId"))
	if classID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "classId is required"))
		return
	}

	response.JSON(c, http.StatusOK, h.service.Enter(c.Request.Context(), viewer, classID), nil)
}

// Current godoc
// @Summary Current presentation
// @Tags Delivery
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /presentation [get]
func (h *DeliveryHandler) Current(c *gin.Context) {
	h.respond(c, h.service.Current)
}

// Next godoc
// @Summary Acknowledge current announcement
// @Description Advance to the next announcement or close the surface after the last one
// @Tags Delivery
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /presentation/next [post]
func (h *DeliveryHandler) Next(c *gin.Context) {
	h.respond(c, h.service.Next)
}

// Dismiss godoc
// @Summary Dismiss presentation
// @Description Close the surface and drop the remaining queue
// @Tags Delivery
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /presentation/dismiss [post]
func (h *DeliveryHandler) Dismiss(c *gin.Context) {
	h.respond(c, h.service.Dismiss)
}

func (h *DeliveryHandler) respond(c *gin.Context, action func(*models.ViewerClaims) dto.PresentationView) {
	viewer := viewerFromContext(c)
	if viewer == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	response.JSON(c, http.StatusOK, action(viewer), nil)
}
