package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-announcer/internal/dto"
	"github.com/noah-isme/sma-announcer/internal/middleware"
	"github.com/noah-isme/sma-announcer/internal/models"
)

type deliveryServiceMock struct {
	enteredClass string
	calls        []string
	view         dto.PresentationView
}

func (m *deliveryServiceMock) Enter(ctx context.Context, viewer *models.ViewerClaims, classroomID string) dto.PresentationView {
	m.calls = append(m.calls, "enter")
	m.enteredClass = classroomID
	return m.view
}

func (m *deliveryServiceMock) Current(viewer *models.ViewerClaims) dto.PresentationView {
	m.calls = append(m.calls, "current")
	return m.view
}

func (m *deliveryServiceMock) Next(viewer *models.ViewerClaims) dto.PresentationView {
	m.calls = append(m.calls, "next")
	return dto.PresentationView{}
}

func (m *deliveryServiceMock) Dismiss(viewer *models.ViewerClaims) dto.PresentationView {
	m.calls = append(m.calls, "dismiss")
	return dto.PresentationView{}
}

func viewerContext(w *httptest.ResponseRecorder, method, target string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, nil)
	c.Set(middleware.ContextViewerKey, &models.ViewerClaims{ViewerID: "v1", SessionID: "s1", Role: models.ViewerRoleStudent})
	return c
}

func TestDeliveryHandlerEnter(t *testing.T) {
	svc := &deliveryServiceMock{view: dto.PresentationView{Open: true, ID: "a1", Title: "Exam", Type: models.AnnouncementTypeWarning, Position: 1, Total: 2}}
	h := NewDeliveryHandler(svc)
	w := httptest.NewRecorder()
	c := viewerContext(w, http.MethodPost, "/classrooms/c-7/announcements/enter")
	c.Params = gin.Params{{Key: "classId", Value: "c-7"}}

	h.Enter(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "c-7", svc.enteredClass)

	var body struct {
		Data dto.PresentationView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Data.Open)
	assert.Equal(t, "a1", body.Data.ID)
	assert.Equal(t, 2, body.Data.Total)
}

func TestDeliveryHandlerEnterRequiresClassroom(t *testing.T) {
	svc := &deliveryServiceMock{}
	h := NewDeliveryHandler(svc)
	w := httptest.NewRecorder()
	c := viewerContext(w, http.MethodPost, "/classrooms/%20/announcements/enter")
	c.Params = gin.Params{{Key: "classId", Value: " "}}

	h.Enter(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.calls)
}

func TestDeliveryHandlerRequiresViewer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &deliveryServiceMock{}
	h := NewDeliveryHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/presentation", nil)

	h.Current(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, svc.calls)
}

func TestDeliveryHandlerSurfaceActions(t *testing.T) {
	svc := &deliveryServiceMock{}
	h := NewDeliveryHandler(svc)

	for _, action := range []gin.HandlerFunc{h.Current, h.Next, h.Dismiss} {
		w := httptest.NewRecorder()
		action(viewerContext(w, http.MethodPost, "/presentation"))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"open":false`)
	}
	assert.Equal(t, []string{"current", "next", "dismiss"}, svc.calls)
}
