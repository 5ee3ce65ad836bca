package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/sma-announcer/internal/models"
	appErrors "github.com/noah-isme/sma-announcer/pkg/errors"
)

type sessionServiceMock struct {
	req models.SessionRequest
	err error
}

func (m *sessionServiceMock) Login(ctx context.Context, req models.SessionRequest) (*models.SessionResponse, error) {
	m.req = req
	if m.err != nil {
		return nil, m.err
	}
	return &models.SessionResponse{Token: "tok", SessionID: "s1", ViewerID: req.ViewerID}, nil
}

func sessionRequest(w *httptest.ResponseRecorder, body string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/sessions", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c
}

func TestSessionHandlerCreate(t *testing.T) {
	svc := &sessionServiceMock{}
	h := NewSessionHandler(svc)
	w := httptest.NewRecorder()

	h.Create(sessionRequest(w, `{"viewer_id":"v1","password":"secret"}`))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "v1", svc.req.ViewerID)
	assert.Contains(t, w.Body.String(), `"session_id":"s1"`)
}

func TestSessionHandlerInvalidBody(t *testing.T) {
	h := NewSessionHandler(&sessionServiceMock{})
	w := httptest.NewRecorder()

	h.Create(sessionRequest(w, `not-json`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionHandlerBadCredentials(t *testing.T) {
	h := NewSessionHandler(&sessionServiceMock{err: appErrors.ErrInvalidCredentials})
	w := httptest.NewRecorder()

	h.Create(sessionRequest(w, `{"viewer_id":"v1","password":"wrong"}`))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
