package handler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"github.com/jihosong-sjh/ShopFDS-sub000/internal/domain/stepup"
)

type fakeStepUp struct {
	session *stepup.Session
	err     error
}

func (f *fakeStepUp) Verify(ctx context.Context, transactionID uuid.UUID, code string) (*stepup.Session, error) {
	return f.session, f.err
}

func (f *fakeStepUp) Resend(ctx context.Context, transactionID uuid.UUID) (*stepup.Session, error) {
	return f.session, f.err
}

func setupStepUpRouter(ctrl StepUpController, t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewStepUpHandler(ctrl, zaptest.NewLogger(t))
	r.POST("/api/v1/risk/otp/:transaction_id/verify", h.Verify)
	r.POST("/api/v1/risk/otp/:transaction_id/resend", h.Resend)
	return r
}

func pendingSession() *stepup.Session {
	return stepup.NewSession(uuid.New(), "user-1", stepup.HashCode("123456"), time.Now(), 5*time.Minute, 3)
}

func TestStepUpHandler_VerifyStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"verified ok", nil, http.StatusOK},
		{"not found", stepup.ErrSessionNotFound, http.StatusNotFound},
		{"wrong code", stepup.ErrInvalidCode, http.StatusConflict},
		{"expired", stepup.ErrSessionExpired, http.StatusConflict},
		{"exhausted", stepup.ErrSessionExhausted, http.StatusConflict},
		{"already verified", stepup.ErrSessionVerified, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := &fakeStepUp{err: tt.err}
			if tt.err == nil || tt.err != stepup.ErrSessionNotFound {
				ctrl.session = pendingSession()
			}
			r := setupStepUpRouter(ctrl, t)

			w := httptest.NewRecorder()
			url := fmt.Sprintf("/api/v1/risk/otp/%s/verify", uuid.New())
			req := httptest.NewRequest(http.MethodPost, url, bytes.NewBufferString(`{"code":"123456"}`))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestStepUpHandler_VerifyRejectsMalformedInput(t *testing.T) {
	r := setupStepUpRouter(&fakeStepUp{session: pendingSession()}, t)

	tests := []struct {
		name string
		url  string
		body string
	}{
		{"bad transaction id", "/api/v1/risk/otp/not-a-uuid/verify", `{"code":"123456"}`},
		{"short code", fmt.Sprintf("/api/v1/risk/otp/%s/verify", uuid.New()), `{"code":"123"}`},
		{"non-numeric code", fmt.Sprintf("/api/v1/risk/otp/%s/verify", uuid.New()), `{"code":"abcdef"}`},
		{"missing code", fmt.Sprintf("/api/v1/risk/otp/%s/verify", uuid.New()), `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, tt.url, bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestStepUpHandler_ResendCooldownMapsToTooManyRequests(t *testing.T) {
	ctrl := &fakeStepUp{session: pendingSession(), err: stepup.ErrResendTooSoon}
	r := setupStepUpRouter(ctrl, t)

	w := httptest.NewRecorder()
	url := fmt.Sprintf("/api/v1/risk/otp/%s/resend", uuid.New())
	req := httptest.NewRequest(http.MethodPost, url, nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
