package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jihosong-sjh/ShopFDS-sub000/internal/application/dto"
	"github.com/jihosong-sjh/ShopFDS-sub000/internal/domain/stepup"
)

// StepUpController is the OTP lifecycle the handler fronts. Resend takes no
// recipient: redelivery goes to the identity pinned on the session at issue
// time.
type StepUpController interface {
	Verify(ctx context.Context, transactionID uuid.UUID, code string) (*stepup.Session, error)
	Resend(ctx context.Context, transactionID uuid.UUID) (*stepup.Session, error)
}

// StepUpHandler serves the OTP verification endpoints.
type StepUpHandler struct {
	controller StepUpController
	logger     *zap.Logger
}

// NewStepUpHandler creates the step-up handler.
func NewStepUpHandler(controller StepUpController, logger *zap.Logger) *StepUpHandler {
	return &StepUpHandler{controller: controller, logger: logger}
}

// Verify serves POST /api/v1/risk/otp/:transaction_id/verify.
func (h *StepUpHandler) Verify(c *gin.Context) {
	transactionID, err := uuid.Parse(c.Param("transaction_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid transaction id"})
		return
	}

	var req dto.VerifyOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	session, err := h.controller.Verify(c.Request.Context(), transactionID, req.Code)
	if err != nil {
		h.writeError(c, session, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromSession(session))
}

// Resend serves POST /api/v1/risk/otp/:transaction_id/resend.
func (h *StepUpHandler) Resend(c *gin.Context) {
	transactionID, err := uuid.Parse(c.Param("transaction_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid transaction id"})
		return
	}

	session, err := h.controller.Resend(c.Request.Context(), transactionID)
	if err != nil {
		h.writeError(c, session, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromSession(session))
}

// writeError maps lifecycle errors to statuses. Terminal-state and
// wrong-code rejections include the session view so callers can see the
// remaining budget.
func (h *StepUpHandler) writeError(c *gin.Context, session *stepup.Session, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, stepup.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, stepup.ErrInvalidCode),
		errors.Is(err, stepup.ErrSessionExpired),
		errors.Is(err, stepup.ErrSessionExhausted),
		errors.Is(err, stepup.ErrSessionVerified):
		status = http.StatusConflict
	case errors.Is(err, stepup.ErrResendTooSoon):
		status = http.StatusTooManyRequests
	default:
		h.logger.Error("step-up operation failed", zap.Error(err))
		c.JSON(status, dto.ErrorResponse{Error: "internal error"})
		return
	}

	body := gin.H{"error": err.Error()}
	if session != nil {
		body["session"] = dto.FromSession(session)
	}
	c.JSON(status, body)
}
