// Package handler implements the HTTP handlers for the risk API.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jihosong-sjh/ShopFDS-sub000/internal/application/dto"
	"github.com/jihosong-sjh/ShopFDS-sub000/internal/domain/risk"
)

// Evaluator is the evaluation entry point the handler fronts.
type Evaluator interface {
	Evaluate(ctx context.Context, tx *risk.Transaction) (*risk.EvaluationResult, error)
}

// EvaluateHandler serves POST /api/v1/risk/evaluate.
type EvaluateHandler struct {
	engine Evaluator
	logger *zap.Logger
}

// NewEvaluateHandler creates the evaluation handler.
func NewEvaluateHandler(engine Evaluator, logger *zap.Logger) *EvaluateHandler {
	return &EvaluateHandler{engine: engine, logger: logger}
}

// Evaluate decodes the transaction, runs the evaluation and returns the
// result. Validation failures are the caller's fault; everything else is a
// 500.
func (h *EvaluateHandler) Evaluate(c *gin.Context) {
	var req dto.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.engine.Evaluate(c.Request.Context(), req.ToTransaction())
	if err != nil {
		switch {
		case errors.Is(err, risk.ErrMissingTransactionID),
			errors.Is(err, risk.ErrMissingUserID),
			errors.Is(err, risk.ErrMissingIPAddress),
			errors.Is(err, risk.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			c.JSON(http.StatusGatewayTimeout, dto.ErrorResponse{Error: "evaluation deadline exceeded"})
		default:
			h.logger.Error("evaluation failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
