package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jihosong-sjh/ShopFDS-sub000/internal/domain/risk"
)

type fakeEvaluator struct {
	result *risk.EvaluationResult
	err    error
}

func (f *fakeEvaluator) Evaluate(ctx context.Context, tx *risk.Transaction) (*risk.EvaluationResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := *f.result
	out.TransactionID = tx.ID
	return &out, nil
}

func setupEvaluateRouter(eval Evaluator, t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewEvaluateHandler(eval, zaptest.NewLogger(t))
	r.POST("/api/v1/risk/evaluate", h.Evaluate)
	return r
}

func evaluateBody(t *testing.T) []byte {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"transaction_id": uuid.New(),
		"user_id":        uuid.New(),
		"amount":         250_000,
		"ip_address":     "203.0.113.7",
		"timestamp":      time.Now().Format(time.RFC3339),
	})
	require.NoError(t, err)
	return raw
}

func TestEvaluateHandler_OK(t *testing.T) {
	eval := &fakeEvaluator{result: &risk.EvaluationResult{
		RiskScore: 12,
		RiskLevel: risk.RiskLevelLow,
		Decision:  risk.DecisionApprove,
	}}
	r := setupEvaluateRouter(eval, t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/risk/evaluate", bytes.NewReader(evaluateBody(t)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var result risk.EvaluationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, risk.DecisionApprove, result.Decision)
	assert.Equal(t, 12, result.RiskScore)
}

func TestEvaluateHandler_BadRequests(t *testing.T) {
	eval := &fakeEvaluator{result: &risk.EvaluationResult{Decision: risk.DecisionApprove}}
	r := setupEvaluateRouter(eval, t)

	tests := []struct {
		name string
		body string
	}{
		{"not json", "not json"},
		{"missing user id", fmt.Sprintf(`{"transaction_id":%q,"amount":1,"ip_address":"203.0.113.7"}`, uuid.New())},
		{"bad ip", fmt.Sprintf(`{"transaction_id":%q,"user_id":%q,"amount":1,"ip_address":"nope"}`, uuid.New(), uuid.New())},
		{"negative amount", fmt.Sprintf(`{"transaction_id":%q,"user_id":%q,"amount":-5,"ip_address":"203.0.113.7"}`, uuid.New(), uuid.New())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/risk/evaluate", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestEvaluateHandler_ValidationErrorsAreClientErrors(t *testing.T) {
	eval := &fakeEvaluator{err: risk.ErrMissingIPAddress}
	r := setupEvaluateRouter(eval, t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/risk/evaluate", bytes.NewReader(evaluateBody(t)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEvaluateHandler_DeadlineMapsToGatewayTimeout(t *testing.T) {
	eval := &fakeEvaluator{err: context.DeadlineExceeded}
	r := setupEvaluateRouter(eval, t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/risk/evaluate", bytes.NewReader(evaluateBody(t)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}
