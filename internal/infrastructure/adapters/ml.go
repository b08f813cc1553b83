// Package adapters holds the clients for external scoring boundaries. Every
// call is bounded by a hard timeout and guarded by a circuit breaker; the
// evaluation engine treats any error here as a skippable signal, never a
// reason to block a transaction.
package adapters

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/jihosong-sjh/ShopFDS-sub000/internal/domain/risk"
	"github.com/jihosong-sjh/ShopFDS-sub000/internal/pkg/circuitbreaker"
)

// ErrBreakerOpen is returned without touching the network when a circuit is
// open.
var ErrBreakerOpen = errors.New("circuit breaker open")

const breakerKeyML = "ml"

// MLClient calls the model-serving endpoint for an anomaly score.
type MLClient struct {
	http    *resty.Client
	breaker *circuitbreaker.Breaker
	logger  *zap.Logger
}

// NewMLClient creates an ML scoring client. The timeout bounds the whole
// round trip including connection setup.
func NewMLClient(endpoint string, timeout time.Duration, breaker *circuitbreaker.Breaker, logger *zap.Logger) *MLClient {
	client := resty.New().
		SetBaseURL(endpoint).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	return &MLClient{http: client, breaker: breaker, logger: logger}
}

type mlScoreRequest struct {
	TransactionID     string `json:"transaction_id"`
	UserID            string `json:"user_id"`
	Amount            int64  `json:"amount"`
	IPAddress         string `json:"ip_address"`
	DeviceFingerprint string `json:"device_fingerprint,omitempty"`
	Timestamp         string `json:"timestamp"`
}

type mlScoreResponse struct {
	Score      int     `json:"score"`
	Confidence float64 `json:"confidence"`
}

// Score requests an anomaly score for the transaction. A failed or refused
// call returns an error; callers skip the signal rather than retry.
func (c *MLClient) Score(ctx context.Context, tx *risk.Transaction) (*risk.MLScore, error) {
	if !c.breaker.Allow(breakerKeyML) {
		return nil, ErrBreakerOpen
	}

	req := mlScoreRequest{
		TransactionID:     tx.ID.String(),
		UserID:            tx.UserID.String(),
		Amount:            tx.Amount,
		IPAddress:         tx.IPAddress,
		DeviceFingerprint: tx.DeviceFingerprint,
		Timestamp:         tx.Timestamp.UTC().Format(time.RFC3339),
	}

	var out mlScoreResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Post("")
	if err != nil {
		c.breaker.RecordFailure(breakerKeyML)
		return nil, fmt.Errorf("ml score request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		c.breaker.RecordFailure(breakerKeyML)
		return nil, fmt.Errorf("ml score request: status %d", resp.StatusCode())
	}

	c.breaker.RecordSuccess(breakerKeyML)

	score := out.Score
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return &risk.MLScore{Score: score, Confidence: out.Confidence}, nil
}
