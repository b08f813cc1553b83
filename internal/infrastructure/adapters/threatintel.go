package adapters

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/jihosong-sjh/ShopFDS-sub000/internal/domain/risk"
	"github.com/jihosong-sjh/ShopFDS-sub000/internal/pkg/circuitbreaker"
)

const breakerKeyThreatIntel = "threat_intel"

// ThreatIntelClient looks up IP reputation at the threat-intel endpoint.
type ThreatIntelClient struct {
	http    *resty.Client
	breaker *circuitbreaker.Breaker
	logger  *zap.Logger
}

// NewThreatIntelClient creates a threat-intel client.
func NewThreatIntelClient(endpoint string, timeout time.Duration, breaker *circuitbreaker.Breaker, logger *zap.Logger) *ThreatIntelClient {
	client := resty.New().
		SetBaseURL(endpoint).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	return &ThreatIntelClient{http: client, breaker: breaker, logger: logger}
}

type reputationRequest struct {
	IPAddress string `json:"ip_address"`
}

type reputationResponse struct {
	ThreatLevel string `json:"threat_level"`
	Category    string `json:"category"`
}

// Lookup fetches the reputation verdict for an IP. Unknown levels from the
// upstream map to none rather than failing the evaluation.
func (c *ThreatIntelClient) Lookup(ctx context.Context, ipAddress string) (*risk.ThreatAssessment, error) {
	if !c.breaker.Allow(breakerKeyThreatIntel) {
		return nil, ErrBreakerOpen
	}

	var out reputationResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(reputationRequest{IPAddress: ipAddress}).
		SetResult(&out).
		Post("")
	if err != nil {
		c.breaker.RecordFailure(breakerKeyThreatIntel)
		return nil, fmt.Errorf("threat intel lookup: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		c.breaker.RecordFailure(breakerKeyThreatIntel)
		return nil, fmt.Errorf("threat intel lookup: status %d", resp.StatusCode())
	}

	c.breaker.RecordSuccess(breakerKeyThreatIntel)

	level := risk.CTILevel(out.ThreatLevel)
	switch level {
	case risk.CTINone, risk.CTILow, risk.CTIMedium, risk.CTIHigh:
	default:
		c.logger.Warn("unknown threat level from upstream, treating as none",
			zap.String("threat_level", out.ThreatLevel))
		level = risk.CTINone
	}

	return &risk.ThreatAssessment{Level: level, Category: out.Category}, nil
}
