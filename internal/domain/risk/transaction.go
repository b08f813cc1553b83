package risk

import (
	"time"

	"github.com/google/uuid"
)

// RiskLevel labels the severity band a composite score falls into.
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "low"
	RiskLevelMedium RiskLevel = "medium"
	RiskLevelHigh   RiskLevel = "high"
)

// Decision is the terminal outcome of an evaluation.
type Decision string

const (
	DecisionApprove        Decision = "approve"
	DecisionReject         Decision = "reject"
	DecisionAdditionalAuth Decision = "additional_auth_required"
)

// Transaction is the immutable input to an evaluation. It is created by the
// caller and never persisted by this engine.
type Transaction struct {
	ID                uuid.UUID `json:"id"`
	UserID            uuid.UUID `json:"user_id"`
	Amount            int64     `json:"amount"` // minor units
	IPAddress         string    `json:"ip_address"`
	DeviceFingerprint string    `json:"device_fingerprint,omitempty"`
	Country           string    `json:"country,omitempty"` // resolved by an upstream geo collaborator
	Timestamp         time.Time `json:"timestamp"`
}

// Validate checks the fields every evaluation requires. A transaction that
// fails validation is rejected outright; no partial evaluation is attempted.
func (t *Transaction) Validate() error {
	if t.ID == uuid.Nil {
		return ErrMissingTransactionID
	}
	if t.UserID == uuid.Nil {
		return ErrMissingUserID
	}
	if t.Amount < 0 {
		return ErrInvalidAmount
	}
	if t.IPAddress == "" {
		return ErrMissingIPAddress
	}
	return nil
}

// OtpState is the step-up slice of an EvaluationResult. Error carries
// issuance or delivery failures; silently approving a transaction that
// required step-up would undermine the guarantee, so the failure is surfaced.
type OtpState struct {
	Status            string    `json:"status"`
	ExpiresAt         time.Time `json:"expires_at"`
	AttemptsRemaining int       `json:"attempts_remaining"`
	Error             string    `json:"error,omitempty"`
}

// EvaluationResult is the terminal output of one evaluation. It is created
// once per transaction; only the step-up flow appends OTP state afterwards.
type EvaluationResult struct {
	TransactionID uuid.UUID    `json:"transaction_id"`
	RiskScore     int          `json:"risk_score"` // 0-100, clamped
	RiskLevel     RiskLevel    `json:"risk_level"`
	Decision      Decision     `json:"decision"`
	RiskFactors   []RiskFactor `json:"risk_factors"`
	Degraded      bool         `json:"degraded"`
	Otp           *OtpState    `json:"otp,omitempty"`
	EvaluatedAt   time.Time    `json:"evaluated_at"`
	LatencyMs     int64        `json:"latency_ms"`
}

// TransactionContext is the view of a transaction handed to rule evaluators.
type TransactionContext struct {
	TransactionID     uuid.UUID
	UserID            uuid.UUID
	Amount            int64
	IPAddress         string
	DeviceFingerprint string
	Country           string
	Timestamp         time.Time
}

// ContextFor builds the evaluator view of a transaction.
func ContextFor(t *Transaction) *TransactionContext {
	return &TransactionContext{
		TransactionID:     t.ID,
		UserID:            t.UserID,
		Amount:            t.Amount,
		IPAddress:         t.IPAddress,
		DeviceFingerprint: t.DeviceFingerprint,
		Country:           t.Country,
		Timestamp:         t.Timestamp,
	}
}

// StringField resolves a named context field to its string form. Rule
// parameters reference fields by name (e.g. velocity scope_field), so lookups
// on unknown names report absence instead of erroring.
func (c *TransactionContext) StringField(name string) (string, bool) {
	switch name {
	case "user_id":
		return c.UserID.String(), true
	case "ip_address":
		return c.IPAddress, true
	case "device_fingerprint":
		if c.DeviceFingerprint == "" {
			return "", false
		}
		return c.DeviceFingerprint, true
	case "country":
		if c.Country == "" {
			return "", false
		}
		return c.Country, true
	default:
		return "", false
	}
}

// NumericField resolves a named context field to a number for threshold
// comparisons.
func (c *TransactionContext) NumericField(name string) (float64, bool) {
	switch name {
	case "amount":
		return float64(c.Amount), true
	case "hour_of_day":
		return float64(c.Timestamp.Hour()), true
	default:
		return 0, false
	}
}
