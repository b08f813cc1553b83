// Package dto defines the request and response shapes of the HTTP API.
package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/jihosong-sjh/ShopFDS-sub000/internal/domain/risk"
	"github.com/jihosong-sjh/ShopFDS-sub000/internal/domain/stepup"
)

// EvaluateRequest is the evaluation input. Amount is in minor units.
type EvaluateRequest struct {
	TransactionID     uuid.UUID `json:"transaction_id" binding:"required"`
	UserID            uuid.UUID `json:"user_id" binding:"required"`
	Amount            int64     `json:"amount" binding:"min=0"`
	IPAddress         string    `json:"ip_address" binding:"required,ip"`
	DeviceFingerprint string    `json:"device_fingerprint"`
	Country           string    `json:"country"`
	Timestamp         time.Time `json:"timestamp"`
}

// ToTransaction converts the request into the domain input. A missing
// timestamp defaults to the receive time.
func (r *EvaluateRequest) ToTransaction() *risk.Transaction {
	ts := r.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	return &risk.Transaction{
		ID:                r.TransactionID,
		UserID:            r.UserID,
		Amount:            r.Amount,
		IPAddress:         r.IPAddress,
		DeviceFingerprint: r.DeviceFingerprint,
		Country:           r.Country,
		Timestamp:         ts,
	}
}

// VerifyOtpRequest submits a code for a pending step-up challenge.
type VerifyOtpRequest struct {
	Code string `json:"code" binding:"required,len=6,numeric"`
}

// OtpSessionResponse is the externally visible slice of a step-up session.
// The code hash never leaves the service.
type OtpSessionResponse struct {
	TransactionID     uuid.UUID `json:"transaction_id"`
	Status            string    `json:"status"`
	ExpiresAt         time.Time `json:"expires_at"`
	AttemptsRemaining int       `json:"attempts_remaining"`
}

// FromSession builds the response view of a session.
func FromSession(s *stepup.Session) OtpSessionResponse {
	return OtpSessionResponse{
		TransactionID:     s.TransactionID,
		Status:            string(s.Status),
		ExpiresAt:         s.ExpiresAt,
		AttemptsRemaining: s.AttemptsRemaining,
	}
}

// BlacklistRequest adds one entry to the blacklist.
type BlacklistRequest struct {
	Type        risk.BlacklistType `json:"type" binding:"required"`
	Value       string             `json:"value" binding:"required"`
	ThreatLevel risk.ThreatLevel   `json:"threat_level" binding:"required"`
	Reason      string             `json:"reason"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
