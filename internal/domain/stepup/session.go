package stepup

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an OTP session. verified, expired and
// exhausted are terminal.
type Status string

const (
	StatusPending   Status = "pending"
	StatusVerified  Status = "verified"
	StatusExpired   Status = "expired"
	StatusExhausted Status = "exhausted"
)

// Session tracks one step-up challenge for one transaction. The attempt
// limit is per transaction, not per code: a resend refreshes the code and
// expiry but never the remaining attempts. The recipient is pinned at issue
// time so every redelivery targets the same identity.
type Session struct {
	TransactionID     uuid.UUID `json:"transaction_id"`
	Recipient         string    `json:"recipient"`
	CodeHash          string    `json:"code_hash"`
	CreatedAt         time.Time `json:"created_at"`
	ExpiresAt         time.Time `json:"expires_at"`
	LastSentAt        time.Time `json:"last_sent_at"`
	AttemptsRemaining int       `json:"attempts_remaining"`
	Status            Status    `json:"status"`
}

// NewSession creates a pending session for a transaction.
func NewSession(transactionID uuid.UUID, recipient, codeHash string, now time.Time, ttl time.Duration, attempts int) *Session {
	return &Session{
		TransactionID:     transactionID,
		Recipient:         recipient,
		CodeHash:          codeHash,
		CreatedAt:         now,
		ExpiresAt:         now.Add(ttl),
		LastSentAt:        now,
		AttemptsRemaining: attempts,
		Status:            StatusPending,
	}
}

// ExpiredAt reports whether the session's expiry has passed at the given
// instant.
func (s *Session) ExpiredAt(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Matches compares a candidate code against the stored hash in constant
// time.
func (s *Session) Matches(code string) bool {
	return hmac.Equal([]byte(s.CodeHash), []byte(HashCode(code)))
}

// GenerateCode returns a random 6-digit code.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// HashCode returns the stored form of a code. Plaintext codes are never
// persisted or logged.
func HashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
