package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jihosong-sjh/ShopFDS-sub000/internal/domain/stepup"
)

// Retention past expiry so expired sessions stay observable to Verify
// before the key is reclaimed.
const otpRetentionGrace = time.Hour

// OtpStore persists step-up sessions in the distributed cache so any
// instance can verify a code issued by another.
type OtpStore struct {
	client *Client
}

// NewOtpStore creates a Redis-backed OTP session store.
func NewOtpStore(client *Client) *OtpStore {
	return &OtpStore{client: client}
}

func otpKey(transactionID uuid.UUID) string {
	return fmt.Sprintf("otp:session:%s", transactionID)
}

// Create stores a new session only if none exists for the transaction.
// Returns false when a session was already present (idempotent issue).
func (s *OtpStore) Create(ctx context.Context, session *stepup.Session) (bool, error) {
	raw, err := json.Marshal(session)
	if err != nil {
		return false, fmt.Errorf("failed to encode otp session: %w", err)
	}

	created, err := s.client.SetNX(ctx, otpKey(session.TransactionID), raw, time.Until(session.ExpiresAt)+otpRetentionGrace)
	if err != nil {
		return false, fmt.Errorf("failed to store otp session: %w", err)
	}
	return created, nil
}

// Get loads the session for a transaction.
func (s *OtpStore) Get(ctx context.Context, transactionID uuid.UUID) (*stepup.Session, error) {
	raw, err := s.client.Get(ctx, otpKey(transactionID))
	if err != nil {
		if IsNil(err) {
			return nil, stepup.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load otp session: %w", err)
	}

	var session stepup.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, fmt.Errorf("failed to decode otp session: %w", err)
	}
	return &session, nil
}

// Update overwrites the stored session, extending retention to match any
// refreshed expiry.
func (s *OtpStore) Update(ctx context.Context, session *stepup.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode otp session: %w", err)
	}

	if err := s.client.Set(ctx, otpKey(session.TransactionID), raw, time.Until(session.ExpiresAt)+otpRetentionGrace); err != nil {
		return fmt.Errorf("failed to store otp session: %w", err)
	}
	return nil
}
