// Package stepup orchestrates the OTP step-up lifecycle: issue on demand,
// verify with a bounded attempt budget, resend under a cooldown.
package stepup

import (
	"context"

	"github.com/google/uuid"

	"github.com/jihosong-sjh/ShopFDS-sub000/internal/domain/stepup"
)

// Store persists OTP sessions. Create must be atomic: when two instances
// race to issue for the same transaction, exactly one wins.
type Store interface {
	Create(ctx context.Context, session *stepup.Session) (bool, error)
	Get(ctx context.Context, transactionID uuid.UUID) (*stepup.Session, error)
	Update(ctx context.Context, session *stepup.Session) error
}
