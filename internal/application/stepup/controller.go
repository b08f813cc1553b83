package stepup

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jihosong-sjh/ShopFDS-sub000/internal/domain/stepup"
	"github.com/jihosong-sjh/ShopFDS-sub000/internal/infrastructure/notify"
	"github.com/jihosong-sjh/ShopFDS-sub000/internal/pkg/metrics"
)

// Controller runs the step-up lifecycle against a session store. now is a
// field so tests can control the clock.
type Controller struct {
	store  Store
	sender notify.CodeSender
	logger *zap.Logger

	ttl            time.Duration
	maxAttempts    int
	resendCooldown time.Duration

	now func() time.Time
}

// NewController creates a step-up controller.
func NewController(store Store, sender notify.CodeSender, logger *zap.Logger, ttl time.Duration, maxAttempts int, resendCooldown time.Duration) *Controller {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if resendCooldown <= 0 {
		resendCooldown = time.Minute
	}
	return &Controller{
		store:          store,
		sender:         sender,
		logger:         logger,
		ttl:            ttl,
		maxAttempts:    maxAttempts,
		resendCooldown: resendCooldown,
		now:            time.Now,
	}
}

// Issue creates and delivers a challenge for the transaction. Issuing twice
// for the same transaction returns the existing session unchanged; the
// atomic create decides the winner when two instances race.
func (c *Controller) Issue(ctx context.Context, transactionID uuid.UUID, recipient string) (*stepup.Session, error) {
	code, err := stepup.GenerateCode()
	if err != nil {
		return nil, err
	}

	now := c.now()
	session := stepup.NewSession(transactionID, recipient, stepup.HashCode(code), now, c.ttl, c.maxAttempts)

	created, err := c.store.Create(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("failed to create otp session: %w", err)
	}
	if !created {
		// Lost the race or repeat evaluation; the existing challenge stands.
		return c.store.Get(ctx, transactionID)
	}

	if err := c.sender.SendCode(ctx, recipient, code); err != nil {
		c.logger.Error("otp delivery failed",
			zap.String("transaction_id", transactionID.String()),
			zap.Error(err))
		return session, fmt.Errorf("failed to deliver otp code: %w", err)
	}

	metrics.OtpEvents.WithLabelValues("issued").Inc()
	c.logger.Info("otp session issued",
		zap.String("transaction_id", transactionID.String()),
		zap.Time("expires_at", session.ExpiresAt))
	return session, nil
}

// Verify checks a submitted code. Wrong codes consume one attempt each; the
// attempt that empties the budget marks the session exhausted. Expired and
// exhausted sessions reject without consuming anything.
func (c *Controller) Verify(ctx context.Context, transactionID uuid.UUID, code string) (*stepup.Session, error) {
	session, err := c.store.Get(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	switch session.Status {
	case stepup.StatusVerified:
		return session, stepup.ErrSessionVerified
	case stepup.StatusExhausted:
		return session, stepup.ErrSessionExhausted
	case stepup.StatusExpired:
		return session, stepup.ErrSessionExpired
	}

	now := c.now()
	if session.ExpiredAt(now) {
		session.Status = stepup.StatusExpired
		if err := c.store.Update(ctx, session); err != nil {
			return nil, err
		}
		metrics.OtpEvents.WithLabelValues("expired").Inc()
		return session, stepup.ErrSessionExpired
	}

	if !session.Matches(code) {
		session.AttemptsRemaining--
		if session.AttemptsRemaining <= 0 {
			session.AttemptsRemaining = 0
			session.Status = stepup.StatusExhausted
		}
		if err := c.store.Update(ctx, session); err != nil {
			return nil, err
		}
		if session.Status == stepup.StatusExhausted {
			metrics.OtpEvents.WithLabelValues("exhausted").Inc()
			c.logger.Warn("otp attempts exhausted",
				zap.String("transaction_id", transactionID.String()))
			return session, stepup.ErrSessionExhausted
		}
		return session, stepup.ErrInvalidCode
	}

	session.Status = stepup.StatusVerified
	if err := c.store.Update(ctx, session); err != nil {
		return nil, err
	}
	metrics.OtpEvents.WithLabelValues("verified").Inc()
	c.logger.Info("otp verified",
		zap.String("transaction_id", transactionID.String()))
	return session, nil
}

// Resend issues a fresh code for a pending session once the cooldown has
// elapsed. The new code gets a full TTL and goes to the recipient pinned at
// issue time; remaining attempts carry over untouched so resending can
// never stretch the attempt budget.
func (c *Controller) Resend(ctx context.Context, transactionID uuid.UUID) (*stepup.Session, error) {
	session, err := c.store.Get(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	switch session.Status {
	case stepup.StatusVerified:
		return session, stepup.ErrSessionVerified
	case stepup.StatusExhausted:
		return session, stepup.ErrSessionExhausted
	case stepup.StatusExpired:
		return session, stepup.ErrSessionExpired
	}

	now := c.now()
	if session.ExpiredAt(now) {
		session.Status = stepup.StatusExpired
		if err := c.store.Update(ctx, session); err != nil {
			return nil, err
		}
		metrics.OtpEvents.WithLabelValues("expired").Inc()
		return session, stepup.ErrSessionExpired
	}

	if now.Sub(session.LastSentAt) < c.resendCooldown {
		return session, stepup.ErrResendTooSoon
	}

	code, err := stepup.GenerateCode()
	if err != nil {
		return nil, err
	}

	session.CodeHash = stepup.HashCode(code)
	session.ExpiresAt = now.Add(c.ttl)
	session.LastSentAt = now
	if err := c.store.Update(ctx, session); err != nil {
		return nil, err
	}

	if err := c.sender.SendCode(ctx, session.Recipient, code); err != nil {
		c.logger.Error("otp redelivery failed",
			zap.String("transaction_id", transactionID.String()),
			zap.Error(err))
		return session, fmt.Errorf("failed to deliver otp code: %w", err)
	}

	metrics.OtpEvents.WithLabelValues("resent").Inc()
	c.logger.Info("otp code resent",
		zap.String("transaction_id", transactionID.String()),
		zap.Time("expires_at", session.ExpiresAt))
	return session, nil
}
