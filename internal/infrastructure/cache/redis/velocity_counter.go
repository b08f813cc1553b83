package redis

import (
	"context"
	"fmt"
	"time"
)

// counterStore is the slice of the client the counter needs. Narrowed so
// tests can inject store failures.
type counterStore interface {
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// VelocityCounter maintains fixed-window counters keyed by (scope, value).
// INCR is atomic server-side, so N concurrent increments for one key yield
// exactly N with no client-side locking.
type VelocityCounter struct {
	store counterStore
}

// NewVelocityCounter creates a velocity counter backed by the given client.
func NewVelocityCounter(client *Client) *VelocityCounter {
	return &VelocityCounter{store: client}
}

// Increment bumps the counter for (scope, value) and returns the
// post-increment count. The caller that observes count 1 opened the window
// and sets its TTL; every other concurrent caller reuses it, so the TTL is
// set exactly once per window. When setting the TTL fails, the key is
// dropped so a transient failure cannot leave a counter that never expires.
func (c *VelocityCounter) Increment(ctx context.Context, scope, value string, window time.Duration) (int64, error) {
	key := fmt.Sprintf("velocity:%s:%s", scope, value)

	count, err := c.store.Incr(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("failed to increment velocity counter: %w", err)
	}

	if count == 1 {
		if err := c.store.Expire(ctx, key, window); err != nil {
			_ = c.store.Del(ctx, key)
			return count, fmt.Errorf("failed to set counter window: %w", err)
		}
	}

	return count, nil
}
