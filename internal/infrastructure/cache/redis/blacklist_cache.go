package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/jihosong-sjh/ShopFDS-sub000/internal/domain/risk"
)

// BlacklistCache stores banned values with per-entry TTLs tied to threat
// severity. Lookups are advisory: when the store is unreachable, Check
// degrades to not-blacklisted rather than blocking every transaction.
type BlacklistCache struct {
	client *Client
	logger *zap.Logger
}

// NewBlacklistCache creates a blacklist cache backed by the given client.
func NewBlacklistCache(client *Client, logger *zap.Logger) *BlacklistCache {
	return &BlacklistCache{client: client, logger: logger}
}

func blacklistKey(t risk.BlacklistType, value string) string {
	return fmt.Sprintf("blacklist:%s:%s", t, value)
}

// Check reports whether value is blacklisted. Store errors fail open.
func (c *BlacklistCache) Check(ctx context.Context, t risk.BlacklistType, value string) (bool, *risk.BlacklistEntry) {
	raw, err := c.client.Get(ctx, blacklistKey(t, value))
	if err != nil {
		if !IsNil(err) {
			c.logger.Warn("blacklist check failed, treating as not blacklisted",
				zap.String("type", string(t)),
				zap.Error(err))
		}
		return false, nil
	}

	var entry risk.BlacklistEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		c.logger.Warn("malformed blacklist entry, treating as not blacklisted",
			zap.String("key", blacklistKey(t, value)),
			zap.Error(err))
		return false, nil
	}

	return true, &entry
}

// Add stores an entry with the TTL its threat level dictates. Permanent
// entries are stored without TTL and never auto-expire.
func (c *BlacklistCache) Add(ctx context.Context, entry *risk.BlacklistEntry) error {
	if !entry.ThreatLevel.Valid() {
		return risk.ErrInvalidThreatLevel
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode blacklist entry: %w", err)
	}

	ttl, expires := entry.ThreatLevel.TTL()
	if !expires {
		ttl = 0
	}

	if err := c.client.Set(ctx, blacklistKey(entry.Type, entry.Value), raw, ttl); err != nil {
		return fmt.Errorf("%w: %v", risk.ErrBlacklistUnavailable, err)
	}
	return nil
}

// Remove deletes an entry regardless of its TTL.
func (c *BlacklistCache) Remove(ctx context.Context, t risk.BlacklistType, value string) error {
	if err := c.client.Del(ctx, blacklistKey(t, value)); err != nil {
		return fmt.Errorf("%w: %v", risk.ErrBlacklistUnavailable, err)
	}
	return nil
}
