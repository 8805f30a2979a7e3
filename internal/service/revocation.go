package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mycareerchoices/compass-backend/internal/config"
	"github.com/redis/go-redis/v9"
)

// TokenDenylist records revoked token IDs until their natural expiry.
type TokenDenylist interface {
	// Revoke marks a JTI as revoked. The entry may be dropped once
	// expiresAt has passed, since the token is rejected on expiry anyway.
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RedisDenylist stores revocations as TTL keys so entries expire together
// with the tokens they block.
type RedisDenylist struct {
	rdb *redis.Client
}

// NewRedisDenylist creates a Redis-backed denylist.
func NewRedisDenylist(rdb *redis.Client) *RedisDenylist {
	return &RedisDenylist{rdb: rdb}
}

func (d *RedisDenylist) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Already expired; nothing to block.
		return nil
	}
	key := config.CacheKey.RevokedTokenKey(jti)
	if err := d.rdb.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("store revocation: %w", err)
	}
	return nil
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	key := config.CacheKey.RevokedTokenKey(jti)
	_, err := d.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("check revocation: %w", err)
	}
	return true, nil
}

// MemoryDenylist is an in-process denylist for tests and single-node runs
// without Redis. Expired entries are purged lazily on each call.
type MemoryDenylist struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

// NewMemoryDenylist creates an empty in-memory denylist.
func NewMemoryDenylist() *MemoryDenylist {
	return &MemoryDenylist{entries: make(map[string]time.Time)}
}

func (d *MemoryDenylist) Revoke(_ context.Context, jti string, expiresAt time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.purgeLocked()
	if time.Now().Before(expiresAt) {
		d.entries[jti] = expiresAt
	}
	return nil
}

func (d *MemoryDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.purgeLocked()
	_, revoked := d.entries[jti]
	return revoked, nil
}

func (d *MemoryDenylist) purgeLocked() {
	now := time.Now()
	for jti, expiresAt := range d.entries {
		if now.After(expiresAt) {
			delete(d.entries, jti)
		}
	}
}
