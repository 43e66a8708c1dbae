package auth

import (
	"context"
	"time"

	"github.com/pot-code/go-storefront/internal/infrastructure/driver"
)

const blacklistPrefix = "blacklist:"

// TokenBlacklist revoked session tokens, entries expire with the token
type TokenBlacklist struct {
	kv driver.KeyValueDB
}

// NewTokenBlacklist create a blacklist on top of kv
func NewTokenBlacklist(kv driver.KeyValueDB) *TokenBlacklist {
	return &TokenBlacklist{kv}
}

// Revoke blacklist token for ttl, a non-positive ttl is a no-op
func (tb *TokenBlacklist) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return tb.kv.SetEX(ctx, blacklistPrefix+token, "", ttl)
}

// Contains report whether token has been revoked
func (tb *TokenBlacklist) Contains(ctx context.Context, token string) (bool, error) {
	return tb.kv.Exists(ctx, blacklistPrefix+token)
}
