package utils

import (
	"context"
	"time"
)

const blacklistPrefix = "jwt:blacklist:"

// TokenBlacklist remembers revoked tokens until their natural expiry so logout
// takes effect before the token times out. It shares the page cache backend.
type TokenBlacklist struct {
	store PageCache
}

func NewTokenBlacklist(store PageCache) *TokenBlacklist {
	return &TokenBlacklist{store: store}
}

// Revoke stores the token until expiresAt. Already expired tokens are ignored.
func (b *TokenBlacklist) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return b.store.Set(ctx, blacklistPrefix+token, []byte("1"), ttl)
}

// IsRevoked reports whether the token was revoked. Store errors read as not revoked
// to avoid locking everyone out when the cache is down.
func (b *TokenBlacklist) IsRevoked(ctx context.Context, token string) bool {
	_, ok := b.store.Get(ctx, blacklistPrefix+token)
	return ok
}
