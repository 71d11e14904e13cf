package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevokedTokens is the logout revocation list backed by Redis.
// Key format: revoked:<jti>, expiring with the token itself.
type RevokedTokens struct {
	client *redis.Client
}

// NewRevokedTokens creates a RevokedTokens wrapping the given Redis client.
func NewRevokedTokens(client *redis.Client) *RevokedTokens {
	return &RevokedTokens{client: client}
}

// Revoke lists the token id until ttl elapses; after that the token has
// expired on its own and the entry is no longer needed.
func (r *RevokedTokens) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return r.client.Set(ctx, r.key(jti), "1", ttl).Err()
}

// IsRevoked reports whether the token id has been logged out.
func (r *RevokedTokens) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

func (r *RevokedTokens) key(jti string) string {
	return "revoked:" + jti
}
