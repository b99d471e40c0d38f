package auth

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Revoker stores the ids of tokens that were logged out before expiry.
type Revoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// NopRevoker is used when no Redis is configured: logout is accepted but
// tokens stay valid until they expire.
type NopRevoker struct{}

func (NopRevoker) Revoke(context.Context, string, time.Duration) error { return nil }
func (NopRevoker) IsRevoked(context.Context, string) (bool, error)     { return false, nil }

// RedisRevoker keeps one key per revoked token, expiring with the token.
type RedisRevoker struct {
	rdb    *goredis.Client
	prefix string
}

// NewRedisRevoker connects to addr and pings it. The client is closed if the
// ping fails.
func NewRedisRevoker(ctx context.Context, addr string) (*RedisRevoker, error) {
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("auth.NewRedisRevoker: ping %s: %w", addr, err)
	}
	return &RedisRevoker{rdb: rdb, prefix: "revoked:"}, nil
}

func (r *RedisRevoker) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return r.rdb.Set(ctx, r.prefix+tokenID, 1, ttl).Err()
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.rdb.Exists(ctx, r.prefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Close releases the Redis connection pool.
func (r *RedisRevoker) Close() error {
	return r.rdb.Close()
}
