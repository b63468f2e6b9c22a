// Package cache provides the TTL key/value capability behind the attempt
// tracker and the session slot. RedisStore is used in deployments;
// MemoryStore backs tests and single-node runs without Redis.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired
var ErrMiss = errors.New("cache: key not found")

// Store is the subset of Redis semantics the login gate relies on.
// Incr on an absent key creates it with value 1 and no expiry.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	SetEx(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
}
