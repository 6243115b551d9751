package cache

import (
	"context"
	"time"
)

// Store is the keyed TTL store behind provider response caching and the
// fixed-window request quotas. Incr must be atomic: concurrent callers for
// the same key each observe a distinct count.
type Store interface {
	// GetJSON unmarshals the cached value into dest. The second return is
	// false when the key is absent or expired.
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)

	// SetJSON stores the JSON encoding of value for ttl.
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Incr increments the counter at key and returns the new count. The
	// first increment starts the ttl window; the counter disappears when
	// the window closes.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}
