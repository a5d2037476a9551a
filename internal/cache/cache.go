// Package cache provides the key/value store with expiry used to memoize
// country lookups. Values are opaque strings; callers that need to memoize
// "no result" store their own sentinel value, which keeps a cached negative
// distinct from a plain miss.
package cache

import (
	"context"
	"time"
)

type Cache interface {
	// Get returns the cached value for key. ok is false on a miss or an
	// expired entry.
	Get(ctx context.Context, key string) (value string, ok bool)

	// Set stores value under key for ttl. A ttl <= 0 stores nothing.
	Set(ctx context.Context, key, value string, ttl time.Duration)
}
