// Package cache provides the metadata cache used to shield the YouTube API
// from repeated lookups. Two providers exist: an in-process memory cache and
// a shared redis cache.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys with a provider-defined
// TTL. A miss is not an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

const defaultTTL = time.Hour
