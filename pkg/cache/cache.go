// Package cache memoizes layout results.
//
// A layout pass is a pure function of its deck and options, so results can
// be shared between CLI runs, API replicas, and workers. Keys are derived from
// the deck's content hash and every option that affects the output (see
// [Keyer]); the values are opaque JSON blobs.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for multiple API instances
//   - [MongoCache]: shared cache in a MongoDB collection
//   - [NullCache]: caching disabled
//
// [Open] picks a backend from a URL or directory path.
package cache

import (
	"context"
	"time"
)

// Default TTLs for cached entries.
const (
	// LayoutTTL is how long a computed layout stays cached.
	LayoutTTL = 7 * 24 * time.Hour
)

// Cache stores opaque byte values under string keys.
//
// Get reports a miss as (nil, false, nil); an error means the backend itself
// failed. A ttl of zero stores the entry without expiration.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// NullCache stores nothing. Every Get is a miss.
type NullCache struct{}

// NewNullCache returns a cache that disables caching.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
