// Package cache provides byte-level caching for layouts and rendered
// artifacts.
//
// # Backends
//
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: JSON entry files under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//
// # Keys
//
// A [Keyer] derives keys from content hashes, so identical package sets
// share cache entries regardless of where they were loaded from:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.LayoutKey(cache.Hash(setJSON), cache.LayoutKeyOpts{Config: layered.CompactConfig})
//	data, hit, err := c.Get(ctx, key)
//
// [NewScopedKeyer] prefixes every key, which keeps several deployments
// apart when they share one Redis.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values with an optional time to live.
// A ttl of zero means the entry does not expire.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default time-to-live values per entry kind.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
	TTLRegistry = 5 * time.Minute
)
