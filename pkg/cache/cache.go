// Package cache stores rendered documents keyed by a hash of everything
// that influences the output.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: one JSON entry file per key under a local directory
//   - [RedisCache]: a shared Redis server, for several serve instances
//   - [NullCache]: stores nothing, used with --no-cache
//
// Keys come from a [Keyer]. [NewScopedKeyer] prefixes every key so that
// several projects can share one Redis database.
package cache

import (
	"context"
	"time"
)

// TTLDocument is how long a rendered document stays cached.
const TTLDocument = 7 * 24 * time.Hour

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases connections held by the backend.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}
