// Package cache provides byte-oriented storage backends for downloaded
// manifests.
//
// # Backends
//
//   - [FileCache]: flat directory of files named by key (the default)
//   - [RedisCache]: shared cache for several builders, e.g. CI runners
//   - [NullCache]: caching disabled
//
// [NewScoped] prefixes keys so several tools can share one Redis database.
//
// # Keys
//
// Manifest keys are file names such as "hibernate-core-4.0.0.Beta1.pom".
// The file backend stores entries under exactly that name so the cache
// directory stays readable and compatible with caches written by earlier
// site builds. Entries are never invalidated: a published manifest does
// not change.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte payloads under string keys.
//
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the stored bytes. hit is false when the key is absent.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl of 0 keeps the entry forever;
	// backends without expiry support ignore ttl.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
