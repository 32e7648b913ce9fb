package cache

import (
	"context"
	"time"
)

// Scoped wraps a Cache and prefixes every key.
// This is useful when several tools or sites share one Redis database.
//
// Example usage:
//
//	// Keys become "relcat:pom:hibernate-core-5.0.0.Final.pom"
//	poms := NewScoped(redisCache, "relcat:pom:")
type Scoped struct {
	inner  Cache
	prefix string
}

// NewScoped creates a cache view with a key prefix.
// If inner is nil, a NullCache is used.
func NewScoped(inner Cache, prefix string) Cache {
	if inner == nil {
		inner = NewNullCache()
	}
	return &Scoped{
		inner:  inner,
		prefix: prefix,
	}
}

// Get reads the prefixed key from the inner cache.
func (s *Scoped) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

// Set writes the prefixed key to the inner cache.
func (s *Scoped) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return s.inner.Set(ctx, s.prefix+key, data, ttl)
}

// Delete removes the prefixed key from the inner cache.
func (s *Scoped) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}

// Close closes the inner cache.
func (s *Scoped) Close() error {
	return s.inner.Close()
}

var _ Cache = (*Scoped)(nil)
