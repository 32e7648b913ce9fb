package manifest

import (
	"context"
	"io"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/relcat/pkg/cache"
	"github.com/matzehuels/relcat/pkg/errors"
	"github.com/matzehuels/relcat/pkg/observability"
)

// Fetcher downloads raw manifests. [maven.Client] implements it.
//
// [maven.Client]: github.com/matzehuels/relcat/pkg/integrations/maven.Client
type Fetcher interface {
	FetchPOM(ctx context.Context, groupID, artifactID, version string) ([]byte, error)
}

// FetchError reports that a manifest could not be obtained. It carries the
// MANIFEST_UNAVAILABLE code; whether it is fatal is up to the caller.
type FetchError struct {
	Coordinate Coordinate
	Err        error
}

func (e *FetchError) Error() string { return e.Err.Error() }
func (e *FetchError) Unwrap() error { return e.Err }

func newFetchError(c Coordinate, cause error) *FetchError {
	return &FetchError{
		Coordinate: c,
		Err:        errors.Wrap(errors.ErrCodeManifestUnavailable, cause, "manifest %s unavailable", c),
	}
}

// Stats counts how Store requests were served.
type Stats struct {
	CacheHits int64
	Downloads int64
	Failures  int64
}

type result struct {
	doc *Document
	err error
}

// Store fetches manifests through a persistent cache.
//
// Concurrent requests for one coordinate share a single fetch, and every
// outcome is memoized for the lifetime of the Store, so one Store should
// serve one catalog build. Successfully downloaded manifests are written to
// the cache in normalized form; failures are never persisted.
//
// All methods are safe for concurrent use.
type Store struct {
	fetcher Fetcher
	cache   cache.Cache
	logger  *log.Logger

	group singleflight.Group
	mu    sync.Mutex
	memo  map[string]result

	hits, downloads, failures atomic.Int64
}

// NewStore creates a Store. A nil cache disables persistence and a nil
// logger discards output.
func NewStore(fetcher Fetcher, c cache.Cache, logger *log.Logger) *Store {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{
		fetcher: fetcher,
		cache:   c,
		logger:  logger,
		memo:    make(map[string]result),
	}
}

// Fetch returns the manifest for c. On failure the error is a *FetchError.
func (s *Store) Fetch(ctx context.Context, c Coordinate) (*Document, error) {
	key := c.String()
	if r, ok := s.lookup(key); ok {
		return r.doc, r.err
	}

	v, _, _ := s.group.Do(key, func() (any, error) {
		if r, ok := s.lookup(key); ok {
			return r, nil
		}
		doc, err := s.load(ctx, c)
		r := result{doc: doc, err: err}
		s.mu.Lock()
		s.memo[key] = r
		s.mu.Unlock()
		return r, nil
	})
	r := v.(result)
	return r.doc, r.err
}

// Stats returns a snapshot of the request counters.
func (s *Store) Stats() Stats {
	return Stats{
		CacheHits: s.hits.Load(),
		Downloads: s.downloads.Load(),
		Failures:  s.failures.Load(),
	}
}

func (s *Store) lookup(key string) (result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.memo[key]
	return r, ok
}

func (s *Store) load(ctx context.Context, c Coordinate) (*Document, error) {
	if err := c.Validate(); err != nil {
		s.failures.Add(1)
		return nil, newFetchError(c, err)
	}

	name := c.FileName()
	hooks := observability.Cache()

	data, hit, err := s.cache.Get(ctx, name)
	if err != nil {
		s.logger.Debug("cache read failed", "key", name, "err", err)
	}
	if hit {
		doc, err := Parse(data)
		if err == nil {
			s.hits.Add(1)
			hooks.OnCacheHit(ctx, "manifest")
			s.logger.Info("cache hit", "coordinate", c)
			return doc, nil
		}
		s.logger.Warn("discarding unreadable cached manifest", "key", name, "err", err)
	}
	hooks.OnCacheMiss(ctx, "manifest")

	s.logger.Info("downloading", "coordinate", c)
	raw, err := s.fetcher.FetchPOM(ctx, c.GroupID, c.ArtifactID, c.Version)
	if err != nil {
		s.failures.Add(1)
		return nil, newFetchError(c, err)
	}
	doc, err := Parse(raw)
	if err != nil {
		s.failures.Add(1)
		return nil, newFetchError(c, err)
	}
	s.downloads.Add(1)

	normalized, err := doc.Encode()
	if err == nil {
		err = s.cache.Set(ctx, name, normalized, 0)
	}
	if err != nil {
		s.logger.Warn("could not cache manifest", "key", name, "err", err)
	} else {
		hooks.OnCacheSet(ctx, "manifest", len(normalized))
	}
	return doc, nil
}
