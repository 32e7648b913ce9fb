package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/relcat/pkg/buildinfo"
	"github.com/matzehuels/relcat/pkg/cache"
	"github.com/matzehuels/relcat/pkg/catalog"
	"github.com/matzehuels/relcat/pkg/integrations"
	"github.com/matzehuels/relcat/pkg/integrations/maven"
	"github.com/matzehuels/relcat/pkg/manifest"
	"github.com/matzehuels/relcat/pkg/observability"
)

// Runner encapsulates pipeline execution with manifest caching.
// Both the CLI and the server use it to avoid duplicating wiring.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Every Execute gets a fresh manifest store, so
// in-memory memoization never outlives a run while the persistent cache
// does.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger

	// Fetcher replaces the repository client when set.
	Fetcher manifest.Fetcher
}

// NewRunner creates a runner with the given cache.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Logger: logger,
	}
}

// Execute runs the complete scan → sort → attach pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{RunID: uuid.NewString()}
	logger := opts.Logger.With("run", result.RunID)
	opts.Logger = logger

	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, opts.DataDir)
	start := time.Now()

	cat, err := r.Build(ctx, opts)
	if err != nil {
		hooks.OnBuildComplete(ctx, opts.DataDir, 0, time.Since(start), err)
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Catalog = cat
	result.Stats.BuildTime = time.Since(start)
	countCatalog(cat, &result.Stats)

	logger.Info("built catalog",
		"projects", result.Stats.Projects,
		"releases", result.Stats.Releases,
		"duration", result.Stats.BuildTime)

	if !opts.SkipDependencies {
		resolveStart := time.Now()
		if err := r.attach(ctx, cat, opts, &result.Stats); err != nil {
			hooks.OnBuildComplete(ctx, opts.DataDir, result.Stats.Projects, time.Since(start), err)
			return nil, fmt.Errorf("attach: %w", err)
		}
		result.Stats.ResolveTime = time.Since(resolveStart)

		logger.Info("attached dependencies",
			"releases", result.Stats.Attached,
			"cache_hits", result.Stats.CacheHits,
			"downloads", result.Stats.Downloads,
			"unavailable", result.Stats.Failures,
			"duration", result.Stats.ResolveTime)
	}

	hooks.OnBuildComplete(ctx, opts.DataDir, result.Stats.Projects, time.Since(start), nil)
	return result, nil
}

// Build scans and sorts the catalog without resolving any manifest.
func (r *Runner) Build(ctx context.Context, opts Options) (*catalog.Catalog, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cat, err := catalog.Scan(opts.DataDir)
	if err != nil {
		return nil, err
	}
	catalog.SortCatalog(cat)
	return cat, nil
}

// Resolve resolves one coordinate with the run's strictness and cache.
func (r *Runner) Resolve(ctx context.Context, c manifest.Coordinate, opts Options) (*manifest.Dependencies, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	resolver, _, err := r.NewResolver(opts)
	if err != nil {
		return nil, err
	}
	return resolver.Resolve(ctx, c)
}

// NewResolver wires a repository client, a manifest store over the runner's
// cache and a resolver honoring opts' strictness.
func (r *Runner) NewResolver(opts Options) (*manifest.Resolver, *manifest.Store, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, err
	}

	fetcher := r.Fetcher
	if fetcher == nil {
		client, err := maven.NewClient(opts.RepositoryURL, integrations.Options{
			Timeout:  opts.HTTPTimeout,
			Attempts: opts.Retries,
			Headers:  map[string]string{"User-Agent": buildinfo.UserAgent()},
			Logger:   opts.Logger,
		})
		if err != nil {
			return nil, nil, err
		}
		fetcher = client
	}

	store := manifest.NewStore(fetcher, r.Cache, opts.Logger)
	resolver := manifest.NewResolver(store, manifest.Options{
		Strict: opts.IsStrict(),
		Logger: opts.Logger,
	})
	return resolver, store, nil
}

func (r *Runner) attach(ctx context.Context, cat *catalog.Catalog, opts Options, stats *Stats) error {
	resolver, store, err := r.NewResolver(opts)
	if err != nil {
		return err
	}
	defer func() {
		s := store.Stats()
		stats.CacheHits, stats.Downloads, stats.Failures = s.CacheHits, s.Downloads, s.Failures
	}()

	for _, id := range cat.ProjectIDs() {
		coords := opts.Coordinates(id)
		if !coords.Known() {
			opts.Logger.Debug("no manifest coordinates, skipping dependencies", "project", id)
			continue
		}
		p, _ := cat.Project(id)
		n, err := catalog.AttachDependencies(ctx, p, coords, resolver, catalog.AttachOptions{
			Concurrency: opts.Concurrency,
			Logger:      opts.Logger,
		})
		stats.Attached += n
		if err != nil {
			return err
		}
	}
	return nil
}

func countCatalog(cat *catalog.Catalog, stats *Stats) {
	stats.Projects = len(cat.Projects)
	for _, p := range cat.Projects {
		stats.Series += len(p.ReleaseSeries)
		stats.Releases += len(p.Releases)
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
