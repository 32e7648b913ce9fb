package manifest

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/relcat/pkg/observability"
)

// Source supplies parsed manifests. [*Store] implements it.
type Source interface {
	Fetch(ctx context.Context, c Coordinate) (*Document, error)
}

// Options configures a [Resolver].
type Options struct {
	// Strict turns an unavailable manifest into an error instead of an
	// empty result.
	Strict bool

	// Logger receives warnings about degraded resolutions (optional).
	Logger *log.Logger
}

// Resolver computes the dependency versions of a release from its manifest
// and at most one parent manifest.
type Resolver struct {
	source Source
	strict bool
	logger *log.Logger
}

// NewResolver creates a Resolver reading manifests from source.
func NewResolver(source Source, opts Options) *Resolver {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Resolver{source: source, strict: opts.Strict, logger: logger}
}

// Strict reports whether unavailable manifests are fatal.
func (r *Resolver) Strict() bool { return r.strict }

// Resolve returns the merged properties and dependency versions for c.
//
// The parent manifest, when declared, is processed before c's own manifest,
// so parent properties are visible to the child's placeholders and parent
// declarations win over child redeclarations. The parent's own parent is not
// followed.
//
// When a manifest cannot be fetched, Resolve returns the *FetchError in
// strict mode. Otherwise it logs a warning and continues: a missing own
// manifest yields empty Dependencies, a missing parent contributes nothing.
func (r *Resolver) Resolve(ctx context.Context, c Coordinate) (deps *Dependencies, err error) {
	hooks := observability.Pipeline()
	hooks.OnResolveStart(ctx, c.String())
	start := time.Now()
	defer func() {
		hooks.OnResolveComplete(ctx, c.String(), deps.Len(), time.Since(start), err)
	}()

	deps = NewDependencies()

	doc, err := r.source.Fetch(ctx, c)
	if err != nil {
		return r.degrade(deps, c, err)
	}

	if doc.Parent != nil {
		parent, err := r.source.Fetch(ctx, *doc.Parent)
		if err != nil {
			if _, err := r.degrade(deps, *doc.Parent, err); err != nil {
				return nil, err
			}
		} else {
			deps.apply(parent)
		}
	}

	deps.apply(doc)
	return deps, nil
}

func (r *Resolver) degrade(deps *Dependencies, c Coordinate, err error) (*Dependencies, error) {
	if r.strict {
		return nil, err
	}
	r.logger.Warn("manifest unavailable, continuing without its dependency data",
		"coordinate", c, "err", err)
	return deps, nil
}
