package catalog

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/relcat/pkg/manifest"
)

// DefaultConcurrency bounds parallel series resolution.
const DefaultConcurrency = 4

// ProjectCoordinates names the artifact whose manifests describe a
// project's releases.
type ProjectCoordinates struct {
	GroupID    string `mapstructure:"group_id" json:"group_id" yaml:"group_id"`
	ArtifactID string `mapstructure:"artifact_id" json:"artifact_id" yaml:"artifact_id"`
}

// Known reports whether both ids are set.
func (c ProjectCoordinates) Known() bool {
	return c.GroupID != "" && c.ArtifactID != ""
}

// Resolver resolves the dependencies of one coordinate.
// [*manifest.Resolver] implements it.
type Resolver interface {
	Resolve(ctx context.Context, c manifest.Coordinate) (*manifest.Dependencies, error)
}

// AttachOptions configures [AttachDependencies].
type AttachOptions struct {
	Concurrency int         // Parallel series resolutions (default 4)
	Logger      *log.Logger // Progress logging (optional)
}

// AttachDependencies resolves the newest release of every displayed series
// of p and stores the result on that release. Other releases are left
// untouched. A release's own group_id overrides coords.GroupID.
//
// Nothing happens when coords is incomplete. The project is sorted first.
// The first resolver error cancels outstanding work and is returned; it
// returns the number of releases that received dependencies.
func AttachDependencies(ctx context.Context, p *Project, coords ProjectCoordinates, r Resolver, opts AttachOptions) (int, error) {
	if !coords.Known() {
		return 0, nil
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	limit := opts.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	SortProject(p)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	var attached atomic.Int32
	for _, s := range p.SortedSeries {
		release := s.Latest()
		if !s.IsDisplayed() || release == nil {
			continue
		}
		coord := manifest.Coordinate{
			GroupID:    coords.GroupID,
			ArtifactID: coords.ArtifactID,
			Version:    release.Version,
		}
		if release.GroupID != "" {
			coord.GroupID = release.GroupID
		}

		g.Go(func() error {
			deps, err := r.Resolve(gctx, coord)
			if err != nil {
				return fmt.Errorf("project %s series %s: %w", p.ID, s.Version, err)
			}
			release.Dependencies = deps
			attached.Add(1)
			logger.Debug("attached dependencies", "project", p.ID, "release", release.Version, "count", deps.Len())
			return nil
		})
	}

	err := g.Wait()
	return int(attached.Load()), err
}
