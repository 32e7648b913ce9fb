// Package pipeline provides the catalog build pipeline for relcat.
//
// This package implements the complete scan → sort → attach pipeline that
// is shared by the CLI commands and the HTTP server. By centralizing this
// logic, every entry point applies the same defaults and strictness rules.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Build: walk the data directory and read release descriptors
//  2. Sort: order releases and series newest first
//  3. Attach: resolve manifests for the newest release of each displayed series
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    DataDir: "_data",
//	    Profile: "production",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	orm, _ := result.Catalog.Project("orm")
//
// Resolve a single coordinate:
//
//	deps, err := runner.Resolve(ctx, coord, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/relcat/pkg/catalog"
	"github.com/matzehuels/relcat/pkg/errors"
	"github.com/matzehuels/relcat/pkg/integrations"
	"github.com/matzehuels/relcat/pkg/integrations/maven"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultDataDir is the directory scanned for releases directories.
	DefaultDataDir = "_data"

	// DefaultProfile is the build profile when none is given.
	DefaultProfile = "development"

	// ProfileProduction makes every unavailable manifest fatal.
	ProfileProduction = "production"

	// DefaultRetries is the number of attempts per manifest download.
	DefaultRetries = 3

	// DefaultHTTPTimeout bounds one manifest download attempt.
	DefaultHTTPTimeout = integrations.DefaultTimeout

	// DefaultConcurrency bounds parallel series resolution per project.
	DefaultConcurrency = catalog.DefaultConcurrency
)

// DefaultRepositoryURL is the manifest repository used when none is configured.
const DefaultRepositoryURL = maven.DefaultRepositoryURL

// DefaultProjects maps the known project ids to the artifact whose
// manifests describe their releases.
func DefaultProjects() map[string]catalog.ProjectCoordinates {
	return map[string]catalog.ProjectCoordinates{
		"ogm":       {GroupID: "org.hibernate.ogm", ArtifactID: "hibernate-ogm-core"},
		"orm":       {GroupID: "org.hibernate", ArtifactID: "hibernate-core"},
		"search":    {GroupID: "org.hibernate", ArtifactID: "hibernate-search"},
		"validator": {GroupID: "org.hibernate", ArtifactID: "hibernate-validator"},
	}
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
type Options struct {
	DataDir       string        `json:"data_dir"`
	RepositoryURL string        `json:"repository_url,omitempty"`
	Profile       string        `json:"profile,omitempty"`
	Strict        bool          `json:"strict,omitempty"` // Forces strict mode regardless of profile
	Concurrency   int           `json:"concurrency,omitempty"`
	HTTPTimeout   time.Duration `json:"http_timeout,omitempty"`
	Retries       int           `json:"retries,omitempty"`

	// Projects overrides or extends DefaultProjects. An entry with neither
	// id set removes the default for that project.
	Projects map[string]catalog.ProjectCoordinates `json:"projects,omitempty"`

	// SkipDependencies builds and sorts the catalog without manifest resolution.
	SkipDependencies bool `json:"skip_dependencies,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in logs.
	RunID string

	// Catalog is the sorted catalog.
	Catalog *catalog.Catalog

	// Stats contains timing and count information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Projects  int
	Series    int
	Releases  int
	Attached  int // Releases that received dependency data
	CacheHits int64
	Downloads int64
	Failures  int64 // Manifests that could not be fetched

	BuildTime   time.Duration
	ResolveTime time.Duration
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.DataDir == "" {
		o.DataDir = DefaultDataDir
	}
	if err := errors.ValidatePath(o.DataDir); err != nil {
		return err
	}
	if o.RepositoryURL == "" {
		o.RepositoryURL = DefaultRepositoryURL
	}
	if err := errors.ValidateURL(o.RepositoryURL); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "repository_url")
	}
	if o.Profile == "" {
		o.Profile = DefaultProfile
	}
	if o.Concurrency < 0 || o.Retries < 0 || o.HTTPTimeout < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "concurrency, retries and http_timeout must not be negative")
	}
	if o.Concurrency == 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.Retries == 0 {
		o.Retries = DefaultRetries
	}
	if o.HTTPTimeout == 0 {
		o.HTTPTimeout = DefaultHTTPTimeout
	}

	projects := DefaultProjects()
	for id, c := range o.Projects {
		if c.GroupID == "" && c.ArtifactID == "" {
			delete(projects, id)
			continue
		}
		projects[id] = c
	}
	o.Projects = projects

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// IsStrict reports whether unavailable manifests abort the run.
func (o *Options) IsStrict() bool {
	return o.Strict || o.Profile == ProfileProduction
}

// Coordinates returns the manifest coordinates configured for a project.
func (o *Options) Coordinates(projectID string) catalog.ProjectCoordinates {
	return o.Projects[projectID]
}

// ValidateFormat checks that an export format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: json, yaml, toml)", format)
	}
	return nil
}

// Format constants for catalog exports.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// ValidFormats is the set of supported export formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatYAML: true,
	FormatTOML: true,
}
