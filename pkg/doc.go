// Package pkg provides the libraries behind relcat, a release catalog
// builder for projects that publish Maven artifacts.
//
// # Overview
//
// A data directory holds one <project>/releases tree per project, with a
// YAML descriptor per release. relcat turns those trees into a catalog of
// release series ordered newest first, and attaches to the newest release of
// every displayed series the dependency versions declared by its Maven POM.
//
// # Architecture
//
// The data flow through relcat:
//
//	<project>/releases/**/*.yml
//	         ↓
//	    [catalog] package (scan, build, sort)
//	         ↓
//	    [manifest] package (fetch POM + parent, substitute properties)
//	         ↓
//	    [catalog.AttachDependencies]
//	         ↓
//	    export, HTTP API, MongoDB, diagrams
//
// # Quick Start
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil)
//	res, err := runner.Execute(ctx, pipeline.Options{DataDir: "_data"})
//	if err != nil {
//	    return err
//	}
//	orm, _ := res.Catalog.Project("orm")
//	fmt.Println(orm.Latest().Version)
//
// # Main Packages
//
// ## Domain
//
// [version] - Release version keys ("5.1.2.Beta4") and their ordering.
//
// [catalog] - Projects, series and releases; descriptor parsing for the
// series-grouped and legacy flat layouts; sorting; dependency attachment.
//
// [manifest] - POM parsing, the per-run manifest store with single-flight
// downloads over a persistent cache, and parent-aware resolution.
//
// ## Infrastructure
//
// [pipeline] - Scan, sort and attach in one run. Used by the CLI and the server.
//
// [cache] - Manifest caches: file (flock guarded), Redis, and a no-op cache.
//
// [integrations] - Shared HTTP client with retries; [integrations/maven]
// fetches POMs from a Maven repository.
//
// [errors] - Coded errors and input validation.
//
// [observability] - Hooks for builds, resolutions, cache and HTTP events.
//
// ## Outputs
//
// [io] - JSON, YAML and TOML exports.
//
// [server] - Read-only JSON API with optional rebuild on file changes.
//
// [publish] - MongoDB upserts, one document per project.
//
// [render/nodelink] - DOT and SVG diagrams of projects and series.
//
// [version]: https://pkg.go.dev/github.com/matzehuels/relcat/pkg/version
// [catalog]: https://pkg.go.dev/github.com/matzehuels/relcat/pkg/catalog
// [catalog.AttachDependencies]: https://pkg.go.dev/github.com/matzehuels/relcat/pkg/catalog#AttachDependencies
// [manifest]: https://pkg.go.dev/github.com/matzehuels/relcat/pkg/manifest
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/relcat/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/relcat/pkg/cache
// [integrations]: https://pkg.go.dev/github.com/matzehuels/relcat/pkg/integrations
// [integrations/maven]: https://pkg.go.dev/github.com/matzehuels/relcat/pkg/integrations/maven
// [errors]: https://pkg.go.dev/github.com/matzehuels/relcat/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/relcat/pkg/observability
// [io]: https://pkg.go.dev/github.com/matzehuels/relcat/pkg/io
// [server]: https://pkg.go.dev/github.com/matzehuels/relcat/pkg/server
// [publish]: https://pkg.go.dev/github.com/matzehuels/relcat/pkg/publish
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/relcat/pkg/render/nodelink
package pkg
