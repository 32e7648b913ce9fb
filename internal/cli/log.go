// Package cli implements the relcat command-line interface.
//
// The commands build a release catalog from a data directory and expose it
// in several ways. The CLI is built using cobra and logs through
// charmbracelet/log; --verbose (-v) switches to debug level and --log-file
// mirrors logs into a size-rotated file.
//
// # Commands
//
//   - build: Build the catalog and print a per-project summary
//   - export: Write the catalog as JSON, YAML or TOML
//   - resolve: Resolve the dependencies of one Maven coordinate
//   - graph: Draw a project or series as DOT or SVG
//   - browse: Explore the catalog interactively
//   - serve: Serve the catalog over a read-only JSON API
//   - publish: Upsert the catalog into MongoDB
//   - config: Print the effective configuration
//   - cache: Manage the manifest cache
//
// # Configuration
//
// Settings come from relcat.yaml, RELCAT_* environment variables and flags,
// in increasing precedence. See package config.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Built catalog of 4 projects (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
