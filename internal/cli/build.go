package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/relcat/pkg/catalog"
	"github.com/matzehuels/relcat/pkg/pipeline"
)

// buildCommand creates the build command.
func (c *CLI) buildCommand() *cobra.Command {
	var noDeps bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the release catalog and print a summary",
		Long: `Build the release catalog from the data directory.

Every <project>/releases directory below --data-dir is read. Releases are
ordered newest first and the newest release of every displayed series gets
the dependencies of its Maven POM. Downloaded POMs are cached, so later runs
work offline.

In the production profile, or with --strict, an unavailable POM aborts the
build. Otherwise it is logged and the release keeps no dependencies.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.execute(cmd.Context(), noDeps)
			if err != nil {
				return err
			}
			printCatalogSummary(c.Out, res)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noDeps, "no-deps", false, "skip dependency resolution")
	addPipelineFlags(cmd)
	return cmd
}

// execute runs the pipeline with the loaded configuration.
func (c *CLI) execute(ctx context.Context, noDeps bool) (*pipeline.Result, error) {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := c.pipelineOptions()
	opts.SkipDependencies = noDeps

	prog := newProgress(c.Logger)
	spinner := newSpinner(ctx, c.Err, "Building catalog...")
	spinner.Start()

	res, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Build failed")
		return nil, err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Built catalog of %d projects", res.Stats.Projects))
	return res, nil
}

// printCatalogSummary prints one table row per project and the run stats.
func printCatalogSummary(w io.Writer, res *pipeline.Result) {
	t := newTable("Project", "Releases", "Series", "Latest", "With deps")
	for _, id := range res.Catalog.ProjectIDs() {
		p, _ := res.Catalog.Project(id)
		latest := "-"
		if r := p.Latest(); r != nil {
			latest = r.Version
		}
		t.Row(id,
			strconv.Itoa(len(p.Releases)),
			strconv.Itoa(len(p.ReleaseSeries)),
			latest,
			strconv.Itoa(countWithDependencies(p)))
	}
	fmt.Fprintln(w, t.Render())

	s := res.Stats
	printSuccess(w, "%d projects, %d series, %d releases", s.Projects, s.Series, s.Releases)
	if s.Attached > 0 || s.Downloads > 0 || s.CacheHits > 0 {
		printDetail(w, "%d cached, %d downloaded, %d unavailable manifests", s.CacheHits, s.Downloads, s.Failures)
	}
	printDetail(w, "run %s", res.RunID)
}

func countWithDependencies(p *catalog.Project) int {
	n := 0
	for _, r := range p.Releases {
		if r.Dependencies != nil {
			n++
		}
	}
	return n
}
