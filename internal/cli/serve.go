package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/relcat/pkg/catalog"
	"github.com/matzehuels/relcat/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		watch    bool
		noDeps   bool
		debounce = server.DefaultDebounce
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog over a read-only JSON API",
		Long: `Build the catalog and serve it over HTTP.

Routes:
  GET  /healthz
  GET  /projects
  GET  /projects/{id}
  GET  /projects/{id}/series/{version}
  GET  /projects/{id}/releases/{version}
  POST /rebuild

With --watch the catalog is rebuilt when files under the data directory
change. A failed rebuild keeps serving the previous catalog.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.config()

			runner, err := c.newRunner(ctx)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			opts := c.pipelineOptions()
			opts.SkipDependencies = noDeps
			srv := server.New(func(ctx context.Context) (*catalog.Catalog, error) {
				res, err := runner.Execute(ctx, opts)
				if err != nil {
					return nil, err
				}
				return res.Catalog, nil
			}, c.Logger)

			if err := srv.Rebuild(ctx); err != nil {
				return err
			}

			if watch {
				dirs, err := catalog.ReleaseDirs(cfg.DataDir)
				if err != nil {
					return err
				}
				if len(dirs) == 0 {
					c.Logger.Warn("no releases directories yet", "data_dir", cfg.DataDir)
				}
			}

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error { return srv.ListenAndServe(ctx, cfg.Listen) })
			if watch {
				g.Go(func() error { return srv.Watch(ctx, cfg.DataDir, debounce) })
			}
			printNextStep(c.Err, "Serving", "http://"+cfg.Listen+"/projects")
			return g.Wait()
		},
	}

	cmd.Flags().String("listen", "127.0.0.1:8080", "address to listen on")
	cmd.Flags().BoolVar(&watch, "watch", false, "rebuild when descriptors change")
	cmd.Flags().DurationVar(&debounce, "debounce", debounce, "quiet period before a watched rebuild")
	cmd.Flags().BoolVar(&noDeps, "no-deps", false, "skip dependency resolution")
	addPipelineFlags(cmd)
	return cmd
}
