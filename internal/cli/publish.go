package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/relcat/pkg/publish"
)

// disconnectTimeout bounds closing the MongoDB client after a publish.
const disconnectTimeout = 5 * time.Second

// publishCommand creates the publish command.
func (c *CLI) publishCommand() *cobra.Command {
	var (
		prune  bool
		noDeps bool
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Upsert the catalog into MongoDB",
		Long: `Build the catalog and store one document per project in the
"projects" collection of --mongo-database. Documents are keyed by project id
and carry the run id and publish time.

With --prune, documents of projects no longer in the catalog are deleted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.config()

			pub, disconnect, err := publish.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, c.Logger)
			if err != nil {
				return err
			}
			defer func() {
				dctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
				defer cancel()
				if err := disconnect(dctx); err != nil {
					c.Logger.Warn("disconnect from mongodb", "err", err)
				}
			}()

			res, err := c.execute(ctx, noDeps)
			if err != nil {
				return err
			}

			out, err := pub.Publish(ctx, res.Catalog, publish.Options{RunID: res.RunID, Prune: prune})
			if err != nil {
				return err
			}
			printSuccess(c.Out, "Published %d projects to %s", out.Inserted+out.Updated, cfg.MongoDatabase)
			printDetail(c.Out, "%d inserted, %d updated, %d deleted", out.Inserted, out.Updated, out.Deleted)
			return nil
		},
	}

	cmd.Flags().String("mongo-uri", "", "MongoDB connection string")
	cmd.Flags().String("mongo-database", "relcat", "MongoDB database")
	cmd.Flags().BoolVar(&prune, "prune", false, "delete documents of projects missing from the catalog")
	cmd.Flags().BoolVar(&noDeps, "no-deps", false, "skip dependency resolution")
	addPipelineFlags(cmd)
	return cmd
}
