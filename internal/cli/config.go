package cli

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/relcat/internal/config"
	"github.com/matzehuels/relcat/pkg/catalog"
)

// configCommand creates the config command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration after merging relcat.yaml, RELCAT_* environment
variables and flags, as YAML. The output is a valid relcat.yaml.

Built-in project coordinates are listed under projects unless overridden.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *c.config()
			cfg.Projects = effectiveProjects(c.config())

			enc := yaml.NewEncoder(c.Out)
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return err
			}
			return enc.Close()
		},
	}
	addPipelineFlags(cmd)
	cmd.Flags().String("listen", "127.0.0.1:8080", "address to listen on")
	cmd.Flags().String("mongo-uri", "", "MongoDB connection string")
	cmd.Flags().String("mongo-database", "relcat", "MongoDB database")
	return cmd
}

// effectiveProjects merges the configured projects over the built-in table
// the same way the pipeline does.
func effectiveProjects(cfg *config.Config) map[string]catalog.ProjectCoordinates {
	opts := cfg.PipelineOptions(nil)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return cfg.Projects
	}
	return opts.Projects
}
