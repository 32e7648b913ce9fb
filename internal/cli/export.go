package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/relcat/pkg/io"
	"github.com/matzehuels/relcat/pkg/pipeline"
)

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		format string
		output string
		noDeps bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the release catalog as JSON, YAML or TOML",
		Long: `Build the release catalog and write it out.

Projects are ordered by id, releases and series newest first. Without
--format the format follows the extension of --output and defaults to JSON.
JSON exports can be loaded again with 'relcat browse --from'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") {
				format = formatFromPath(output)
			}
			if err := pipeline.ValidateFormat(format); err != nil {
				return err
			}

			res, err := c.execute(cmd.Context(), noDeps)
			if err != nil {
				return err
			}

			if output == "" {
				return pkgio.Write(res.Catalog, format, c.Out)
			}
			if err := pkgio.Export(res.Catalog, format, output); err != nil {
				return err
			}
			printSuccess(c.Err, "Exported %d projects", len(res.Catalog.Projects))
			printFile(c.Err, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatJSON, "output format: json, yaml, toml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&noDeps, "no-deps", false, "skip dependency resolution")
	addPipelineFlags(cmd)
	return cmd
}

// formatFromPath picks an export format from a file extension.
func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return pipeline.FormatYAML
	case ".toml":
		return pipeline.FormatTOML
	}
	return pipeline.FormatJSON
}
