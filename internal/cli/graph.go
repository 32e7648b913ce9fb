package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/relcat/pkg/errors"
	"github.com/matzehuels/relcat/pkg/render/nodelink"
)

// Graph output formats.
const (
	graphFormatSVG = "svg"
	graphFormatDOT = "dot"
)

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		output string
		format string
		lr     bool
	)

	cmd := &cobra.Command{
		Use:   "graph <project> [series]",
		Short: "Draw a project's series or a series' dependencies",
		Long: `Draw a node-link diagram.

With only a project, the diagram shows its series and the newest release of
each; hidden series are dashed. With a series, it shows the newest release of
that series and its resolved dependencies.`,
		Example: `  relcat graph orm -o orm.svg
  relcat graph orm 5.1 --format dot`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != graphFormatSVG && format != graphFormatDOT {
				return errors.New(errors.ErrCodeInvalidFormat, "unsupported graph format %q (use svg or dot)", format)
			}

			withSeries := len(args) == 2
			res, err := c.execute(cmd.Context(), !withSeries)
			if err != nil {
				return err
			}
			p, ok := res.Catalog.Project(args[0])
			if !ok {
				return errors.New(errors.ErrCodeProjectNotFound, "unknown project %s", args[0])
			}

			g := nodelink.ProjectGraph(p)
			if withSeries {
				if g, err = nodelink.SeriesGraph(p, args[1]); err != nil {
					return err
				}
			}

			dot := nodelink.ToDOT(g, nodelink.Options{LeftToRight: lr || withSeries})
			data := []byte(dot)
			if format == graphFormatSVG {
				if data, err = nodelink.RenderSVG(cmd.Context(), dot); err != nil {
					return err
				}
			}

			if output == "" {
				_, err := c.Out.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			printSuccess(c.Err, "Wrote %s graph", format)
			printFile(c.Err, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", graphFormatSVG, "output format: svg, dot")
	cmd.Flags().BoolVar(&lr, "lr", false, "lay the diagram out left to right")
	addPipelineFlags(cmd)
	return cmd
}
