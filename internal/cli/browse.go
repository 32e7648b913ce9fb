package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/relcat/pkg/catalog"
	pkgio "github.com/matzehuels/relcat/pkg/io"
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		from   string
		noDeps bool
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Explore release series interactively",
		Long: `Open an interactive table of every release series.

The catalog is built from the data directory, or loaded from a JSON export
with --from.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cat *catalog.Catalog
			if from != "" {
				loaded, err := pkgio.ImportJSON(from)
				if err != nil {
					return err
				}
				cat = loaded
			} else {
				res, err := c.execute(cmd.Context(), noDeps)
				if err != nil {
					return err
				}
				cat = res.Catalog
			}

			p := tea.NewProgram(NewSeriesListModel(cat), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err := p.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "load a JSON export instead of building")
	cmd.Flags().BoolVar(&noDeps, "no-deps", false, "skip dependency resolution")
	addPipelineFlags(cmd)
	return cmd
}
