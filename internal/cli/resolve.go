package cli

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/relcat/pkg/manifest"
)

// resolveCommand creates the resolve command.
func (c *CLI) resolveCommand() *cobra.Command {
	var (
		asJSON    bool
		showProps bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <groupId:artifactId:version>",
		Short: "Resolve the dependencies of one Maven coordinate",
		Long: `Fetch the POM of a coordinate and of its parent, then print the
dependency versions with ${property} placeholders substituted.

The manifest cache and strictness settings apply as for 'build'.`,
		Example: `  relcat resolve org.hibernate:hibernate-core:5.1.0.Final
  relcat resolve org.hibernate:hibernate-search-orm:5.5.2.Final --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			coord, err := manifest.ParseCoordinate(args[0])
			if err != nil {
				return err
			}

			runner, err := c.newRunner(cmd.Context())
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			deps, err := runner.Resolve(cmd.Context(), coord, c.pipelineOptions())
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(c.Out)
				enc.SetIndent("", "  ")
				return enc.Encode(deps)
			}
			printDependencies(c, coord, deps, showProps)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&showProps, "properties", false, "also print the collected properties")
	addPipelineFlags(cmd)
	return cmd
}

func printDependencies(c *CLI, coord manifest.Coordinate, deps *manifest.Dependencies, showProps bool) {
	versions := deps.Map()
	if len(versions) == 0 {
		printWarning(c.Out, "%s declares no resolvable dependencies", coord)
		return
	}

	t := newTable("Dependency", "Version")
	for _, key := range slices.Sorted(maps.Keys(versions)) {
		v := versions[key]
		if v == "" {
			v = StyleDim.Render("managed")
		}
		t.Row(key, v)
	}
	fmt.Fprintln(c.Out, t.Render())
	printSuccess(c.Out, "%s: %d dependencies", StyleHighlight.Render(coord.String()), len(versions))

	if showProps && deps != nil {
		fmt.Fprintln(c.Out)
		fmt.Fprintln(c.Out, StyleTitle.Render("Properties"))
		for _, name := range slices.Sorted(maps.Keys(deps.Properties)) {
			printKeyValue(c.Out, name, deps.Properties[name])
		}
	}
}
