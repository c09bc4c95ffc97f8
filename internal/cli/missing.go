package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/matzehuels/plugdeps/pkg/errors"
)

// missingCommand creates the missing command.
func (c *CLI) missingCommand() *cobra.Command {
	var (
		asJSON bool
		check  bool
	)

	cmd := &cobra.Command{
		Use:   "missing",
		Short: "List required plugins that are not installed",
		Long: `List every slug declared in a "Requires Plugins" header that no installed
plugin provides. Use --check to exit non-zero when anything is missing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			// Missing detection is local; registry data only labels the output.
			res, err := c.resolve(cmd.Context(), cfg, !asJSON)
			if err != nil {
				return err
			}

			missing := res.MissingSlugs()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(missing); err != nil {
					return err
				}
			} else if len(missing) == 0 {
				printSuccess("All required plugins are installed")
			} else {
				printWarning("%d required plugins are not installed", len(missing))
				for _, s := range missing {
					if m, ok := res.Metadata(s); ok {
						printInfo("%s %s", StyleHighlight.Render(s), StyleDim.Render(m.Name))
						continue
					}
					printInfo("%s %s", StyleHighlight.Render(s), StyleDim.Render("(not found in registry)"))
				}
			}

			if check && len(missing) > 0 {
				return errors.New(errors.ErrCodePluginNotFound, "%d required plugins are not installed", len(missing))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print missing slugs as a JSON array")
	cmd.Flags().BoolVar(&check, "check", false, "exit with an error when dependencies are missing")

	return cmd
}
