package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/matzehuels/plugdeps/pkg/errors"
)

// requiredByCommand creates the required-by command.
func (c *CLI) requiredByCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "required-by <slug>",
		Short: "List installed plugins that require a plugin",
		Long: `List the installed plugins whose "Requires Plugins" header names <slug>.

Only slugs known to the plugin directory have reportable dependents; with
--offline the list is always empty.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeRequiredSlugs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0]
			if err := errors.ValidateSlug(target); err != nil {
				return err
			}
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			res, err := c.resolve(cmd.Context(), cfg, !asJSON)
			if err != nil {
				return err
			}

			names := res.DependentsOf(target)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(names)
			}

			if m, ok := res.Metadata(target); ok {
				printTitle(m.Name)
				if m.Version != "" {
					printKeyValue("Version", m.Version)
				}
				if m.ShortDescription != "" {
					printKeyValue("Summary", m.ShortDescription)
				}
				if m.Homepage != "" {
					printKeyValue("Homepage", StyleLink.Render(m.Homepage))
				}
				printNewline()
			}

			if len(names) == 0 {
				printInfo("No installed plugin requires %s", StyleHighlight.Render(target))
				return nil
			}
			printInfo("%s is required by:", StyleHighlight.Render(target))
			printSlugList(names)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print dependents as a JSON array")

	return cmd
}
