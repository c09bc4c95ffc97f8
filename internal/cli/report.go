package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/plugdeps/pkg/deps"
	"github.com/matzehuels/plugdeps/pkg/io"
	"github.com/matzehuels/plugdeps/pkg/slug"
)

type reportOpts struct {
	json   bool
	output string
}

// reportCommand creates the report command.
func (c *CLI) reportCommand() *cobra.Command {
	var opts reportOpts

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize plugins, missing dependencies and dependents",
		Long: `Resolve the installed plugin set and print every plugin with the plugins
that require it, followed by any required slugs that are not installed.

Use --json for a machine-readable report, or -o to write it to a file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			res, err := c.resolve(cmd.Context(), cfg, !opts.json)
			if err != nil {
				return err
			}
			return runReport(cmd, res, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "print the report as JSON")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the JSON report to this file")

	return cmd
}

func runReport(cmd *cobra.Command, res *deps.Resolution, opts reportOpts) error {
	if opts.output != "" {
		if err := io.ExportJSON(res, opts.output); err != nil {
			return err
		}
		printSuccess("Report written")
		printFile(opts.output)
		return nil
	}
	if opts.json {
		return io.WriteJSON(res, cmd.OutOrStdout())
	}

	components := res.Components()
	printTitle("Installed plugins")
	for _, comp := range components {
		printPlugin(comp.DisplayName(), comp.ID, res.IsRequired(comp.ID), requiredByFor(res, comp.ID))
	}
	printNewline()

	missing := res.MissingSlugs()
	if len(missing) == 0 {
		printSuccess("All required plugins are installed")
	} else {
		printWarning("%d required plugins are not installed", len(missing))
		printSlugList(missing)
	}
	printStats(len(components), len(res.RequiredSlugs()), len(missing), len(res.MetadataSet()))

	if len(missing) > 0 {
		printNewline()
		printNextStep("See who needs a plugin", appName+" required-by "+missing[0])
	}
	return nil
}

// requiredByFor returns the dependents of the plugin identified by id.
func requiredByFor(res *deps.Resolution, id string) []string {
	return res.DependentsOf(slug.FromIdentifier(id))
}
