package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/plugdeps/pkg/errors"
	"github.com/matzehuels/plugdeps/pkg/render/nodelink"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
)

type graphOpts struct {
	format   string
	output   string
	detailed bool
}

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	opts := graphOpts{format: formatDOT}

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Export the dependency graph as DOT or SVG",
		Long: `Export the plugin dependency graph. Installed plugins point at the plugins
they require; required slugs that are not installed are drawn dashed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != formatDOT && opts.format != formatSVG {
				return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (want %s or %s)", opts.format, formatDOT, formatSVG)
			}
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			res, err := c.resolve(cmd.Context(), cfg, opts.output != "")
			if err != nil {
				return err
			}

			out := []byte(nodelink.ToDOT(res, nodelink.Options{Detailed: opts.detailed}))
			if opts.format == formatSVG {
				if out, err = nodelink.RenderSVG(cmd.Context(), string(out)); err != nil {
					return fmt.Errorf("render svg: %w", err)
				}
			}

			if opts.output == "" {
				_, err := cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(opts.output, out, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", opts.output, err)
			}
			printSuccess("Graph written")
			printFile(opts.output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", formatDOT, "output format: dot or svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include registry metadata in labels")
	_ = cmd.RegisterFlagCompletionFunc("format", completeGraphFormat)

	return cmd
}
