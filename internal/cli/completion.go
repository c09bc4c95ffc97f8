package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for plugdeps.

Completion of "required-by" suggests the slugs declared by the plugins in
the configured plugins directory or manifest.

  $ source <(plugdeps completion bash)
  $ plugdeps completion zsh > "${fpath[1]}/_plugdeps"
  $ plugdeps completion fish > ~/.config/fish/completions/plugdeps.fish
  PS> plugdeps completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}

// completeRequiredSlugs suggests the slugs installed plugins declare.
// It resolves offline with a silent logger so completion never waits on
// the registry or writes to the terminal.
func (c *CLI) completeRequiredSlugs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = withLogger(ctx, log.New(io.Discard))
	cmd.SetContext(ctx)

	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	cfg.Offline = true

	res, err := c.resolve(ctx, cfg, false)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var out []string
	for _, s := range res.RequiredSlugs() {
		if strings.HasPrefix(s, toComplete) {
			out = append(out, s)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// completeGraphFormat suggests values for graph --format.
func completeGraphFormat(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return []string{formatDOT, formatSVG}, cobra.ShellCompDirectiveNoFileComp
}
