package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/plugdeps/internal/config"
	"github.com/matzehuels/plugdeps/pkg/buildinfo"
	"github.com/matzehuels/plugdeps/pkg/deps"
	"github.com/matzehuels/plugdeps/pkg/deps/wordpress"
	"github.com/matzehuels/plugdeps/pkg/observability"
	"github.com/matzehuels/plugdeps/pkg/plugin"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "plugdeps"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	envFile    string

	// newRegistry builds the registry for a pass; tests replace it.
	newRegistry func(cfg *config.Config) deps.Registry
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:      newLogger(w, level),
		newRegistry: defaultRegistry,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "plugdeps checks \"Requires Plugins\" dependencies of installed plugins",
		Long:         `plugdeps reads the "Requires Plugins" header of every installed plugin, reports dependencies that are not installed, enriches known ones from the WordPress.org plugin directory and shows which plugins require which.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "config file (default: ./plugdeps.* or $XDG_CONFIG_HOME/plugdeps/plugdeps.*)")
	pf.StringVar(&c.envFile, "env-file", "", "load environment from this file (default: .env if present)")
	pf.StringP("plugins-dir", "d", "", "plugins directory to scan")
	pf.StringP("manifest", "m", "", "TOML manifest listing plugins (overrides --plugins-dir)")
	pf.String("registry-url", "", "plugin directory API base URL")
	pf.Duration("timeout", 0, "per-query registry timeout")
	pf.Int("workers", 0, "concurrent registry queries")
	pf.Bool("offline", false, "skip registry metadata")

	// Register all subcommands
	root.AddCommand(c.reportCommand())
	root.AddCommand(c.missingCommand())
	root.AddCommand(c.requiredByCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Resolution
// =============================================================================

// loadConfig resolves configuration with cmd's flags bound on top.
func (c *CLI) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, path, err := config.Load(cmd.Context(), config.LoadOptions{
		ConfigFilePath: c.configPath,
		EnvFile:        c.envFile,
		Flags:          cmd.Flags(),
	})
	if err != nil {
		return nil, err
	}
	if path != "" {
		loggerFromContext(cmd.Context()).Debug("Loaded config", "path", path)
	}
	return cfg, nil
}

func defaultRegistry(cfg *config.Config) deps.Registry {
	return wordpress.NewRegistry(cfg.RegistryURL)
}

// source returns the plugin enumerator selected by cfg.
func source(cfg *config.Config) plugin.Source {
	if cfg.Manifest != "" {
		return plugin.NewManifestSource(cfg.Manifest)
	}
	return plugin.NewDirSource(cfg.PluginsDir)
}

// resolve runs one full pass: enumerate, scan, sanitize, build and fetch.
func (c *CLI) resolve(ctx context.Context, cfg *config.Config, spin bool) (*deps.Resolution, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	components, err := source(cfg).Components(ctx)
	if err != nil {
		return nil, err
	}
	logger.Debugf("Found %d plugins", len(components))

	var reg deps.Registry
	if !cfg.Offline {
		reg = c.newRegistry(cfg)
	}

	opts := cfg.ResolveOptions()
	opts.Logger = logger.Debugf

	var s *Spinner
	if spin && reg != nil {
		s = newSpinner(ctx, "Fetching plugin metadata")
		opts.Hooks = observability.CombineResolve(observability.Resolve(), s)
		s.Start()
	}
	res := deps.Resolve(ctx, components, reg, opts)
	if s != nil {
		s.Stop()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prog.done(fmt.Sprintf("Resolved %d plugins, %d required slugs", len(components), len(res.RequiredSlugs())))
	logger.Debug("Pass complete", "pass", res.PassID, "duration", res.Duration.Round(time.Millisecond))
	return res, nil
}
