// Package config loads plugdeps settings from defaults, an optional config
// file, a .env file, PLUGDEPS_* environment variables and command-line flags,
// in increasing order of precedence.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/matzehuels/plugdeps/pkg/deps"
	"github.com/matzehuels/plugdeps/pkg/errors"
	"github.com/matzehuels/plugdeps/pkg/integrations/wporg"
)

const (
	// AppName is the application name.
	AppName = "plugdeps"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "plugdeps"
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "PLUGDEPS"
)

// Config holds resolved settings.
type Config struct {
	PluginsDir  string        `mapstructure:"plugins_dir"`
	Manifest    string        `mapstructure:"manifest"`
	RegistryURL string        `mapstructure:"registry_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Workers     int           `mapstructure:"workers"`
	Offline     bool          `mapstructure:"offline"`
	Listen      string        `mapstructure:"listen"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		PluginsDir:  "wp-content/plugins",
		RegistryURL: wporg.DefaultBaseURL,
		Timeout:     deps.DefaultTimeout,
		Workers:     deps.DefaultWorkers,
		Listen:      "127.0.0.1:8080",
	}
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"plugins-dir":  "plugins_dir",
	"manifest":     "manifest",
	"registry-url": "registry_url",
	"timeout":      "timeout",
	"workers":      "workers",
	"offline":      "offline",
	"listen":       "listen",
}

// LoadOptions controls where configuration is read from.
type LoadOptions struct {
	ConfigFilePath string         // Explicit config file; must exist when set
	ConfigDirPath  string         // Overrides the per-user config directory
	EnvFile        string         // .env file to load (default ".env", missing is fine)
	Flags          *pflag.FlagSet // Flags bound to config keys (optional)
}

// ConfigDir returns $XDG_CONFIG_HOME/plugdeps, falling back to
// ~/.config/plugdeps.
func ConfigDir() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, AppName), nil
}

// Load resolves the configuration and validates it.
// It returns the config and the config file used ("" if none).
func Load(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	if err := loadEnvFile(opts.EnvFile); err != nil {
		return nil, "", err
	}

	v := viper.New()
	d := DefaultConfig()
	v.SetDefault("plugins_dir", d.PluginsDir)
	v.SetDefault("manifest", d.Manifest)
	v.SetDefault("registry_url", d.RegistryURL)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("offline", d.Offline)
	v.SetDefault("listen", d.Listen)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, "", fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	path, err := readConfigFile(v, opts)
	if err != nil {
		return nil, "", err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "failed to parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return &cfg, path, nil
}

func loadEnvFile(path string) error {
	if path == "" {
		_ = godotenv.Load()
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "load env file %s", path)
	}
	return nil
}

func readConfigFile(v *viper.Viper, opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if _, err := os.Stat(opts.ConfigFilePath); err != nil {
			return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "config file not found: %s", opts.ConfigFilePath)
		}
		v.SetConfigFile(opts.ConfigFilePath)
		if err := v.ReadInConfig(); err != nil {
			return "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", opts.ConfigFilePath)
		}
		return opts.ConfigFilePath, nil
	}

	dir := opts.ConfigDirPath
	if dir == "" {
		var err error
		if dir, err = ConfigDir(); err != nil {
			return "", err
		}
	}
	v.SetConfigName(ConfigFileName)
	v.AddConfigPath(".")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return "", nil
		}
		return "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
	}
	return v.ConfigFileUsed(), nil
}

// Validate checks value ranges and the registry URL.
func (c *Config) Validate() error {
	if c.PluginsDir == "" && c.Manifest == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "one of plugins_dir or manifest is required")
	}
	if c.Workers <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "workers must be positive, got %d", c.Workers)
	}
	if c.Timeout <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "timeout must be positive, got %s", c.Timeout)
	}
	if !c.Offline {
		if err := errors.ValidateURL(c.RegistryURL); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "registry_url")
		}
	}
	return nil
}

// ResolveOptions converts the fetch settings to [deps.Options].
func (c *Config) ResolveOptions() deps.Options {
	return deps.Options{Workers: c.Workers, Timeout: c.Timeout}
}
