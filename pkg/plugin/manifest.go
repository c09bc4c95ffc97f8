package plugin

import (
	"context"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/plugdeps/pkg/errors"
)

// ManifestSource reads the installed plugin list from a TOML file. Hosts that
// cannot expose their plugins directory can export the list instead:
//
//	[[plugin]]
//	file = "my-addon/my-addon.php"
//	name = "My Addon"
//	requires_plugins = "woocommerce, jetpack"
type ManifestSource struct {
	path string
}

// NewManifestSource creates a ManifestSource reading path.
func NewManifestSource(path string) *ManifestSource {
	return &ManifestSource{path: path}
}

// Path returns the manifest file path.
func (s *ManifestSource) Path() string { return s.path }

// Components reads and validates the manifest.
func (s *ManifestSource) Components(ctx context.Context) ([]Component, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "plugin manifest %s", s.path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read plugin manifest %s", s.path)
	}
	return ParseManifest(data)
}

type manifestFile struct {
	Plugins []manifestEntry `toml:"plugin"`
}

type manifestEntry struct {
	File            string            `toml:"file"`
	Name            string            `toml:"name"`
	Version         string            `toml:"version"`
	RequiresPlugins string            `toml:"requires_plugins"`
	Headers         map[string]string `toml:"headers"`
}

// ParseManifest decodes a TOML plugin manifest. Every entry needs a valid,
// unique plugin file identifier.
func ParseManifest(data []byte) ([]Component, error) {
	var mf manifestFile
	if err := toml.Unmarshal(data, &mf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode plugin manifest")
	}

	seen := make(map[string]bool, len(mf.Plugins))
	out := make([]Component, 0, len(mf.Plugins))
	for i, p := range mf.Plugins {
		if err := errors.ValidatePluginFile(p.File); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "plugin #%d", i+1)
		}
		if seen[p.File] {
			return nil, errors.New(errors.ErrCodeInvalidManifest, "duplicate plugin %s", p.File)
		}
		seen[p.File] = true
		out = append(out, p.component())
	}
	return out, nil
}

func (e manifestEntry) component() Component {
	headers := make(map[string]string, len(e.Headers)+3)
	for k, v := range e.Headers {
		headers[k] = v
	}
	if e.Name != "" {
		headers[HeaderPluginName] = e.Name
	}
	if e.Version != "" {
		headers[HeaderVersion] = e.Version
	}
	if e.RequiresPlugins != "" {
		headers[HeaderRequiresPlugins] = e.RequiresPlugins
	}
	return Component{ID: e.File, Name: e.Name, Headers: headers}
}
