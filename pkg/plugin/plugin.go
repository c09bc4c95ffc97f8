package plugin

import (
	"context"
	"strings"
)

// Header names read from a plugin's main file.
const (
	HeaderPluginName      = "Plugin Name"
	HeaderRequiresPlugins = "Requires Plugins"
	HeaderVersion         = "Version"
	HeaderDescription     = "Description"
	HeaderAuthor          = "Author"
)

// Component is one installed plugin as enumerated by the host.
type Component struct {
	ID      string            // Main file path relative to the plugins directory
	Name    string            // Display name
	Headers map[string]string // Raw header fields keyed by canonical header name
}

// Header returns the named header value, or "" if absent.
func (c Component) Header(name string) string {
	if c.Headers == nil {
		return ""
	}
	return c.Headers[name]
}

// DisplayName returns Name, falling back to the identifier.
func (c Component) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

// Source enumerates installed plugins.
type Source interface {
	// Components returns every installed plugin. Identifiers are unique.
	Components(ctx context.Context) ([]Component, error)
}

// Scan maps each component identifier to its raw "Requires Plugins" value.
// Components without the header, or with a blank one, are omitted. A
// repeated identifier keeps its first occurrence.
func Scan(components []Component) map[string]string {
	out := make(map[string]string)
	seen := make(map[string]bool, len(components))
	for _, c := range components {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		raw := c.Header(HeaderRequiresPlugins)
		if strings.TrimSpace(raw) == "" {
			continue
		}
		out[c.ID] = raw
	}
	return out
}

// StaticSource is a fixed list of components.
type StaticSource []Component

// Components returns the list as-is.
func (s StaticSource) Components(context.Context) ([]Component, error) {
	return []Component(s), nil
}
