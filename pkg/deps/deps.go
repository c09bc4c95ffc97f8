package deps

import (
	"context"
	"maps"
	"slices"
	"time"

	"github.com/matzehuels/plugdeps/pkg/observability"
)

const (
	DefaultWorkers = 8                // Default concurrent registry queries
	DefaultTimeout = 10 * time.Second // Default per-query deadline
)

// DefaultFields requests everything the enrichment layer renders.
var DefaultFields = Fields{ShortDescription: true, Icons: true}

// Options configures a resolution pass.
type Options struct {
	Workers int                        // Concurrent registry queries (default: 8)
	Timeout time.Duration              // Deadline for a single query (default: 10s)
	Fields  Fields                     // Optional fields to request (default: all)
	Logger  func(string, ...any)       // Progress/error callback (optional)
	Hooks   observability.ResolveHooks // Event hooks (default: global hooks)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
// A zero Fields value selects [DefaultFields].
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Fields == (Fields{}) {
		opts.Fields = DefaultFields
	}
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	if opts.Hooks == nil {
		opts.Hooks = observability.Resolve()
	}
	return opts
}

// Fields selects optional metadata sections in a registry query.
type Fields struct {
	ShortDescription bool
	Icons            bool
}

// Registry answers metadata queries for a single slug.
type Registry interface {
	// Query returns metadata for slug. The returned Slug is the registry's
	// canonical form and may differ from the argument.
	Query(ctx context.Context, slug string, fields Fields) (*Metadata, error)
}

// RegistryFunc adapts a function to [Registry].
type RegistryFunc func(ctx context.Context, slug string, fields Fields) (*Metadata, error)

// Query calls f.
func (f RegistryFunc) Query(ctx context.Context, slug string, fields Fields) (*Metadata, error) {
	return f(ctx, slug, fields)
}

// Metadata is the enrichment record a registry returns for one plugin.
type Metadata struct {
	Slug             string            // Slug as returned by the registry
	Name             string            // Display name
	Version          string            // Latest version (may be empty)
	ShortDescription string            // One-line summary (may be empty)
	Icons            map[string]string // Icon URLs keyed by size
	Homepage         string            // Homepage URL (may be empty)
	Extra            map[string]any    // Registry-specific fields
}

// Map converts Metadata fields to a flat map for reports.
func (m *Metadata) Map() map[string]any {
	out := map[string]any{"slug": m.Slug, "name": m.Name}
	if m.Version != "" {
		out["version"] = m.Version
	}
	if m.ShortDescription != "" {
		out["short_description"] = m.ShortDescription
	}
	if len(m.Icons) > 0 {
		out["icons"] = maps.Clone(m.Icons)
	}
	if m.Homepage != "" {
		out["homepage"] = m.Homepage
	}
	maps.Copy(out, m.Extra)
	return out
}

// MetadataSet holds successful fetch results keyed by returned slug.
type MetadataSet map[string]*Metadata

// Has reports whether slug has metadata.
func (s MetadataSet) Has(slug string) bool {
	_, ok := s[slug]
	return ok
}

// Slugs returns the keys in ascending order.
func (s MetadataSet) Slugs() []string {
	return slices.Sorted(maps.Keys(s))
}
