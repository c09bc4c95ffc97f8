package deps

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/plugdeps/pkg/plugin"
	"github.com/matzehuels/plugdeps/pkg/slug"
)

// Queries is what a presentation layer asks of a finished pass.
type Queries interface {
	// MissingSlugs returns required slugs with no installed plugin, sorted.
	MissingSlugs() []string
	// DependentsOf returns display names of plugins requiring slug.
	DependentsOf(slug string) []string
	// IsRequired reports whether removing the plugin would break a dependent.
	IsRequired(id string) bool
}

// Resolution is the outcome of one scan, sanitize, build and fetch pass.
//
// A Resolution is immutable and safe for concurrent reads. Nothing in it
// is shared with other passes.
type Resolution struct {
	PassID   string        // Unique identifier for this pass
	Duration time.Duration // Wall time of the pass

	graph *Graph
	meta  MetadataSet
}

var _ Queries = (*Resolution)(nil)

// Resolve runs a full pass over components. A nil reg skips enrichment.
//
// Resolve never fails: malformed declarations are dropped and registry
// failures leave the affected slugs without metadata.
func Resolve(ctx context.Context, components []plugin.Component, reg Registry, opts Options) *Resolution {
	opts = opts.WithDefaults()
	start := time.Now()
	r := &Resolution{PassID: uuid.NewString()}

	sanitized := slug.SanitizeAll(plugin.Scan(components))
	r.graph = Build(components, sanitized)
	required := r.graph.RequiredSlugs()
	opts.Hooks.OnScanComplete(ctx, len(r.graph.components), len(required))
	opts.Logger("pass %s: %d plugins, %d required slugs", r.PassID, len(r.graph.components), len(required))

	if reg == nil {
		opts.Logger("pass %s: no registry, skipping metadata", r.PassID)
	}
	r.meta = FetchMetadata(ctx, reg, required, opts)

	r.Duration = time.Since(start)
	missing := len(r.graph.MissingSlugs())
	opts.Hooks.OnResolveComplete(ctx, missing, len(r.meta), r.Duration)
	opts.Logger("pass %s: %d missing, %d resolved", r.PassID, missing, len(r.meta))
	return r
}

// Graph returns the dependency graph built during the pass.
func (r *Resolution) Graph() *Graph { return r.graph }

// Components returns the installed plugins ordered by identifier.
func (r *Resolution) Components() []plugin.Component { return r.graph.Components() }

// RequiredSlugs returns every declared slug, sorted.
func (r *Resolution) RequiredSlugs() []string { return r.graph.RequiredSlugs() }

// MissingSlugs returns required slugs no installed plugin satisfies, sorted.
func (r *Resolution) MissingSlugs() []string { return r.graph.MissingSlugs() }

// Satisfied reports whether every required slug is installed.
func (r *Resolution) Satisfied() bool { return len(r.graph.MissingSlugs()) == 0 }

// IsRequired reports whether the plugin identified by id is declared as a
// dependency by any installed plugin.
func (r *Resolution) IsRequired(id string) bool { return r.graph.IsRequired(id) }

// Metadata returns the registry record for s.
func (r *Resolution) Metadata(s string) (*Metadata, bool) {
	m, ok := r.meta[s]
	return m, ok
}

// MetadataSet returns a copy of all fetched records.
func (r *Resolution) MetadataSet() MetadataSet {
	out := make(MetadataSet, len(r.meta))
	for k, v := range r.meta {
		out[k] = v
	}
	return out
}

// DependentsOf returns the sorted, deduplicated display names of plugins
// declaring s. Slugs without metadata have no reportable dependents.
func (r *Resolution) DependentsOf(s string) []string {
	if !r.meta.Has(s) {
		return []string{}
	}
	seen := make(map[string]bool)
	names := []string{}
	for _, c := range r.graph.Dependents(s) {
		n := c.DisplayName()
		if seen[n] {
			continue
		}
		seen[n] = true
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// RequiredBy maps every resolvable slug to its dependents' display names.
func (r *Resolution) RequiredBy() map[string][]string {
	out := make(map[string][]string)
	for _, s := range r.graph.required {
		if names := r.DependentsOf(s); len(names) > 0 {
			out[s] = names
		}
	}
	return out
}
