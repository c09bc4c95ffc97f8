package deps

import (
	"slices"
	"sort"

	"github.com/matzehuels/plugdeps/pkg/plugin"
	"github.com/matzehuels/plugdeps/pkg/slug"
)

// Graph maps installed plugins to their sanitized dependency slugs.
//
// A Graph is immutable once built and safe for concurrent reads.
type Graph struct {
	components []plugin.Component
	index      map[string]int
	deps       map[string][]string
	required   []string
	requiredBy map[string][]int // slug -> component indexes declaring it
	installed  map[string][]int // slug -> component indexes satisfying it
}

// Build assembles a Graph from the enumerated components and their
// sanitized declarations. Components are ordered by identifier; a repeated
// identifier keeps its first occurrence.
func Build(components []plugin.Component, s slug.Sanitized) *Graph {
	g := &Graph{
		index:      make(map[string]int, len(components)),
		deps:       make(map[string][]string),
		requiredBy: make(map[string][]int),
		installed:  make(map[string][]int, len(components)),
	}

	for _, c := range components {
		if _, dup := g.index[c.ID]; dup {
			continue
		}
		g.index[c.ID] = -1
		g.components = append(g.components, c)
	}
	sort.Slice(g.components, func(i, j int) bool { return g.components[i].ID < g.components[j].ID })

	for i, c := range g.components {
		g.index[c.ID] = i
		if id := slug.FromIdentifier(c.ID); id != "" {
			g.installed[id] = append(g.installed[id], i)
		}
		declared := s.PerComponent[c.ID]
		if len(declared) == 0 {
			continue
		}
		g.deps[c.ID] = slices.Clone(declared)
		for _, d := range declared {
			g.requiredBy[d] = append(g.requiredBy[d], i)
		}
	}

	g.required = make([]string, 0, len(g.requiredBy))
	for d := range g.requiredBy {
		g.required = append(g.required, d)
	}
	sort.Strings(g.required)
	return g
}

// Components returns all plugins ordered by identifier.
func (g *Graph) Components() []plugin.Component {
	return slices.Clone(g.components)
}

// Component returns the plugin with the given identifier.
func (g *Graph) Component(id string) (plugin.Component, bool) {
	i, ok := g.index[id]
	if !ok {
		return plugin.Component{}, false
	}
	return g.components[i], true
}

// Dependencies returns the sanitized slugs id declares, in declaration order.
func (g *Graph) Dependencies(id string) []string {
	return slices.Clone(g.deps[id])
}

// RequiredSlugs returns every declared slug, deduplicated and sorted.
func (g *Graph) RequiredSlugs() []string {
	return slices.Clone(g.required)
}

// InstalledSlugs returns the slugs installed plugins satisfy, sorted.
func (g *Graph) InstalledSlugs() []string {
	out := make([]string, 0, len(g.installed))
	for s := range g.installed {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Providers returns the installed plugins whose identifier maps to s.
func (g *Graph) Providers(s string) []plugin.Component {
	return g.pick(g.installed[s])
}

// Dependents returns the plugins declaring s, ordered by identifier.
func (g *Graph) Dependents(s string) []plugin.Component {
	return g.pick(g.requiredBy[s])
}

func (g *Graph) pick(idx []int) []plugin.Component {
	out := make([]plugin.Component, len(idx))
	for i, j := range idx {
		out[i] = g.components[j]
	}
	return out
}

// MissingSlugs returns required slugs no installed plugin satisfies, sorted.
func (g *Graph) MissingSlugs() []string {
	out := []string{}
	for _, s := range g.required {
		if len(g.installed[s]) == 0 {
			out = append(out, s)
		}
	}
	return out
}

// IsRequired reports whether the plugin identified by id is declared as a
// dependency by any installed plugin.
func (g *Graph) IsRequired(id string) bool {
	_, ok := g.requiredBy[slug.FromIdentifier(id)]
	return ok
}
