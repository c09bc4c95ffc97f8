package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/plugdeps/pkg/deps"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds version and registry name to slug labels.
	// When false, only the slug or plugin name is shown.
	Detailed bool
}

// ToDOT converts a resolution to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
//
// Installed plugins are solid boxes with an edge to every plugin they
// require. Required slugs with no installed plugin become separate nodes:
// dashed red when registry metadata exists, dashed grey when it does not.
func ToDOT(res *deps.Resolution, opts Options) string {
	g := res.Graph()

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, c := range g.Components() {
		attrs := []string{fmt.Sprintf("label=%q", c.DisplayName())}
		if res.IsRequired(c.ID) {
			attrs = append(attrs, "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", pluginNode(c.ID), strings.Join(attrs, ", "))
	}
	for _, s := range g.MissingSlugs() {
		m, _ := res.Metadata(s)
		fmt.Fprintf(&buf, "  %q [%s];\n", slugNode(s), strings.Join(missingAttrs(s, m, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, c := range g.Components() {
		for _, s := range g.Dependencies(c.ID) {
			providers := g.Providers(s)
			if len(providers) == 0 {
				fmt.Fprintf(&buf, "  %q -> %q [style=dashed];\n", pluginNode(c.ID), slugNode(s))
				continue
			}
			for _, p := range providers {
				fmt.Fprintf(&buf, "  %q -> %q;\n", pluginNode(c.ID), pluginNode(p.ID))
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func pluginNode(id string) string { return "plugin:" + id }
func slugNode(s string) string    { return "slug:" + s }

func missingAttrs(s string, m *deps.Metadata, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(s, m, detailed))}
	if m == nil {
		return append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return append(attrs, "style=\"rounded,filled,dashed\"", "color=red", "fontcolor=red")
}

func fmtLabel(s string, m *deps.Metadata, detailed bool) string {
	if !detailed || m == nil {
		return s
	}
	meta := m.Map()
	delete(meta, "slug")
	delete(meta, "icons")
	var parts []string
	for _, k := range slices.Sorted(maps.Keys(meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, meta[k]))
	}
	return s + "\n" + strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
