// Package nodelink renders plugin dependency graphs as node-link diagrams.
//
// # Usage
//
// Convert a resolution to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(res, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Styling
//
//   - Installed plugins: rounded white boxes, bold outline when another
//     plugin requires them
//   - Missing slugs known to the registry: dashed red
//   - Missing slugs without registry metadata: dashed grey
//
// The DOT output can also be saved and processed with external Graphviz
// tools.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
