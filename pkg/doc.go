// Package pkg provides the core libraries for plugdeps, a "Requires Plugins"
// resolver for WordPress-style plugin installations.
//
// # Overview
//
// Plugins declare the plugins they depend on in a "Requires Plugins" header.
// plugdeps reads those headers, validates the declared slugs, works out
// which dependencies are not installed, looks the known ones up in the
// plugin directory and answers "which plugins require this one?".
//
// # Architecture
//
// The data flow through plugdeps:
//
//	Plugin directory or manifest
//	         ↓
//	    [plugin] package (enumerate plugins, read headers)
//	         ↓
//	    [slug] package (split, validate, deduplicate)
//	         ↓
//	    [deps] package (graph, registry fetch, queries)
//	         ↓
//	    [io] / [render/nodelink] (JSON report, DOT/SVG)
//
// # Quick Start
//
//	src := plugin.NewDirSource("wp-content/plugins")
//	components, err := src.Components(ctx)
//	if err != nil {
//	    return err
//	}
//	res := deps.Resolve(ctx, components, wordpress.NewRegistry(""), deps.Options{})
//	fmt.Println("missing:", res.MissingSlugs())
//	fmt.Println("woocommerce required by:", res.DependentsOf("woocommerce"))
//
// # Main Packages
//
// [slug] - Slug validation and header parsing.
//
// [plugin] - Installed plugin enumeration from a plugins directory or a
// TOML manifest, and header extraction.
//
// [deps] - Dependency graph, concurrent metadata fetcher and resolution
// queries. The [deps/wordpress] subpackage adapts the WordPress.org client.
//
// [integrations] - HTTP clients for registry APIs ([integrations/wporg]).
//
// [observability] - Hook interfaces with Prometheus and OpenTelemetry
// backends.
//
// [errors] - Coded errors and input validation for the outer edges.
//
// [slug]: github.com/matzehuels/plugdeps/pkg/slug
// [plugin]: github.com/matzehuels/plugdeps/pkg/plugin
// [deps]: github.com/matzehuels/plugdeps/pkg/deps
// [deps/wordpress]: github.com/matzehuels/plugdeps/pkg/deps/wordpress
// [io]: github.com/matzehuels/plugdeps/pkg/io
// [render/nodelink]: github.com/matzehuels/plugdeps/pkg/render/nodelink
// [integrations]: github.com/matzehuels/plugdeps/pkg/integrations
// [integrations/wporg]: github.com/matzehuels/plugdeps/pkg/integrations/wporg
// [observability]: github.com/matzehuels/plugdeps/pkg/observability
// [errors]: github.com/matzehuels/plugdeps/pkg/errors
package pkg
