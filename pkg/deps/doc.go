// Package deps resolves "Requires Plugins" declarations across an installed
// plugin set.
//
// # Overview
//
// A resolution pass runs in one direction:
//
//  1. Scan: read each plugin's "Requires Plugins" header ([plugin.Scan])
//  2. Sanitize: split, trim, validate and deduplicate slugs ([slug.SanitizeAll])
//  3. Build: assemble an immutable [Graph]
//  4. Fetch: query a [Registry] for every required slug ([FetchMetadata])
//
// The result is a [Resolution] answering the questions an admin screen
// asks: which dependencies are missing, which plugins require a given
// slug, and whether a plugin may be removed safely.
//
// # Resolving
//
//	res := deps.Resolve(ctx, components, wordpress.NewRegistry(""), deps.Options{
//	    Workers: 8,
//	    Timeout: 5 * time.Second,
//	})
//	for _, s := range res.MissingSlugs() {
//	    fmt.Println("missing:", s)
//	}
//
// # Failure Model
//
// Nothing in a pass returns an error. Malformed slugs are dropped during
// sanitization. Registry failures (errors, timeouts, empty answers) leave
// the slug without [Metadata]; such slugs still count as required and as
// missing, but [Resolution.DependentsOf] reports no dependents for them.
// Failures are visible through [Options.Logger] and the
// [observability.ResolveHooks].
//
// # Options
//
// [Options] controls fetching:
//
//   - Workers: concurrent registry queries (default 8)
//   - Timeout: per-query deadline (default 10s)
//   - Fields: optional metadata sections (default all)
//   - Logger: progress callback
//   - Hooks: event hooks (default the global hooks)
//
// Each pass starts cold. There is no cache and no retry.
//
// [plugin.Scan]: github.com/matzehuels/plugdeps/pkg/plugin#Scan
// [slug.SanitizeAll]: github.com/matzehuels/plugdeps/pkg/slug#SanitizeAll
// [observability.ResolveHooks]: github.com/matzehuels/plugdeps/pkg/observability#ResolveHooks
package deps
