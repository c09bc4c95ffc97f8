// Package slug normalizes raw plugin dependency declarations into canonical slugs.
//
// A slug is the registry identifier of a plugin: lowercase ASCII letters,
// digits and hyphens only (see [Pattern]). Plugins declare the slugs they
// depend on in a comma-separated "Requires Plugins" header. Authors write
// these by hand, so parsing is lenient: tokens that are not valid slugs are
// dropped without error.
//
// # Sanitizing
//
// [Parse] handles a single header value:
//
//	slug.Parse("  Foo, bar!!, bar, -ok-")  // ["bar", "-ok-"]
//
// [SanitizeAll] handles every component at once and also produces the
// global, sorted set of required slugs:
//
//	s := slug.SanitizeAll(map[string]string{
//	    "a/a.php": "x, y",
//	    "b/b.php": "x",
//	})
//	s.Required  // ["x", "y"]
//
// # Identifiers
//
// Installed plugins are keyed by their main file path relative to the
// plugins directory. [FromIdentifier] maps that path to the slug the plugin
// satisfies: the directory name, or the file name without ".php" for
// single-file plugins.
package slug
