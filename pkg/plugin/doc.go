// Package plugin enumerates installed plugins and extracts their declared
// dependencies.
//
// # Components
//
// A [Component] is what the host knows about one installed plugin: its
// identifier (the main file path relative to the plugins directory, such as
// "akismet/akismet.php"), its display name and the raw header fields read
// from its main file.
//
// # Sources
//
// A [Source] supplies the list of installed components. Three are provided:
//
//   - [DirSource]: scans a plugins directory and parses file headers
//   - [ManifestSource]: reads a TOML export of the plugin list
//   - [StaticSource]: a fixed in-memory list
//
// # Scanning
//
// [Scan] extracts the raw "Requires Plugins" header from each component. It
// performs no validation; see the slug package for sanitization.
//
//	components, _ := plugin.NewDirSource("/var/www/wp-content/plugins").Components(ctx)
//	raw := plugin.Scan(components)
//	// raw["my-addon/my-addon.php"] == "woocommerce, jetpack"
package plugin
