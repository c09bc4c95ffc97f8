// Package wporg provides an HTTP client for the WordPress.org plugin directory.
//
// # Overview
//
// The directory answers plugin_information queries at
// /plugins/info/1.2/. Only the fields needed to enrich a "Requires
// Plugins" report are decoded: name, slug, version, short description,
// icons and homepage.
//
// # Usage
//
//	client := wporg.NewClient(wporg.DefaultBaseURL)
//	info, err := client.FetchPlugin(ctx, "woocommerce", wporg.Fields{
//	    ShortDescription: true,
//	    Icons:            true,
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(info.Name, info.Icons["2x"])
//
// # Not found
//
// Unknown slugs come back either as HTTP 404 or as a 200 with an
// {"error": "..."} body depending on the API revision. Both map to
// [integrations.ErrNotFound].
//
// [integrations.ErrNotFound]: github.com/matzehuels/plugdeps/pkg/integrations#ErrNotFound
package wporg
