// Package integrations provides HTTP clients for plugin registry APIs.
//
// # Overview
//
// This package contains the shared [Client] used by registry API clients.
// Each registry has its own subpackage:
//
//   - [wporg]: the WordPress.org plugin directory
//
// # Client Pattern
//
// Registry clients embed [Client] and expose one typed fetch method:
//
//	client := wporg.NewClient(wporg.DefaultBaseURL)
//	info, err := client.FetchPlugin(ctx, "woocommerce", wporg.Fields{ShortDescription: true})
//
// [Client] handles:
//   - Default request headers
//   - Status mapping to [ErrNotFound], [ErrNetwork] and rate-limit errors
//   - HTTP observability hooks
//
// There is no response cache and no retry; both would carry state across
// resolution passes.
//
// [wporg]: github.com/matzehuels/plugdeps/pkg/integrations/wporg
package integrations
