// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// or inject them per resolution pass to receive events about scanning,
// registry fetches and HTTP calls.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Backends live in subpackages ([metrics], [tracing]) so the core stays
// free of observability frameworks.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetResolveHooks(&myResolveHooks{})
//	    observability.SetHTTPHooks(&myHTTPHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Resolve().OnFetchStart(ctx, slug)
//	// ... query the registry ...
//	observability.Resolve().OnFetchComplete(ctx, slug, duration, err)
//
// [metrics]: github.com/matzehuels/plugdeps/pkg/observability/metrics
// [tracing]: github.com/matzehuels/plugdeps/pkg/observability/tracing
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Resolve Hooks
// =============================================================================

// ResolveHooks receives events from a dependency resolution pass.
type ResolveHooks interface {
	// OnScanComplete fires once the plugin set is scanned and sanitized.
	OnScanComplete(ctx context.Context, components, required int)

	// Registry fetch events, one pair per required slug.
	OnFetchStart(ctx context.Context, slug string)
	OnFetchComplete(ctx context.Context, slug string, duration time.Duration, err error)

	// OnResolveComplete fires at the end of a pass.
	OnResolveComplete(ctx context.Context, missing, resolved int, duration time.Duration)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopResolveHooks is a no-op implementation of ResolveHooks.
type NoopResolveHooks struct{}

func (NoopResolveHooks) OnScanComplete(context.Context, int, int)                      {}
func (NoopResolveHooks) OnFetchStart(context.Context, string)                          {}
func (NoopResolveHooks) OnFetchComplete(context.Context, string, time.Duration, error) {}
func (NoopResolveHooks) OnResolveComplete(context.Context, int, int, time.Duration)    {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Composition
// =============================================================================

// CombineResolve fans events out to every non-nil hook in order.
func CombineResolve(hooks ...ResolveHooks) ResolveHooks {
	var hs multiResolve
	for _, h := range hooks {
		if h != nil {
			hs = append(hs, h)
		}
	}
	if len(hs) == 0 {
		return NoopResolveHooks{}
	}
	if len(hs) == 1 {
		return hs[0]
	}
	return hs
}

type multiResolve []ResolveHooks

func (m multiResolve) OnScanComplete(ctx context.Context, components, required int) {
	for _, h := range m {
		h.OnScanComplete(ctx, components, required)
	}
}

func (m multiResolve) OnFetchStart(ctx context.Context, slug string) {
	for _, h := range m {
		h.OnFetchStart(ctx, slug)
	}
}

func (m multiResolve) OnFetchComplete(ctx context.Context, slug string, d time.Duration, err error) {
	for _, h := range m {
		h.OnFetchComplete(ctx, slug, d, err)
	}
}

func (m multiResolve) OnResolveComplete(ctx context.Context, missing, resolved int, d time.Duration) {
	for _, h := range m {
		h.OnResolveComplete(ctx, missing, resolved, d)
	}
}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	resolveHooks ResolveHooks = NoopResolveHooks{}
	httpHooks    HTTPHooks    = NoopHTTPHooks{}
	hooksMu      sync.RWMutex
)

// SetResolveHooks registers custom resolve hooks.
// This should be called once at application startup before any resolution.
func SetResolveHooks(h ResolveHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		resolveHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Resolve returns the registered resolve hooks.
func Resolve() ResolveHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return resolveHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	resolveHooks = NoopResolveHooks{}
	httpHooks = NoopHTTPHooks{}
}
