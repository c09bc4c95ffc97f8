// Package tracing records registry fetches as OpenTelemetry spans.
//
// Each [observability.ResolveHooks.OnFetchStart] opens a span named
// "plugdeps.fetch" that is ended by the matching OnFetchComplete. Failed
// fetches are marked with an error status; they remain ordinary events for
// the resolution pass itself.
package tracing

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/matzehuels/plugdeps/pkg/observability"
)

const defaultTracerName = "plugdeps"

// Hooks implements [observability.ResolveHooks] with spans.
type Hooks struct {
	observability.NoopResolveHooks

	tracer trace.Tracer

	mu    sync.Mutex
	spans map[string][]trace.Span // open spans per slug, oldest first
}

// New creates hooks using the global tracer provider.
func New() *Hooks {
	return NewWithProvider(otel.GetTracerProvider())
}

// NewWithProvider creates hooks using tp.
func NewWithProvider(tp trace.TracerProvider) *Hooks {
	return &Hooks{
		tracer: tp.Tracer(defaultTracerName),
		spans:  make(map[string][]trace.Span),
	}
}

func (h *Hooks) OnFetchStart(ctx context.Context, slug string) {
	_, span := h.tracer.Start(ctx, "plugdeps.fetch",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("plugdeps.slug", slug)),
	)
	h.mu.Lock()
	h.spans[slug] = append(h.spans[slug], span)
	h.mu.Unlock()
}

func (h *Hooks) OnFetchComplete(_ context.Context, slug string, d time.Duration, err error) {
	h.mu.Lock()
	open := h.spans[slug]
	if len(open) == 0 {
		h.mu.Unlock()
		return
	}
	span := open[0]
	if len(open) == 1 {
		delete(h.spans, slug)
	} else {
		h.spans[slug] = open[1:]
	}
	h.mu.Unlock()

	span.SetAttributes(attribute.Int64("plugdeps.duration_ms", d.Milliseconds()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

func (h *Hooks) OnResolveComplete(ctx context.Context, missing, resolved int, _ time.Duration) {
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.Int("plugdeps.missing", missing),
		attribute.Int("plugdeps.resolved", resolved),
	)
}
