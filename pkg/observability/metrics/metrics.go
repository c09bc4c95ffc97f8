// Package metrics exports resolution and HTTP events as Prometheus metrics.
//
//	reg := prometheus.NewRegistry()
//	h := metrics.New(metrics.WithRegistry(reg))
//	observability.SetResolveHooks(h)
//	observability.SetHTTPHooks(h)
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/plugdeps/pkg/observability"
)

// Config configures the Prometheus hooks.
type Config struct {
	// Namespace is the metrics namespace (default: "plugdeps").
	Namespace string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the Prometheus hooks.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "plugdeps",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Hooks implements [observability.ResolveHooks] and [observability.HTTPHooks].
type Hooks struct {
	installed       prometheus.Gauge
	required        prometheus.Gauge
	missing         prometheus.Gauge
	resolved        prometheus.Gauge
	fetchesTotal    *prometheus.CounterVec
	fetchDuration   prometheus.Histogram
	resolveDuration prometheus.Histogram
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	httpErrors      *prometheus.CounterVec
}

var (
	_ observability.ResolveHooks = (*Hooks)(nil)
	_ observability.HTTPHooks    = (*Hooks)(nil)
)

// New registers the metrics and returns hooks that update them.
// It panics if the metrics are already registered with the registry.
func New(opts ...Option) *Hooks {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	factory := promauto.With(cfg.Registry)

	gauge := func(name, help string) prometheus.Gauge {
		return factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   cfg.Namespace,
			Name:        name,
			Help:        help,
			ConstLabels: cfg.ConstLabels,
		})
	}
	histogram := func(name, help string) prometheus.Histogram {
		return factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Name:        name,
			Help:        help,
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.Buckets,
		})
	}

	return &Hooks{
		installed:       gauge("installed_plugins", "Installed plugins seen by the last resolution pass"),
		required:        gauge("required_slugs", "Distinct slugs required by installed plugins"),
		missing:         gauge("missing_slugs", "Required slugs with no installed plugin"),
		resolved:        gauge("resolved_slugs", "Required slugs with registry metadata"),
		fetchDuration:   histogram("fetch_duration_seconds", "Registry metadata query duration in seconds"),
		resolveDuration: histogram("resolve_duration_seconds", "Full resolution pass duration in seconds"),
		fetchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "fetches_total",
			Help:        "Registry metadata queries by result",
			ConstLabels: cfg.ConstLabels,
		}, []string{"result"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   "http",
			Name:        "requests_total",
			Help:        "Outgoing HTTP requests by host and status code",
			ConstLabels: cfg.ConstLabels,
		}, []string{"host", "code"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   "http",
			Name:        "request_duration_seconds",
			Help:        "Outgoing HTTP request duration in seconds",
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.Buckets,
		}, []string{"host"}),
		httpErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   "http",
			Name:        "errors_total",
			Help:        "Outgoing HTTP requests that failed without a response",
			ConstLabels: cfg.ConstLabels,
		}, []string{"host"}),
	}
}

func (h *Hooks) OnScanComplete(_ context.Context, components, required int) {
	h.installed.Set(float64(components))
	h.required.Set(float64(required))
}

func (h *Hooks) OnFetchStart(context.Context, string) {}

func (h *Hooks) OnFetchComplete(_ context.Context, _ string, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	h.fetchesTotal.WithLabelValues(result).Inc()
	h.fetchDuration.Observe(d.Seconds())
}

func (h *Hooks) OnResolveComplete(_ context.Context, missing, resolved int, d time.Duration) {
	h.missing.Set(float64(missing))
	h.resolved.Set(float64(resolved))
	h.resolveDuration.Observe(d.Seconds())
}

func (h *Hooks) OnRequest(context.Context, string, string, string) {}

func (h *Hooks) OnResponse(_ context.Context, _, host, _ string, code int, d time.Duration) {
	h.httpRequests.WithLabelValues(host, strconv.Itoa(code)).Inc()
	h.httpDuration.WithLabelValues(host).Observe(d.Seconds())
}

func (h *Hooks) OnError(_ context.Context, _, host, _ string, _ error) {
	h.httpErrors.WithLabelValues(host).Inc()
}
