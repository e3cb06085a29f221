package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/reactive/pkg/element"
	"github.com/vango-dev/reactive/pkg/vdom"
)

// MetricsConfig configures the Prometheus observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "reactive").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for callback and render duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus observer.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "reactive",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics is an element.Observer that records Prometheus metrics. It also
// carries the live server's connection and command metrics.
//
// Metrics collected (with the default namespace):
//   - reactive_lifecycle_total: lifecycle callbacks by tag and event
//   - reactive_lifecycle_duration_seconds: callback duration by tag and event
//   - reactive_property_updates_total: stored property changes by tag and property
//   - reactive_renders_total: renders by tag
//   - reactive_render_duration_seconds: render duration by tag
//   - reactive_patches_total: host patches applied by tag
//   - reactive_clients: connected live clients
//   - reactive_commands_total: client commands by op and status
type Metrics struct {
	lifecycleTotal    *prometheus.CounterVec
	lifecycleDuration *prometheus.HistogramVec
	propertyUpdates   *prometheus.CounterVec
	rendersTotal      *prometheus.CounterVec
	renderDuration    *prometheus.HistogramVec
	patchesTotal      *prometheus.CounterVec
	clients           prometheus.Gauge
	commandsTotal     *prometheus.CounterVec
}

// NewMetrics creates and registers the metrics. Registering twice with the
// same registry panics, as with promauto.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		lifecycleTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "lifecycle_total",
			Help:        "Total number of element lifecycle callbacks",
			ConstLabels: config.ConstLabels,
		}, []string{"tag", "event"}),

		lifecycleDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "lifecycle_duration_seconds",
			Help:        "Lifecycle callback duration in seconds, including renders",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"tag", "event"}),

		propertyUpdates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "property_updates_total",
			Help:        "Total number of stored property changes",
			ConstLabels: config.ConstLabels,
		}, []string{"tag", "property"}),

		rendersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Total number of element renders",
			ConstLabels: config.ConstLabels,
		}, []string{"tag"}),

		renderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "Render and patch duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"tag"}),

		patchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patches_total",
			Help:        "Total number of host patches applied",
			ConstLabels: config.ConstLabels,
		}, []string{"tag"}),

		clients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "clients",
			Help:        "Number of connected live clients",
			ConstLabels: config.ConstLabels,
		}),

		commandsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "commands_total",
			Help:        "Total number of client commands by op and status",
			ConstLabels: config.ConstLabels,
		}, []string{"op", "status"}),
	}
}

// Lifecycle implements element.Observer.
func (m *Metrics) Lifecycle(e *element.Element, event element.Event) func() {
	start := time.Now()
	m.lifecycleTotal.WithLabelValues(e.Tag(), string(event)).Inc()
	return func() {
		m.lifecycleDuration.WithLabelValues(e.Tag(), string(event)).Observe(time.Since(start).Seconds())
	}
}

// PropertyChanged implements element.Observer.
func (m *Metrics) PropertyChanged(e *element.Element, name string, _, _ any) {
	m.propertyUpdates.WithLabelValues(e.Tag(), name).Inc()
}

// Rendered implements element.Observer.
func (m *Metrics) Rendered(e *element.Element, patches []vdom.Patch, elapsed time.Duration) {
	m.rendersTotal.WithLabelValues(e.Tag()).Inc()
	m.renderDuration.WithLabelValues(e.Tag()).Observe(elapsed.Seconds())
	m.patchesTotal.WithLabelValues(e.Tag()).Add(float64(len(patches)))
}

// ClientConnected records a live client joining.
func (m *Metrics) ClientConnected() {
	m.clients.Inc()
}

// ClientDisconnected records a live client leaving.
func (m *Metrics) ClientDisconnected() {
	m.clients.Dec()
}

// Command records a client command and its outcome.
func (m *Metrics) Command(op string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.commandsTotal.WithLabelValues(op, status).Inc()
}
