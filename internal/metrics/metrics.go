// Package metrics exposes Prometheus collectors for the message layer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values for the status dimension.
const (
	StatusOK        = "ok"
	StatusMalformed = "malformed"
	StatusMiss      = "miss"
)

// Config configures the protocol metrics.
type Config struct {
	// Namespace is the metrics namespace (default: "terranova").
	Namespace string

	// Subsystem is the metrics subsystem (default: "wire").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the protocol metrics.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
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
		Namespace: "terranova",
		Subsystem: "wire",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors for the message layer.
// A nil *Metrics is valid and records nothing, so callers can thread
// one through unconditionally.
type Metrics struct {
	parsesTotal     *prometheus.CounterVec
	serializesTotal *prometheus.CounterVec
	dispatchesTotal *prometheus.CounterVec
	scopeRejects    prometheus.Counter
	messageBytes    prometheus.Histogram
}

// New registers and returns the message layer collectors.
func New(opts ...Option) *Metrics {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		parsesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "parses_total",
			Help:        "Total documents parsed from the wire, by status",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		serializesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "serializes_total",
			Help:        "Total messages serialized for the wire, by scope",
			ConstLabels: config.ConstLabels,
		}, []string{"scope"}),

		dispatchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dispatches_total",
			Help:        "Total messages dispatched to a typed constructor, by status",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		scopeRejects: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "scope_rejections_total",
			Help:        "Total serializations refused for an invalid write scope",
			ConstLabels: config.ConstLabels,
		}),

		messageBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "message_bytes",
			Help:        "Size of parsed message documents in bytes",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{64, 256, 1024, 4096, 16384, 65536},
		}),
	}
}

// RecordParse records a parse attempt and, when it succeeded, the
// document size.
func (m *Metrics) RecordParse(status string, size int) {
	if m == nil {
		return
	}
	m.parsesTotal.WithLabelValues(status).Inc()
	if status == StatusOK {
		m.messageBytes.Observe(float64(size))
	}
}

// RecordSerialize records a serialization under the given scope.
func (m *Metrics) RecordSerialize(scope string) {
	if m == nil {
		return
	}
	m.serializesTotal.WithLabelValues(scope).Inc()
}

// RecordDispatch records a registry dispatch outcome.
func (m *Metrics) RecordDispatch(status string) {
	if m == nil {
		return
	}
	m.dispatchesTotal.WithLabelValues(status).Inc()
}

// RecordScopeReject records a serialization refused for scope reasons.
func (m *Metrics) RecordScopeReject() {
	if m == nil {
		return
	}
	m.scopeRejects.Inc()
}
