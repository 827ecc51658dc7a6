// Package metrics exports store events as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/vango-store/pkg/store"
)

// Config configures the Prometheus observer.
type Config struct {
	// Namespace is the metrics namespace (default: "vango").
	Namespace string

	// Subsystem is the metrics subsystem (default: "store").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for listeners per publish.
	// Default: 0, 1, 2, 4, ... 256
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the Prometheus observer.
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

// defaultConfig returns the default metrics configuration.
func defaultConfig() Config {
	return Config{
		Namespace: "vango",
		Subsystem: "store",
		Buckets:   []float64{0, 1, 2, 4, 8, 16, 32, 64, 128, 256},
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Observer is a store.Observer that records Prometheus metrics.
//
// Metrics collected (with the default namespace and subsystem):
//   - vango_store_active_providers: Gauge of mounted provider instances by store
//   - vango_store_publishes_total: Counter of notifications by store
//   - vango_store_publish_listeners: Histogram of listeners per notification
//   - vango_store_selector_evaluations_total: Counter of selection reads by store and outcome
//   - vango_store_consumer_invalidations_total: Counter of selection changes by store and strategy
type Observer struct {
	activeProviders       *prometheus.GaugeVec
	publishes             *prometheus.CounterVec
	publishListeners      *prometheus.HistogramVec
	selectorEvaluations   *prometheus.CounterVec
	consumerInvalidations *prometheus.CounterVec
}

var _ store.Observer = (*Observer)(nil)

// New creates an Observer and registers its metrics.
// It panics if the metrics are already registered with the registry.
//
// Example:
//
//	reg := prometheus.NewRegistry()
//	provider, consumer := store.Create(produce,
//	    store.WithObserver(metrics.New(metrics.WithRegistry(reg))),
//	)
func New(opts ...Option) *Observer {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Observer{
		activeProviders: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_providers",
			Help:        "Number of mounted provider instances",
			ConstLabels: config.ConstLabels,
		}, []string{"store"}),

		publishes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "publishes_total",
			Help:        "Total number of store notifications",
			ConstLabels: config.ConstLabels,
		}, []string{"store"}),

		publishListeners: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "publish_listeners",
			Help:        "Number of listeners called per store notification",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"store"}),

		selectorEvaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "selector_evaluations_total",
			Help:        "Total number of selection reads by outcome, excluding cached re-validation outside render",
			ConstLabels: config.ConstLabels,
		}, []string{"store", "outcome"}),

		consumerInvalidations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "consumer_invalidations_total",
			Help:        "Total number of consumer selections replaced after a store change",
			ConstLabels: config.ConstLabels,
		}, []string{"store", "strategy"}),
	}
}

// StoreMounted implements store.Observer.
func (o *Observer) StoreMounted(name string) {
	o.activeProviders.WithLabelValues(name).Inc()
}

// StoreUnmounted implements store.Observer.
func (o *Observer) StoreUnmounted(name string) {
	o.activeProviders.WithLabelValues(name).Dec()
}

// Published implements store.Observer.
func (o *Observer) Published(name string, listeners int) {
	o.publishes.WithLabelValues(name).Inc()
	o.publishListeners.WithLabelValues(name).Observe(float64(listeners))
}

// SelectorEvaluated implements store.Observer.
func (o *Observer) SelectorEvaluated(name string, outcome store.Outcome) {
	o.selectorEvaluations.WithLabelValues(name, outcome.String()).Inc()
}

// ConsumerInvalidated implements store.Observer.
func (o *Observer) ConsumerInvalidated(name string, strategy store.Strategy) {
	o.consumerInvalidations.WithLabelValues(name, strategy.String()).Inc()
}
