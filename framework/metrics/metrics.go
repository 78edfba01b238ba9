// Package metrics exposes container activity as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/km-arc/dico/framework/container"
)

const namespace = "dico"

// Metrics owns a private Prometheus registry and the container counters.
type Metrics struct {
	registry     *prometheus.Registry
	instantiated *prometheus.CounterVec
	registered   *prometheus.GaugeVec
}

// Option configures Metrics.
type Option func(*options)

type options struct {
	runtime bool
}

// WithRuntimeCollectors adds the Go runtime and process collectors.
func WithRuntimeCollectors() Option {
	return func(o *options) { o.runtime = true }
}

// New creates Metrics with its counters registered.
func New(opts ...Option) *Metrics {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		instantiated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "services_instantiated_total",
				Help:      "Total number of service instances memoized by a container",
			},
			[]string{"container", "service"},
		),
		registered: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "parameters",
				Help:      "Number of parameters currently set in a container",
			},
			[]string{"container"},
		),
	}
	m.registry.MustRegister(m.instantiated, m.registered)

	if o.runtime {
		m.registry.MustRegister(collectors.NewGoCollector())
		m.registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	return m
}

// Observe counts every fresh instance memoized by c.
func (m *Metrics) Observe(c *container.Registry) {
	name := c.Name()
	c.AfterResolving(func(key string, _ any) {
		m.instantiated.WithLabelValues(name, key).Inc()
	})
}

// Snapshot records the current parameter count of c.
func (m *Metrics) Snapshot(c *container.Registry) {
	m.registered.WithLabelValues(c.Name()).Set(float64(len(c.Keys())))
}

// Instantiated reports the counter for one container and service.
func (m *Metrics) Instantiated(containerName, service string) prometheus.Counter {
	return m.instantiated.WithLabelValues(containerName, service)
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}
