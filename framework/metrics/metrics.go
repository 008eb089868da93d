// Package metrics counts container resolutions with Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/km-arc/go-container/framework/container"
)

// UnknownID labels failures for ids that are neither bound nor autowireable,
// so arbitrary requested ids cannot create new series.
const UnknownID = "unknown"

// Collector holds the container counters and the registry they live in.
type Collector struct {
	registry *prometheus.Registry

	resolutions *prometheus.CounterVec
	failures    *prometheus.CounterVec
}

// NewCollector creates a Collector backed by its own Prometheus registry.
func NewCollector() *Collector {
	m := &Collector{
		registry: prometheus.NewRegistry(),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "container",
			Name:      "resolutions_total",
			Help:      "Successful resolutions by id, including autowired dependencies.",
		}, []string{"id"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "container",
			Name:      "resolution_errors_total",
			Help:      "Failed Get calls by requested id (unknown ids share one label).",
		}, []string{"id"}),
	}
	m.registry.MustRegister(m.resolutions, m.failures)
	return m
}

// Attach subscribes the collector to c's resolution callbacks.
func (m *Collector) Attach(c *container.Container) {
	c.AfterResolving(func(id string, _ any) {
		m.resolutions.WithLabelValues(id).Inc()
	})
	c.OnResolveError(func(id string, _ error) {
		if !c.Has(id) && !c.Introspector().IsInstantiable(id) {
			id = UnknownID
		}
		m.failures.WithLabelValues(id).Inc()
	})
}

// Resolutions returns the success counter (exposed for tests and dashboards).
func (m *Collector) Resolutions() *prometheus.CounterVec { return m.resolutions }

// Failures returns the failure counter.
func (m *Collector) Failures() *prometheus.CounterVec { return m.failures }

// Handler serves the collector's registry in the Prometheus text format.
func (m *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
