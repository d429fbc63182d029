package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// LatencyBuckets are the default histogram bounds in milliseconds. A full
// match usually simulates in well under 50ms; HTTP calls that queue behind a
// synchronous simulation land in the upper buckets.
var LatencyBuckets = []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500} //nolint:gochecknoglobals // read-only defaults

// Option configures a Manager before its collectors are registered.
type Option func(*Manager)

// WithNamespace replaces the "matchday" metric name prefix.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithSubsystem replaces the "service" subsystem.
func WithSubsystem(subsystem string) Option {
	return func(m *Manager) {
		if subsystem != "" {
			m.subsystem = subsystem
		}
	}
}

// WithHistogramBuckets overrides LatencyBuckets for every histogram.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = append([]float64(nil), buckets...)
		}
	}
}

// WithConstLabels attaches fixed labels, e.g. an instance name, to every
// collector.
func WithConstLabels(labels map[string]string) Option {
	return func(m *Manager) {
		if len(labels) == 0 {
			return
		}
		m.constLabels = make(prometheus.Labels, len(labels))
		for k, v := range labels {
			m.constLabels[k] = v
		}
	}
}

// WithPrometheusRegistry registers the collectors somewhere other than the
// default registerer. Tests pass a fresh registry per manager.
func WithPrometheusRegistry(registry prometheus.Registerer) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}
