package observability

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusFactory is a MetricFactory backed by Prometheus collectors.
// Dotted metric names become underscored; counters get a _total suffix.
type PrometheusFactory struct {
	reg     prometheus.Registerer
	buckets []float64
}

// NewPrometheusFactory registers every created metric with reg.
func NewPrometheusFactory(reg prometheus.Registerer) *PrometheusFactory {
	return &PrometheusFactory{reg: reg, buckets: prometheus.ExponentialBuckets(1, 10, 8)}
}

// Counter implements MetricFactory.
func (f *PrometheusFactory) Counter(name string) Counter {
	c := prometheus.NewCounter(prometheus.CounterOpts{
		Name: promName(name) + "_total",
		Help: "Count of " + name + " events.",
	})
	f.reg.MustRegister(c)
	return c
}

// Histogram implements MetricFactory.
func (f *PrometheusFactory) Histogram(name string) Histogram {
	h := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    promName(name),
		Help:    "Distribution of " + name + ".",
		Buckets: f.buckets,
	})
	f.reg.MustRegister(h)
	return h
}

func promName(name string) string {
	return strings.NewReplacer(".", "_", "-", "_").Replace(name)
}
