// Package metrics exposes Prometheus instrumentation for lpass invocations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// LookupMetrics records every lpass call made by a client. A nil
// *LookupMetrics is valid and records nothing.
type LookupMetrics struct {
	invocations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	batches     *prometheus.CounterVec
}

// NewLookupMetrics registers the lookup collectors with reg.
func NewLookupMetrics(reg prometheus.Registerer) *LookupMetrics {
	factory := promauto.With(reg)
	return &LookupMetrics{
		invocations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lpass_lookup_invocations_total",
			Help: "Total number of lpass invocations by action and result",
		}, []string{"action", "result"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lpass_lookup_invocation_duration_seconds",
			Help:    "Wall time of lpass invocations by action",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"action"}),
		batches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lpass_lookup_batches_total",
			Help: "Total number of lookup batches by result",
		}, []string{"result"}),
	}
}

// ObserveInvocation records one lpass call.
func (m *LookupMetrics) ObserveInvocation(action, result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.invocations.WithLabelValues(action, result).Inc()
	m.duration.WithLabelValues(action).Observe(elapsed.Seconds())
}

// ObserveBatch records the outcome of one batch run.
func (m *LookupMetrics) ObserveBatch(result string) {
	if m == nil {
		return
	}
	m.batches.WithLabelValues(result).Inc()
}

// WriteTextfile dumps everything in g to path in the Prometheus text
// format, for pickup by node_exporter's textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
