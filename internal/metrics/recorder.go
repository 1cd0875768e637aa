// Package metrics exposes prometheus metrics about the dashboard's remote calls.
package metrics

import (
	"net/http"

	"github.com/Veraticus/ecgdash/internal/common"
	"github.com/Veraticus/ecgdash/internal/dashboard"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ecgdash"

// Recorder implements dashboard.Observer using Prometheus.
type Recorder struct {
	registry   *prometheus.Registry
	dispatched *prometheus.CounterVec
	completed  *prometheus.CounterVec
	rejected   *prometheus.CounterVec
	inflight   *prometheus.GaugeVec
	latency    *prometheus.HistogramVec
}

var _ dashboard.Observer = (*Recorder)(nil)

// New creates a recorder with its own registry, so several recorders can
// coexist in one process.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		dispatched: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_dispatched_total",
				Help:      "Total number of remote operations sent to the backend",
			},
			[]string{"operation"},
		),
		completed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_completed_total",
				Help:      "Total number of remote operations finished, by outcome",
			},
			[]string{"operation", "outcome"},
		),
		rejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_rejected_total",
				Help:      "Total number of operations refused before reaching the backend",
			},
			[]string{"operation", "reason"},
		),
		inflight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "operations_in_flight",
				Help:      "Remote operations currently awaiting a response",
			},
			[]string{"operation"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "Duration of remote operations in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// OperationDispatched records a call leaving for the backend.
func (r *Recorder) OperationDispatched(operation string) {
	r.dispatched.WithLabelValues(operation).Inc()
	r.inflight.WithLabelValues(operation).Inc()
}

// OperationCompleted records the outcome and latency of a call.
func (r *Recorder) OperationCompleted(ev dashboard.Event) {
	r.inflight.WithLabelValues(ev.Operation).Dec()
	r.completed.WithLabelValues(ev.Operation, string(ev.Outcome)).Inc()
	r.latency.WithLabelValues(ev.Operation).Observe(ev.Duration.Seconds())
}

// OperationRejected records a refused operation, labelled by error category.
func (r *Recorder) OperationRejected(operation string, err error) {
	r.rejected.WithLabelValues(operation, common.Category(err)).Inc()
}

// Registry returns the registry holding the recorder's metrics.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the recorder's metrics in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
