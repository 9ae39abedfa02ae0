// Package metrics provides Prometheus metrics for the resolution pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector used by the pipeline. All Record* methods
// are safe to call on a nil *Metrics so components can run without metrics.
type Metrics struct {
	registry *prometheus.Registry

	// Resolution metrics
	NameLookups  *prometheus.CounterVec
	CacheLookups *prometheus.CounterVec
	StaleResults *prometheus.CounterVec

	// Code presence metrics
	CodeBatches   prometheus.Counter
	CodeAddresses prometheus.Counter

	// Metadata metrics
	BackendCalls *prometheus.CounterVec

	// Navigation metrics
	LocationReplacements prometheus.Counter

	// Latency metrics
	StageLatency *prometheus.HistogramVec
}

// New creates a Metrics instance registered on its own registry, so tests
// and multiple views in one process never collide on registration.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "addrlens"
	}
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		NameLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "resolution",
			Name:      "name_lookups_total",
			Help:      "Name resolution requests sent to a naming service by outcome",
		}, []string{"endpoint", "outcome"}),
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Cache lookups by cache and result (hit, miss, shared)",
		}, []string{"cache", "result"}),
		StaleResults: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "resolution",
			Name:      "stale_results_dropped_total",
			Help:      "Results discarded because the input changed while they were in flight",
		}, []string{"stage"}),

		CodeBatches: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "code",
			Name:      "batches_total",
			Help:      "Batched eth_getCode requests sent to nodes",
		}),
		CodeAddresses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "code",
			Name:      "addresses_total",
			Help:      "Addresses whose code presence was looked up remotely",
		}),

		BackendCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "metadata",
			Name:      "backend_calls_total",
			Help:      "Verification backend calls by backend and outcome (found, notfound, error)",
		}, []string{"backend", "outcome"}),

		LocationReplacements: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "navigation",
			Name:      "location_replacements_total",
			Help:      "Canonical location replacements requested",
		}),

		StageLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_latency_seconds",
			Help:      "Latency of each pipeline stage in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler returns the HTTP handler serving this instance's metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) RecordNameLookup(endpoint, outcome string) {
	if m == nil {
		return
	}
	m.NameLookups.WithLabelValues(endpoint, outcome).Inc()
}

func (m *Metrics) RecordCacheLookup(cache, result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(cache, result).Inc()
}

func (m *Metrics) RecordStale(stage string) {
	if m == nil {
		return
	}
	m.StaleResults.WithLabelValues(stage).Inc()
}

func (m *Metrics) RecordCodeBatch(size int) {
	if m == nil {
		return
	}
	m.CodeBatches.Inc()
	m.CodeAddresses.Add(float64(size))
}

func (m *Metrics) RecordBackendCall(backend, outcome string) {
	if m == nil {
		return
	}
	m.BackendCalls.WithLabelValues(backend, outcome).Inc()
}

func (m *Metrics) RecordReplacement() {
	if m == nil {
		return
	}
	m.LocationReplacements.Inc()
}

// ObserveStage records the time elapsed since start for stage.
func (m *Metrics) ObserveStage(stage string, start time.Time) {
	if m == nil {
		return
	}
	m.StageLatency.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}
