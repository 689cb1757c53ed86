package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// FetchQueueMetrics contains Prometheus metrics for the fetch queue
type FetchQueueMetrics struct {
	Submitted prometheus.Counter
	Coalesced prometheus.Counter
	Executed  prometheus.Counter
	InFlight  prometheus.Gauge
	Queued    prometheus.Gauge
	registry  *prometheus.Registry
}

// NewFetchQueueMetrics creates a new instance of FetchQueueMetrics.
func NewFetchQueueMetrics(registry *prometheus.Registry) (*FetchQueueMetrics, error) {
	m := &FetchQueueMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register FetchQueue metrics: %w", err)
	}
	return m, nil
}

func (m *FetchQueueMetrics) initMetrics() {
	m.Submitted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fetch_queue_submitted_total",
		Help: "Total number of work submissions.",
	})

	m.Coalesced = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fetch_queue_coalesced_total",
		Help: "Total number of submissions attached to an in-flight execution.",
	})

	m.Executed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fetch_queue_executed_total",
		Help: "Total number of work executions.",
	})

	m.InFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fetch_queue_in_flight",
		Help: "Number of currently executing work items.",
	})

	m.Queued = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fetch_queue_queued",
		Help: "Number of work items waiting for a worker slot.",
	})
}

// IncrementSubmitted increases the submission counter by one.
func (m *FetchQueueMetrics) IncrementSubmitted() {
	m.Submitted.Inc()
}

// IncrementCoalesced increases the coalesced counter by one.
func (m *FetchQueueMetrics) IncrementCoalesced() {
	m.Coalesced.Inc()
}

// IncrementExecuted increases the execution counter by one.
func (m *FetchQueueMetrics) IncrementExecuted() {
	m.Executed.Inc()
}

// SetInFlight updates the in-flight gauge.
func (m *FetchQueueMetrics) SetInFlight(n float64) {
	m.InFlight.Set(n)
}

// SetQueued updates the queued gauge.
func (m *FetchQueueMetrics) SetQueued(n float64) {
	m.Queued.Set(n)
}

// Collect implements the prometheus.Collector interface.
func (m *FetchQueueMetrics) Collect(ch chan<- prometheus.Metric) {
	ch <- m.Submitted
	ch <- m.Coalesced
	ch <- m.Executed
	ch <- m.InFlight
	ch <- m.Queued
}

// Describe implements the prometheus.Collector interface.
func (m *FetchQueueMetrics) Describe(ch chan<- *prometheus.Desc) {
	ch <- m.Submitted.Desc()
	ch <- m.Coalesced.Desc()
	ch <- m.Executed.Desc()
	ch <- m.InFlight.Desc()
	ch <- m.Queued.Desc()
}
