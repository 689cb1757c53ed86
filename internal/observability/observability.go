// Package observability bundles the application's Prometheus collectors
// behind a single registry.
package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aurinko-app/daycal/internal/observability/metrics"
)

// Metrics holds all component metric collectors.
type Metrics struct {
	ImageResolver *metrics.ImageResolverMetrics
	FetchQueue    *metrics.FetchQueueMetrics

	registry *prometheus.Registry
}

// NewMetrics creates a registry and registers all component collectors.
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	resolverMetrics, err := metrics.NewImageResolverMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create image resolver metrics: %w", err)
	}

	queueMetrics, err := metrics.NewFetchQueueMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create fetch queue metrics: %w", err)
	}

	return &Metrics{
		ImageResolver: resolverMetrics,
		FetchQueue:    queueMetrics,
		registry:      registry,
	}, nil
}

// Registry exposes the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler serving the metrics in Prometheus
// exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
