// Package metrics provides Prometheus collectors for the application's
// components.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// ImageResolverMetrics contains Prometheus metrics for image resolution
type ImageResolverMetrics struct {
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
	SimilarityHits   prometheus.Counter
	ImageDownloads   prometheus.Counter
	DownloadErrors   prometheus.Counter
	DownloadDuration prometheus.Histogram
	registry         *prometheus.Registry
}

// NewImageResolverMetrics creates a new instance of ImageResolverMetrics.
// It requires a Prometheus registry to register the metrics.
// It returns an error if metric registration fails.
func NewImageResolverMetrics(registry *prometheus.Registry) (*ImageResolverMetrics, error) {
	m := &ImageResolverMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register ImageResolver metrics: %w", err)
	}
	return m, nil
}

// initMetrics initializes all metrics for ImageResolverMetrics.
func (m *ImageResolverMetrics) initMetrics() {
	m.CacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "image_resolver_cache_hits_total",
		Help: "Total number of resolutions served from an existing assignment.",
	})

	m.CacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "image_resolver_cache_misses_total",
		Help: "Total number of resolutions that found no assigned image.",
	})

	m.SimilarityHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "image_resolver_similarity_hits_total",
		Help: "Total number of resolutions served by a similarity match.",
	})

	m.ImageDownloads = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "image_resolver_downloads_total",
		Help: "Total number of new image fetches.",
	})

	m.DownloadErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "image_resolver_download_errors_total",
		Help: "Total number of failed image fetches.",
	})

	m.DownloadDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "image_resolver_download_duration_seconds",
		Help:    "Duration of image fetches in seconds.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
	})
}

// IncrementCacheHits increases the cache hit counter by one.
func (m *ImageResolverMetrics) IncrementCacheHits() {
	m.CacheHits.Inc()
}

// IncrementCacheMisses increases the cache miss counter by one.
func (m *ImageResolverMetrics) IncrementCacheMisses() {
	m.CacheMisses.Inc()
}

// IncrementSimilarityHits increases the similarity hit counter by one.
func (m *ImageResolverMetrics) IncrementSimilarityHits() {
	m.SimilarityHits.Inc()
}

// IncrementImageDownloads increases the image download counter by one.
func (m *ImageResolverMetrics) IncrementImageDownloads() {
	m.ImageDownloads.Inc()
}

// IncrementDownloadErrors increases the download error counter by one.
func (m *ImageResolverMetrics) IncrementDownloadErrors() {
	m.DownloadErrors.Inc()
}

// ObserveDownloadDuration records the duration of an image fetch.
// The duration should be provided in seconds.
func (m *ImageResolverMetrics) ObserveDownloadDuration(durationSeconds float64) {
	m.DownloadDuration.Observe(durationSeconds)
}

// Collect implements the prometheus.Collector interface.
func (m *ImageResolverMetrics) Collect(ch chan<- prometheus.Metric) {
	ch <- m.CacheHits
	ch <- m.CacheMisses
	ch <- m.SimilarityHits
	ch <- m.ImageDownloads
	ch <- m.DownloadErrors
	ch <- m.DownloadDuration
}

// Describe implements the prometheus.Collector interface.
func (m *ImageResolverMetrics) Describe(ch chan<- *prometheus.Desc) {
	ch <- m.CacheHits.Desc()
	ch <- m.CacheMisses.Desc()
	ch <- m.SimilarityHits.Desc()
	ch <- m.ImageDownloads.Desc()
	ch <- m.DownloadErrors.Desc()
	ch <- m.DownloadDuration.Desc()
}
