// Package metrics exposes Prometheus instrumentation for crawls and the API
// server.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metrics for the application.
type Registry struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Fetch metrics
	FetchesTotal  *prometheus.CounterVec
	FetchDuration prometheus.Histogram

	// Crawl metrics
	CrawlsTotal        *prometheus.CounterVec
	CrawlDuration      prometheus.Histogram
	CrawlNodesTotal    prometheus.Histogram
	CrawlEdgesTotal    prometheus.Histogram
	FrontierDepth      prometheus.Gauge
	SwitchesDiscovered prometheus.Counter

	registry *prometheus.Registry
}

// NewRegistry creates a metrics registry with all metrics initialized.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{registry: reg}
	r.initHTTPMetrics()
	r.initCrawlMetrics()
	return r
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry.
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// PrometheusRegistry returns the underlying Prometheus registry, for wiring
// into promhttp.
func (r *Registry) PrometheusRegistry() *prometheus.Registry {
	return r.registry
}

func (r *Registry) initHTTPMetrics() {
	r.HTTPRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "mantela_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	r.HTTPRequestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mantela_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	r.HTTPRequestsInFlight = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "mantela_http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)
}

func (r *Registry) initCrawlMetrics() {
	r.FetchesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "mantela_fetches_total",
			Help: "Total number of descriptor fetches by outcome",
		},
		[]string{"status"},
	)

	r.FetchDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mantela_fetch_duration_seconds",
			Help:    "Descriptor fetch latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	r.CrawlsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "mantela_crawls_total",
			Help: "Total number of crawls by outcome",
		},
		[]string{"status"},
	)

	r.CrawlDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mantela_crawl_duration_seconds",
			Help:    "End-to-end crawl duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		},
	)

	r.CrawlNodesTotal = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mantela_crawl_nodes",
			Help:    "Nodes discovered per crawl",
			Buckets: []float64{1, 5, 10, 50, 100, 500, 1000, 5000},
		},
	)

	r.CrawlEdgesTotal = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mantela_crawl_edges",
			Help:    "Edges discovered per crawl",
			Buckets: []float64{1, 5, 10, 50, 100, 500, 1000, 5000},
		},
	)

	r.FrontierDepth = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "mantela_frontier_depth",
			Help: "Current number of queued frontier items",
		},
	)

	r.SwitchesDiscovered = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "mantela_switches_discovered_total",
			Help: "Total number of distinct switch identities registered",
		},
	)
}

// RecordHTTPRequest records an HTTP request with its duration.
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordFetch records a single descriptor fetch.
func (r *Registry) RecordFetch(status string, duration time.Duration) {
	r.FetchesTotal.WithLabelValues(status).Inc()
	r.FetchDuration.Observe(duration.Seconds())
}

// RecordCrawl records a completed crawl.
func (r *Registry) RecordCrawl(status string, duration time.Duration, nodes, edges int) {
	r.CrawlsTotal.WithLabelValues(status).Inc()
	r.CrawlDuration.Observe(duration.Seconds())
	r.CrawlNodesTotal.Observe(float64(nodes))
	r.CrawlEdgesTotal.Observe(float64(edges))
}
