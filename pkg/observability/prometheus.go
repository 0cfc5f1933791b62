package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the Prometheus metrics served at /metrics
type Collector struct {
	registry *prometheus.Registry

	// Query bus metrics
	QueryCount    *prometheus.CounterVec
	QueryDuration *prometheus.HistogramVec

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Cache metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
}

// NewCollector creates a collector on its own registry
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	queryCount := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Total number of queries by outcome",
		},
		[]string{"query", "outcome"},
	)

	queryDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Query handling duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"query"},
	)

	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_hits_total",
		Help:      "Total number of cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_misses_total",
		Help:      "Total number of cache misses",
	})

	registry.MustRegister(
		queryCount,
		queryDuration,
		httpRequests,
		httpDuration,
		cacheHits,
		cacheMisses,
	)

	return &Collector{
		registry:      registry,
		QueryCount:    queryCount,
		QueryDuration: queryDuration,
		HTTPRequests:  httpRequests,
		HTTPDuration:  httpDuration,
		CacheHits:     cacheHits,
		CacheMisses:   cacheMisses,
	}
}

// Registry exposes the underlying registry, mostly for tests
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Increment bumps the query counter. metric is the outcome: count, success or errors.
func (c *Collector) Increment(metric, label string) {
	c.QueryCount.WithLabelValues(label, metric).Inc()
}

// StartTimer starts a query duration observation
func (c *Collector) StartTimer(metric, label string) Timer {
	return &histogramTimer{
		observer: c.QueryDuration.WithLabelValues(label),
		start:    time.Now(),
	}
}

// RecordHTTPRequest records one served request
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, http.StatusText(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordCacheHit records a cache lookup result
func (c *Collector) RecordCacheHit(hit bool) {
	if hit {
		c.CacheHits.Inc()
		return
	}
	c.CacheMisses.Inc()
}

// Timer measures one operation
type Timer interface {
	Stop()
}

type histogramTimer struct {
	observer prometheus.Observer
	start    time.Time
}

func (t *histogramTimer) Stop() {
	t.observer.Observe(time.Since(t.start).Seconds())
}
