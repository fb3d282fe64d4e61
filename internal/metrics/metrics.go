// Package metrics exposes the Prometheus collectors shared by the service.
//
// All collectors live on a dedicated registry so the process does not publish
// the default Go runtime series twice.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "reelscout"
)

var registry = prometheus.NewRegistry() //nolint:gochecknoglobals // process-wide registry

var (
	catalogRequests = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "catalog",
		Name:      "requests_total",
		Help:      "Catalog page requests by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	catalogLatency = promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "catalog",
		Name:      "request_duration_milliseconds",
		Help:      "Catalog page request latency in milliseconds.",
		Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"endpoint"})

	aggregations = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "discovery",
		Name:      "aggregations_total",
		Help:      "Discovery aggregation passes by view and outcome (ok, partial, failed).",
	}, []string{"view", "outcome"})

	aggregatedItems = promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "discovery",
		Name:      "result_items",
		Help:      "Number of items returned per aggregation pass.",
		Buckets:   []float64{0, 5, 10, 20, 30, 50, 100},
	}, []string{"view"})

	recentStoreErrors = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "recent",
		Name:      "store_errors_total",
		Help:      "Recent-search backend failures by operation.",
	}, []string{"op"})

	httpRequests = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route, method and status code.",
	}, []string{"route", "method", "status_code"})

	httpDuration = promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})
)

// Registry returns the registry holding every collector of this package.
func Registry() *prometheus.Registry {
	return registry
}

// RecordCatalogRequest counts one catalog call and observes its latency.
func RecordCatalogRequest(endpoint string, err error, elapsed time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	catalogRequests.WithLabelValues(endpoint, outcome).Inc()
	catalogLatency.WithLabelValues(endpoint).Observe(float64(elapsed.Milliseconds()))
}

// RecordAggregation counts one aggregation pass for a view.
func RecordAggregation(view, outcome string, items int) {
	aggregations.WithLabelValues(view, outcome).Inc()
	aggregatedItems.WithLabelValues(view).Observe(float64(items))
}

// RecordRecentStoreError counts a recent-search backend failure.
func RecordRecentStoreError(op string) {
	recentStoreErrors.WithLabelValues(op).Inc()
}

// RecordHTTPRequest counts one HTTP request and observes its duration.
func RecordHTTPRequest(route, method string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(route, method).Observe(float64(elapsed.Milliseconds()))
}
