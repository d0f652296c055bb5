// Package metrics exposes Prometheus collectors for the not-found service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JakeFAU/notfound-service/internal/reasons"
)

var (
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec
	reasonsServedTotal         *prometheus.CounterVec
	catalogLoadsTotal          *prometheus.CounterVec
	catalogEntries             prometheus.Gauge

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
			},
			[]string{"method", "route"},
		)

		reasonsServedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notfound_reasons_served_total",
				Help: "Total number of 404 reasons served, labeled by category and format.",
			},
			[]string{"category", "format"},
		)

		catalogLoadsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notfound_catalog_loads_total",
				Help: "Total number of catalog fetches, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		catalogEntries = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "notfound_catalog_entries",
				Help: "Number of entries in the most recently loaded catalog.",
			},
		)
	})
}

// SanitizeCategory bounds label cardinality: catalog entries may carry arbitrary categories,
// but only the recognized ones (plus the placeholder's) become label values.
func SanitizeCategory(category string) string {
	switch {
	case reasons.IsCategory(category):
		return category
	case category == reasons.Placeholder.Category:
		return category
	default:
		return "other"
	}
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveReason counts one served reason.
func ObserveReason(category, format string) {
	reasonsServedTotal.WithLabelValues(SanitizeCategory(category), format).Inc()
}

// ObserveCatalogLoad records a catalog fetch. Its signature matches reasons.WithObserver.
func ObserveCatalogLoad(outcome string, size int) {
	catalogLoadsTotal.WithLabelValues(outcome).Inc()
	if outcome != reasons.OutcomeError {
		catalogEntries.Set(float64(size))
	}
}
