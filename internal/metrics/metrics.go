// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus collectors registered on the default registry and exposed on /metrics.

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of API requests currently in flight",
		},
	)

	// Backend (PostgREST) Metrics
	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backend_request_duration_seconds",
			Help:    "Duration of PostgREST calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"resource"},
	)

	BackendRequestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backend_request_errors_total",
			Help: "Total number of failed PostgREST calls",
		},
		[]string{"resource", "error_type"},
	)

	BackendRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backend_retries_total",
			Help: "Total number of retried PostgREST calls",
		},
		[]string{"resource"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total requests through the circuit breaker by result",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Response Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of response cache hits",
		},
		[]string{"family"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of response cache misses",
		},
		[]string{"family"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of response cache evictions (capacity or expiry)",
		},
		[]string{"family"},
	)

	CacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of entries per response cache family",
		},
		[]string{"family"},
	)

	// Enrichment Metrics
	EnrichmentFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_failures_total",
			Help: "Total number of enrichment lookups that failed and were skipped",
		},
		[]string{"facet"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordBackendCall records the latency of one PostgREST call and, when err is
// non-nil, counts it under errorType.
func RecordBackendCall(resource string, duration time.Duration, errorType string) {
	BackendRequestDuration.WithLabelValues(resource).Observe(duration.Seconds())
	if errorType != "" {
		BackendRequestErrors.WithLabelValues(resource, errorType).Inc()
	}
}

// RecordEnrichmentFailure counts a skipped enrichment facet.
func RecordEnrichmentFailure(facet string) {
	EnrichmentFailures.WithLabelValues(facet).Inc()
}

// RecordAppInfo publishes the build version.
func RecordAppInfo(version string) {
	AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
}

// RecordUptime sets the uptime gauge.
func RecordUptime(uptime time.Duration) {
	AppUptime.Set(uptime.Seconds())
}

// RecordCacheEntries sets the current size of a cache family.
func RecordCacheEntries(family string, entries int64) {
	CacheEntries.WithLabelValues(family).Set(float64(entries))
}
