// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package middleware

import (
	"net/http"
	"sort"
	"sync"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tomtom215/poigate/internal/logging"
)

// RequestSample is one completed request.
type RequestSample struct {
	Route      string
	Method     string
	Duration   time.Duration
	StatusCode int
	CacheHit   bool
}

// RouteStats aggregates the retained samples of one route.
type RouteStats struct {
	Route        string  `json:"route"`
	RequestCount int64   `json:"request_count"`
	ErrorCount   int64   `json:"error_count"`
	CacheHits    int64   `json:"cache_hits"`
	AvgMS        float64 `json:"avg_ms"`
	P50MS        int64   `json:"p50_ms"`
	P95MS        int64   `json:"p95_ms"`
	P99MS        int64   `json:"p99_ms"`
	MaxMS        int64   `json:"max_ms"`
}

// PerformanceMonitor keeps a sliding window of recent requests for latency
// percentiles per route and warns about slow ones.
type PerformanceMonitor struct {
	mu         sync.RWMutex
	samples    []RequestSample
	maxSamples int
	slow       time.Duration
}

// NewPerformanceMonitor retains up to maxSamples requests and logs requests
// slower than slow. A zero slow threshold disables the warning.
func NewPerformanceMonitor(maxSamples int, slow time.Duration) *PerformanceMonitor {
	if maxSamples <= 0 {
		maxSamples = 1000
	}
	return &PerformanceMonitor{
		samples:    make([]RequestSample, 0, maxSamples),
		maxSamples: maxSamples,
		slow:       slow,
	}
}

// Record adds a sample, dropping the oldest once the window is full.
func (pm *PerformanceMonitor) Record(s RequestSample) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if len(pm.samples) == pm.maxSamples {
		copy(pm.samples, pm.samples[1:])
		pm.samples = pm.samples[:len(pm.samples)-1]
	}
	pm.samples = append(pm.samples, s)
}

// Stats returns per-route statistics, busiest route first.
func (pm *PerformanceMonitor) Stats() []RouteStats {
	pm.mu.RLock()
	byRoute := make(map[string][]RequestSample)
	for _, s := range pm.samples {
		key := s.Method + " " + s.Route
		byRoute[key] = append(byRoute[key], s)
	}
	pm.mu.RUnlock()

	stats := make([]RouteStats, 0, len(byRoute))
	for route, samples := range byRoute {
		durations := make([]int64, len(samples))
		st := RouteStats{Route: route, RequestCount: int64(len(samples))}
		var sum int64
		for i, s := range samples {
			ms := s.Duration.Milliseconds()
			durations[i] = ms
			sum += ms
			if s.StatusCode >= http.StatusInternalServerError {
				st.ErrorCount++
			}
			if s.CacheHit {
				st.CacheHits++
			}
		}
		sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })

		st.AvgMS = float64(sum) / float64(len(durations))
		st.P50MS = percentile(durations, 0.50)
		st.P95MS = percentile(durations, 0.95)
		st.P99MS = percentile(durations, 0.99)
		st.MaxMS = durations[len(durations)-1]
		stats = append(stats, st)
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].RequestCount != stats[j].RequestCount {
			return stats[i].RequestCount > stats[j].RequestCount
		}
		return stats[i].Route < stats[j].Route
	})
	return stats
}

// Reset drops every sample.
func (pm *PerformanceMonitor) Reset() {
	pm.mu.Lock()
	pm.samples = pm.samples[:0]
	pm.mu.Unlock()
}

// Middleware records every request passing through it.
func (pm *PerformanceMonitor) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		route := RoutePattern(r)
		pm.Record(RequestSample{
			Route:      route,
			Method:     r.Method,
			Duration:   duration,
			StatusCode: statusOf(ww),
			CacheHit:   ww.Header().Get("X-Cache") == "HIT",
		})

		if pm.slow > 0 && duration > pm.slow {
			logging.CtxWarn(r.Context()).
				Str("method", r.Method).
				Str("route", route).
				Dur("duration", duration).
				Msg("Slow request detected")
		}
	})
}

// percentile picks the nearest-rank value of a sorted slice.
func percentile(sorted []int64, p float64) int64 {
	if len(sorted) == 0 {
		return 0
	}
	index := int(float64(len(sorted)-1) * p)
	return sorted[index]
}
