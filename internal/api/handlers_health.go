// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/poigate/internal/cache"
	"github.com/tomtom215/poigate/internal/logging"
	"github.com/tomtom215/poigate/internal/metrics"
	"github.com/tomtom215/poigate/internal/middleware"
)

// readyTimeout bounds the backend ping of the readiness probe.
const readyTimeout = 3 * time.Second

// Endpoints is the route list advertised by the /v1 index.
var Endpoints = []string{
	"/v1/pois",
	"/v1/pois/facets",
	"/v1/pois/{slug}",
	"/v1/autocomplete",
	"/v1/collections",
	"/v1/collections/{slug}",
	"/v1/sitemap/pois",
	"/v1/metrics",
}

// IndexInfo is the data of GET /v1.
type IndexInfo struct {
	Status    string   `json:"status"`
	Version   string   `json:"version"`
	Endpoints []string `json:"endpoints"`
	Uptime    int64    `json:"uptime"`
}

// HealthStatus is the data of the health probes.
type HealthStatus struct {
	Status  string  `json:"status"`
	Version string  `json:"version"`
	Uptime  float64 `json:"uptime"`
	Backend string  `json:"backend,omitempty"`
}

// MetricsInfo is the data of GET /v1/metrics.
type MetricsInfo struct {
	metrics.Snapshot
	Routes []middleware.RouteStats `json:"routes"`
	Caches []cache.Stats           `json:"caches"`
}

// Index handles GET /v1 and GET /.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, IndexInfo{
		Status:    "ok",
		Version:   h.version,
		Endpoints: Endpoints,
		Uptime:    int64(time.Since(h.startTime).Seconds()),
	})
}

// Health handles liveness probe requests.
// Returns 200 OK if the process is alive, regardless of the backend.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, HealthStatus{
		Status:  "healthy",
		Version: h.version,
		Uptime:  time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests.
// Returns 200 OK only if the backend answers a trivial read, 503 otherwise.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		logging.CtxWarn(r.Context()).Err(err).Msg("Readiness check failed")
		NewResponseWriter(w, r).ServiceUnavailable(MsgNotReady)
		return
	}

	WriteSuccess(w, r, HealthStatus{
		Status:  "ready",
		Version: h.version,
		Uptime:  time.Since(h.startTime).Seconds(),
		Backend: "connected",
	})
}

// Metrics handles GET /v1/metrics: search metrics, per-route latency and
// response cache statistics.
func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, MetricsInfo{
		Snapshot: h.search.Snapshot(),
		Routes:   h.perfMon.Stats(),
		Caches:   h.caches.Stats(),
	})
}
