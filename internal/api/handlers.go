// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package api

import (
	"context"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/poigate/internal/cache"
	"github.com/tomtom215/poigate/internal/enrich"
	"github.com/tomtom215/poigate/internal/logging"
	"github.com/tomtom215/poigate/internal/metrics"
	"github.com/tomtom215/poigate/internal/middleware"
	"github.com/tomtom215/poigate/internal/models"
	"github.com/tomtom215/poigate/internal/search"
)

// Store is the backend surface the handlers read from. backend.Repository
// implements it; tests use an in-package fake.
type Store interface {
	enrich.Source
	search.TypeFinder

	Ping(ctx context.Context) error
	ListPOIs(ctx context.Context, p search.Params) ([]models.POIRow, error)
	POIFacets(ctx context.Context, p search.FacetParams) (json.RawMessage, error)
	POIBySlug(ctx context.Context, slug, lang string) (*models.POIRow, error)
	Autocomplete(ctx context.Context, query, city, lang string, limit int) ([]models.Suggestion, error)
	Collections(ctx context.Context, city string, offset, limit int) ([]models.CollectionRow, int, error)
	CollectionBySlug(ctx context.Context, slug, lang string) (*models.CollectionRow, error)
	CollectionPOIs(ctx context.Context, collectionID string, limit, offset int) ([]models.POIRow, error)
	SitemapPOIs(ctx context.Context, offset, limit int) ([]models.SitemapRow, int, error)
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: response cache plumbing and shared helpers
//   - handlers_pois.go: POI listing, facets and detail
//   - handlers_search.go: autocomplete
//   - handlers_collections.go: collections listing and detail
//   - handlers_sitemap.go: sitemap feed
//   - handlers_health.go: index, health probes and metrics
type Handler struct {
	store     Store
	engine    *enrich.Engine
	parser    *search.Parser
	caches    *cache.Families
	search    *metrics.SearchMetrics
	perfMon   *middleware.PerformanceMonitor
	version   string
	startTime time.Time
}

// Slow request threshold and sample window of the performance monitor.
const (
	perfSamples      = 1000
	slowRequestLimit = 2 * time.Second
)

// NewHandler creates the API handler.
//
// The free-text query parser shares the query_parse cache family, and the
// enrichment engine reads from the same store as the primary calls.
//
//	h := api.NewHandler(repo, cache.NewFamilies(cfg.Cache), version)
//	router := api.NewRouter(h, cfg)
func NewHandler(store Store, caches *cache.Families, version string) *Handler {
	return &Handler{
		store:     store,
		engine:    enrich.NewEngine(store),
		parser:    search.NewParser(store, caches.QueryParse),
		caches:    caches,
		search:    metrics.NewSearchMetrics(),
		perfMon:   middleware.NewPerformanceMonitor(perfSamples, slowRequestLimit),
		version:   version,
		startTime: time.Now(),
	}
}

// SearchMetrics exposes the in-memory search metrics, mainly for tests.
func (h *Handler) SearchMetrics() *metrics.SearchMetrics {
	return h.search
}

// PerformanceMonitor exposes the per-route latency monitor.
func (h *Handler) PerformanceMonitor() *middleware.PerformanceMonitor {
	return h.perfMon
}

// ClearCache purges every response cache family.
func (h *Handler) ClearCache() {
	h.caches.Purge()
	logging.Info().Msg("Response caches cleared")
}
