// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/poigate/internal/assemble"
	"github.com/tomtom215/poigate/internal/cache"
	"github.com/tomtom215/poigate/internal/enrich"
	"github.com/tomtom215/poigate/internal/models"
	"github.com/tomtom215/poigate/internal/search"
)

const (
	defaultCollectionsLimit    = 12
	defaultCollectionPOIsLimit = 24

	msgCollectionsFailed  = "Failed to fetch collections"
	msgCollectionFailed   = "Failed to fetch collection"
	msgCollectionNotFound = "Collection not found"
)

// CollectionsPage is the data of GET /v1/collections.
type CollectionsPage struct {
	Items      []assemble.Collection `json:"items"`
	Pagination assemble.Pagination   `json:"pagination"`
}

// Collections handles GET /v1/collections.
func (h *Handler) Collections(w http.ResponseWriter, r *http.Request) {
	var req CollectionsRequest
	if verr := bindQuery(r, &req); verr != nil {
		NewResponseWriter(w, r).ValidationError(verr)
		return
	}

	page := max(req.Page, 1)
	limit := req.Limit
	if limit == 0 {
		limit = defaultCollectionsLimit
	}
	lang := assemble.NormalizeLang(req.Lang)

	route := cachedRoute{
		cache: h.caches.Collections,
		key: cache.Key(cache.FamilyCollections, map[string]any{
			"list":  true,
			"city":  req.City,
			"page":  page,
			"limit": limit,
			"lang":  lang,
		}),
		maxAge:  maxAgeCollections,
		failure: msgCollectionsFailed,
	}
	_, _ = h.serveCached(w, r, route, func(ctx context.Context) (any, bool, error) {
		rows, total, err := h.store.Collections(ctx, req.City, (page-1)*limit, limit)
		if err != nil {
			return nil, false, err
		}

		enr := h.engine.Enrich(ctx, assemble.CoverIDs(rows), enrich.Options{VariantKeys: enrich.CardVariants})
		items := make([]assemble.Collection, len(rows))
		for i := range rows {
			items[i] = assemble.CollectionSummary(&rows[i], enr, lang)
		}
		return CollectionsPage{
			Items:      items,
			Pagination: assemble.OffsetPagination(total, page, limit),
		}, enr.IsDegraded(), nil
	})
}

// CollectionBySlug handles GET /v1/collections/{slug}. The cursor is an
// offset cursor, so the page links both ways.
func (h *Handler) CollectionBySlug(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req CollectionRequest
	if verr := bindQuery(r, &req); verr != nil {
		rw.ValidationError(verr)
		return
	}
	slug := strings.ToLower(chi.URLParam(r, "slug"))
	if !validSlug(slug) {
		rw.NotFound(msgCollectionNotFound)
		return
	}

	offset := search.DecodeOffset(req.Cursor)
	limit := req.Limit
	if limit == 0 {
		limit = defaultCollectionPOIsLimit
	}
	lang := assemble.NormalizeLang(req.Lang)

	route := cachedRoute{
		cache: h.caches.Collections,
		key: cache.Key(cache.FamilyCollections, map[string]any{
			"slug":   slug,
			"offset": offset,
			"limit":  limit,
			"lang":   lang,
		}),
		maxAge:   maxAgeCollections,
		failure:  msgCollectionFailed,
		notFound: msgCollectionNotFound,
	}
	_, _ = h.serveCached(w, r, route, func(ctx context.Context) (any, bool, error) {
		row, err := h.store.CollectionBySlug(ctx, slug, lang)
		if err != nil {
			return nil, false, err
		}
		pois, err := h.store.CollectionPOIs(ctx, row.ID, limit, offset)
		if err != nil {
			return nil, false, err
		}

		poiIDs := ids(pois, func(p *models.POIRow) string { return p.ID })
		if row.CoverPOIID != nil && *row.CoverPOIID != "" {
			poiIDs = append(poiIDs, *row.CoverPOIID)
		}
		enr := h.engine.Enrich(ctx, poiIDs, assemble.ListOptions(assemble.ViewCard))
		return assemble.BuildCollectionDetail(row, pois, enr, lang, offset, limit), enr.IsDegraded(), nil
	})
}
