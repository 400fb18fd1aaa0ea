// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/poigate/internal/assemble"
	"github.com/tomtom215/poigate/internal/backend"
	"github.com/tomtom215/poigate/internal/cache"
	"github.com/tomtom215/poigate/internal/filters"
	"github.com/tomtom215/poigate/internal/metrics"
	"github.com/tomtom215/poigate/internal/models"
	"github.com/tomtom215/poigate/internal/search"
	"github.com/tomtom215/poigate/internal/validation"
)

const (
	msgPOIsFailed   = "Failed to fetch POIs"
	msgFacetsFailed = "Failed to fetch facets"
	msgPOIFailed    = "Failed to fetch POI"
	msgPOINotFound  = "POI not found"
)

// QueryInfo describes how a free-text query was applied.
type QueryInfo struct {
	Mode          search.Mode `json:"mode"`
	Display       string      `json:"display"`
	OriginalQuery string      `json:"original_query"`
	TypeKeys      []string    `json:"type_keys,omitempty"`
}

// OffsetPage is the /v1/pois payload when page is given.
type OffsetPage struct {
	Items      []any               `json:"items"`
	Pagination assemble.Pagination `json:"pagination"`
	Query      *QueryInfo          `json:"query,omitempty"`
}

// KeysetPage is the /v1/pois payload in cursor mode.
type KeysetPage struct {
	Items []any `json:"items"`
	assemble.Cursors
	Total int        `json:"total"`
	Query *QueryInfo `json:"query,omitempty"`
}

// POIs handles GET /v1/pois: filtered, sorted, paginated POI listing with an
// optional free-text query.
func (h *Handler) POIs(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rw := NewResponseWriter(w, r)

	var req POIListRequest
	if verr := bindQuery(r, &req); verr != nil {
		rw.ValidationError(verr)
		return
	}

	lang := assemble.NormalizeLang(req.Lang)
	set := filters.Normalize(req.FilterQuery.Raw())
	sort := search.ResolveSort(req.Sort)
	view := assemble.ResolveView(req.View)
	fields := filters.ParseCSV(req.Fields)
	limit := search.ClampLimit(req.Limit)

	var cursor *search.Keyset
	if req.Page == 0 {
		cursor = search.DecodeKeyset(req.Cursor)
	}

	query := strings.TrimSpace(req.Q)
	var parsed *search.Parsed
	if query != "" {
		p, err := h.parser.Parse(r.Context(), query, lang)
		if err != nil {
			h.search.RecordSearch(metrics.Sample{Query: query, ResponseTime: time.Since(start), Error: true})
			rw.ValidationError(validation.Invalid("q", validation.CodeInvalidString, err.Error()))
			return
		}
		parsed = p
	}

	keyParams := set.KeyParams()
	keyParams["sort"] = string(sort)
	keyParams["view"] = string(view)
	keyParams["fields"] = fields
	keyParams["limit"] = limit
	keyParams["lang"] = lang
	if req.Page > 0 {
		keyParams["page"] = req.Page
	} else if cursor != nil {
		keyParams["cursor"] = search.EncodeKeyset(*cursor)
	}
	if parsed != nil {
		keyParams["q"] = search.NormalizeQuery(query)
	}

	route := cachedRoute{
		cache:   h.caches.POIs,
		key:     cache.Key(cache.FamilyPOIs, keyParams),
		maxAge:  maxAgePOIs,
		failure: msgPOIsFailed,
	}
	hit, err := h.serveCached(w, r, route, func(ctx context.Context) (any, bool, error) {
		sreq := search.Request{
			Filters: set,
			Sort:    sort,
			Limit:   limit,
			Page:    req.Page,
			Cursor:  cursor,
			Query:   parsed,
		}
		return h.listPOIs(ctx, sreq, view, fields, lang)
	})

	if parsed != nil {
		h.search.RecordSearch(metrics.Sample{
			Query:        query,
			Mode:         string(parsed.Mode),
			CacheHit:     hit,
			ResponseTime: time.Since(start),
			Error:        err != nil,
		})
	}
}

func (h *Handler) listPOIs(ctx context.Context, req search.Request, view assemble.View, fields []string, lang string) (any, bool, error) {
	rows, err := h.store.ListPOIs(ctx, search.Compile(req))
	if err != nil {
		return nil, false, err
	}

	enr := h.engine.Enrich(ctx, ids(rows, func(r *models.POIRow) string { return r.ID }), assemble.ListOptions(view))

	items := make([]*assemble.Item, len(rows))
	for i := range rows {
		items[i] = assemble.Build(view, &rows[i], enr, lang)
	}
	if req.Sort.IsSegment() {
		assemble.SortBySegment(items, req.Sort)
	}
	filtered, err := assemble.FilterItems(items, fields)
	if err != nil {
		return nil, false, err
	}

	total := 0
	if len(rows) > 0 && rows[0].TotalCount != nil {
		total = *rows[0].TotalCount
	}
	info := queryInfo(req.Query)

	if req.Page > 0 {
		return OffsetPage{
			Items:      filtered,
			Pagination: assemble.OffsetPagination(total, req.Page, search.ClampLimit(req.Limit)),
			Query:      info,
		}, enr.IsDegraded(), nil
	}
	return KeysetPage{
		Items:   filtered,
		Cursors: assemble.KeysetPage(rows, search.ClampLimit(req.Limit), req.Sort),
		Total:   total,
		Query:   info,
	}, enr.IsDegraded(), nil
}

func queryInfo(p *search.Parsed) *QueryInfo {
	if p == nil {
		return nil
	}
	return &QueryInfo{
		Mode:          p.Mode,
		Display:       p.Display,
		OriginalQuery: p.OriginalQuery,
		TypeKeys:      p.TypeKeys,
	}
}

// POIFacets handles GET /v1/pois/facets. Facet computation is delegated to
// the backend and its {context, facets} object is returned verbatim.
func (h *Handler) POIFacets(w http.ResponseWriter, r *http.Request) {
	var req FacetsRequest
	if verr := bindQuery(r, &req); verr != nil {
		NewResponseWriter(w, r).ValidationError(verr)
		return
	}

	set := filters.Normalize(req.FilterQuery.Raw())
	sort := search.ResolveSort(req.Sort).Backend()

	keyParams := set.KeyParams()
	keyParams["sort"] = string(sort)
	keyParams["lang"] = assemble.NormalizeLang(req.Lang)

	route := cachedRoute{
		cache:   h.caches.Facets,
		key:     cache.Key(cache.FamilyFacets, keyParams),
		maxAge:  maxAgePOIs,
		failure: msgFacetsFailed,
	}
	_, _ = h.serveCached(w, r, route, func(ctx context.Context) (any, bool, error) {
		facets, err := h.store.POIFacets(ctx, search.FacetsFor(set, sort))
		return facets, false, err
	})
}

// POIBySlug handles GET /v1/pois/{slug}. Any language variant of the slug
// matches.
func (h *Handler) POIBySlug(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req LangRequest
	if verr := bindQuery(r, &req); verr != nil {
		rw.ValidationError(verr)
		return
	}
	slug := strings.ToLower(chi.URLParam(r, "slug"))
	if !validSlug(slug) {
		rw.NotFound(msgPOINotFound)
		return
	}
	lang := assemble.NormalizeLang(req.Lang)

	route := cachedRoute{
		cache:    h.caches.POIDetail,
		key:      cache.Key(cache.FamilyPOIDetail, map[string]any{"slug": slug, "lang": lang}),
		maxAge:   maxAgePOIs,
		failure:  msgPOIFailed,
		notFound: msgPOINotFound,
	}
	_, _ = h.serveCached(w, r, route, func(ctx context.Context) (any, bool, error) {
		row, err := h.store.POIBySlug(ctx, slug, lang)
		if err != nil {
			return nil, false, err
		}
		if row == nil {
			return nil, false, fmt.Errorf("poi %q: %w", slug, backend.ErrNotFound)
		}
		enr := h.engine.Enrich(ctx, []string{row.ID}, assemble.DetailOptions(row, lang))
		return assemble.BuildPOIDetail(row, enr, lang), enr.IsDegraded(), nil
	})
}
