// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/poigate/internal/assemble"
	"github.com/tomtom215/poigate/internal/logging"
	"github.com/tomtom215/poigate/internal/models"
)

const (
	defaultSitemapLimit = 500
	sitemapScoreBatch   = 100
	msgSitemapFailed    = "Failed to build sitemap payload"
)

// SitemapItem is one POI of the sitemap feed. Score is on a 0-5 scale.
type SitemapItem struct {
	Slug      *string    `json:"slug"`
	UpdatedAt *time.Time `json:"updated_at"`
	Score     float64    `json:"score"`
}

// SitemapPagination is the paging block of the sitemap feed.
type SitemapPagination struct {
	Total   int  `json:"total"`
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	HasNext bool `json:"has_next"`
}

// SitemapPage is the data of GET /v1/sitemap/pois.
type SitemapPage struct {
	Items      []SitemapItem     `json:"items"`
	Pagination SitemapPagination `json:"pagination"`
}

// SitemapPOIs handles GET /v1/sitemap/pois, the feed consumed by the sitemap
// generator. It is not cached in-process.
func (h *Handler) SitemapPOIs(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req SitemapRequest
	if verr := bindQuery(r, &req); verr != nil {
		rw.ValidationError(verr)
		return
	}
	page := max(req.Page, 1)
	limit := req.Limit
	if limit == 0 {
		limit = defaultSitemapLimit
	}
	offset := (page - 1) * limit

	rows, total, err := h.store.SitemapPOIs(r.Context(), offset, limit)
	if err != nil {
		rw.InternalError(msgSitemapFailed, err)
		return
	}

	scores := h.sitemapScores(r.Context(), rows)
	items := make([]SitemapItem, len(rows))
	for i, row := range rows {
		slug := row.SlugFr
		if slug == nil || *slug == "" {
			slug = row.SlugEn
		}
		items[i] = SitemapItem{
			Slug:      slug,
			UpdatedAt: row.UpdatedAt,
			Score:     assemble.SitemapScore(scores[row.ID]),
		}
	}

	setCacheControl(w, maxAgeSitemap)
	rw.Success(SitemapPage{
		Items: items,
		Pagination: SitemapPagination{
			Total:   total,
			Page:    page,
			Limit:   limit,
			HasNext: offset+len(rows) < total,
		},
	})
}

// sitemapScores reads the latest gatto score of rows in batches. A failed
// batch is logged and its POIs keep the default score.
func (h *Handler) sitemapScores(ctx context.Context, rows []models.SitemapRow) map[string]*float64 {
	poiIDs := ids(rows, func(r *models.SitemapRow) string { return r.ID })
	scores := make(map[string]*float64, len(poiIDs))

	for start := 0; start < len(poiIDs); start += sitemapScoreBatch {
		batch := poiIDs[start:min(start+sitemapScoreBatch, len(poiIDs))]
		batchRows, err := h.store.Scores(ctx, batch)
		if err != nil {
			logging.CtxWarn(ctx).
				Err(err).
				Int("batch", start/sitemapScoreBatch+1).
				Msg("Failed to fetch sitemap scores batch, continuing with defaults")
			continue
		}
		// Rows are newest first; keep the first per POI.
		for _, s := range batchRows {
			if _, seen := scores[s.POIID]; !seen {
				scores[s.POIID] = s.GattoScore
			}
		}
	}
	return scores
}
