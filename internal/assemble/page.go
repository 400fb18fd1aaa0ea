// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package assemble

import (
	"math"
	"sort"

	"github.com/tomtom215/poigate/internal/models"
	"github.com/tomtom215/poigate/internal/search"
)

// SortBySegment re-sorts a page for a segment sort, descending on the segment
// value with ties broken by gatto score. Missing values sort last. Non-segment
// sorts leave items untouched. The sort is stable.
func SortBySegment(items []*Item, s search.Sort) {
	var key func(*Item) *float64
	switch s {
	case search.SortDigital:
		key = func(it *Item) *float64 { return it.Scores.Digital }
	case search.SortAwarded:
		key = func(it *Item) *float64 { return it.Scores.AwardsBonus }
	case search.SortFresh:
		key = func(it *Item) *float64 { return it.Scores.FreshnessBonus }
	default:
		return
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := valueOrLowest(key(items[i])), valueOrLowest(key(items[j]))
		if a != b {
			return a > b
		}
		return valueOrLowest(items[i].Scores.Gatto) > valueOrLowest(items[j].Scores.Gatto)
	})
}

func valueOrLowest(p *float64) float64 {
	if p == nil || math.IsNaN(*p) {
		return math.Inf(-1)
	}
	return *p
}

// Pagination is the metadata of an offset-paginated page.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// OffsetPagination computes page metadata. A non-positive limit yields zero pages.
func OffsetPagination(total, page, limit int) Pagination {
	p := Pagination{Page: page, Limit: limit, Total: total}
	if limit > 0 && total > 0 {
		p.TotalPages = (total + limit - 1) / limit
	}
	p.HasNext = page < p.TotalPages
	p.HasPrev = page > 1
	return p
}

// Cursors is the metadata of a keyset page. PreviousCursor is always null.
type Cursors struct {
	NextCursor     *string `json:"next_cursor"`
	PreviousCursor *string `json:"previous_cursor"`
}

// KeysetPage returns the cursors for rows fetched with limit. A next cursor is
// only emitted for a full page. Segment sorts are ordered by gatto score on the
// backend, so their cursor uses it too.
func KeysetPage(rows []models.POIRow, limit int, s search.Sort) Cursors {
	if limit <= 0 || len(rows) != limit {
		return Cursors{}
	}
	last := rows[len(rows)-1]

	var score float64
	switch {
	case !s.IsSegment() && last.SortValue != nil:
		score = *last.SortValue
	case last.GattoScore != nil:
		score = *last.GattoScore
	}
	next := search.EncodeKeyset(search.Keyset{Score: score, ID: last.ID})
	return Cursors{NextCursor: &next}
}

// SitemapScore rescales a 0-100 score to 0-5 with two decimals.
func SitemapScore(score100 *float64) float64 {
	if score100 == nil || math.IsNaN(*score100) || math.IsInf(*score100, 0) {
		return 0
	}
	v := math.Min(math.Max(*score100/20, 0), 5)
	return math.Round(v*100) / 100
}
