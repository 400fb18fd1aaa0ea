// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package api

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/poigate/internal/backend"
	"github.com/tomtom215/poigate/internal/cache"
	"github.com/tomtom215/poigate/internal/config"
	"github.com/tomtom215/poigate/internal/models"
	"github.com/tomtom215/poigate/internal/search"
)

var errBackend = errors.New("postgrest list_pois: HTTP 500: relation \"secret_table\" does not exist")

// fakeStore is an in-memory Store. Fields are set before use; calls are
// recorded under mu because enrichment fetchers run concurrently.
type fakeStore struct {
	mu sync.Mutex

	pois        []models.POIRow
	poiBySlug   map[string]*models.POIRow
	facets      json.RawMessage
	suggestions []models.Suggestion
	collections []models.CollectionRow
	collPOIs    []models.POIRow
	sitemap     []models.SitemapRow
	sitemapTot  int
	photos      []models.Photo
	ratings     []models.RatingSnapshot
	scores      []models.ScoreRow
	typeKeys    []string

	listErr    error
	pingErr    error
	ratingsErr error
	// scoresErrOnCall fails the n-th Scores call (1-based).
	scoresErrOnCall int

	listCalls    int
	scoresCalls  int
	scoresBatch  []int
	lastParams   search.Params
	lastAutoCity string
}

func (f *fakeStore) Ping(context.Context) error { return f.pingErr }

func (f *fakeStore) ListPOIs(_ context.Context, p search.Params) ([]models.POIRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	f.lastParams = p
	if f.listErr != nil {
		return nil, fmt.Errorf("list pois: %w", f.listErr)
	}
	return f.pois, nil
}

func (f *fakeStore) POIFacets(context.Context, search.FacetParams) (json.RawMessage, error) {
	return f.facets, nil
}

func (f *fakeStore) POIBySlug(_ context.Context, slug, _ string) (*models.POIRow, error) {
	if row, ok := f.poiBySlug[slug]; ok {
		return row, nil
	}
	return nil, fmt.Errorf("poi %q: %w", slug, backend.ErrNotFound)
}

func (f *fakeStore) Autocomplete(_ context.Context, _, city, _ string, limit int) ([]models.Suggestion, error) {
	f.mu.Lock()
	f.lastAutoCity = city
	f.mu.Unlock()
	if limit < len(f.suggestions) {
		return f.suggestions[:limit], nil
	}
	return f.suggestions, nil
}

func (f *fakeStore) Collections(_ context.Context, _ string, offset, limit int) ([]models.CollectionRow, int, error) {
	end := min(offset+limit, len(f.collections))
	if offset >= end {
		return nil, len(f.collections), nil
	}
	return f.collections[offset:end], len(f.collections), nil
}

func (f *fakeStore) CollectionBySlug(_ context.Context, slug, _ string) (*models.CollectionRow, error) {
	for i := range f.collections {
		if c := f.collections[i]; c.Slug != nil && *c.Slug == slug {
			return &f.collections[i], nil
		}
	}
	return nil, fmt.Errorf("collection %q: %w", slug, backend.ErrNotFound)
}

func (f *fakeStore) CollectionPOIs(_ context.Context, _ string, limit, offset int) ([]models.POIRow, error) {
	end := min(offset+limit, len(f.collPOIs))
	if offset >= end {
		return nil, nil
	}
	return f.collPOIs[offset:end], nil
}

func (f *fakeStore) SitemapPOIs(_ context.Context, offset, limit int) ([]models.SitemapRow, int, error) {
	end := min(offset+limit, len(f.sitemap))
	if offset >= end {
		return nil, f.sitemapTot, nil
	}
	return f.sitemap[offset:end], f.sitemapTot, nil
}

func (f *fakeStore) TypesBySynonym(context.Context, string, string) ([]string, error) {
	return f.typeKeys, nil
}

func (f *fakeStore) TypesByLabel(context.Context, string, string) ([]string, error) {
	return nil, nil
}

func (f *fakeStore) PhotosWithVariants(context.Context, []string, []string) ([]models.Photo, error) {
	return f.photos, nil
}

func (f *fakeStore) Ratings(context.Context, []string) ([]models.RatingSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ratingsErr != nil {
		return nil, f.ratingsErr
	}
	return f.ratings, nil
}

func (f *fakeStore) Scores(_ context.Context, ids []string) ([]models.ScoreRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scoresCalls++
	f.scoresBatch = append(f.scoresBatch, len(ids))
	if f.scoresCalls == f.scoresErrOnCall {
		return nil, errors.New("scores unavailable")
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []models.ScoreRow
	for _, s := range f.scores {
		if want[s.POIID] {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) Mentions(context.Context, []string) ([]models.Mention, error) {
	return nil, nil
}

func (f *fakeStore) RecentMentions(context.Context, string, int) ([]models.Mention, error) {
	return nil, nil
}

func (f *fakeStore) Percentiles(context.Context, []string) ([]models.Percentile, error) {
	return nil, nil
}

func (f *fakeStore) TagLabels(context.Context, json.RawMessage, string) (json.RawMessage, error) {
	return json.RawMessage(`[{"key":"terrace","label":"Terrasse"}]`), nil
}

func (f *fakeStore) setRatingsErr(err error) {
	f.mu.Lock()
	f.ratingsErr = err
	f.mu.Unlock()
}

func (f *fakeStore) calls() (list, scores int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls, f.scoresCalls
}

// ============================================================================
// Fixtures
// ============================================================================

func testCacheConfig() config.CacheConfig {
	fam := config.CacheFamily{TTL: time.Minute, Size: 100}
	return config.CacheConfig{
		Autocomplete: fam,
		POIs:         fam,
		POIDetail:    fam,
		Collections:  fam,
		Facets:       fam,
		QueryParse:   fam,
	}
}

func newTestHandler(store Store) *Handler {
	return NewHandler(store, cache.NewFamilies(testCacheConfig()), "test")
}

func strp(s string) *string { return &s }
func f64p(f float64) *float64 { return &f }
func intp(n int) *int { return &n }
func timep(t time.Time) *time.Time { return &t }

func poiRow(id string, gatto float64, total int) models.POIRow {
	return models.POIRow{
		ID:          id,
		NameFr:      strp("Lieu " + id),
		SlugFr:      strp("lieu-" + id),
		PrimaryType: strp("restaurant"),
		Lat:         f64p(48.85),
		Lng:         f64p(2.35),
		GattoScore:  f64p(gatto),
		SortValue:   f64p(gatto),
		TotalCount:  intp(total),
	}
}
