// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

/*
Package enrich gathers the auxiliary data attached to a page of POIs.

A listing row only carries what list_pois returns. Photos, Google ratings,
score breakdowns, press mentions, category percentiles and tag labels live in
separate tables and are fetched after the primary call, all at once:

	res := engine.Enrich(ctx, ids, enrich.Options{
		VariantKeys: enrich.CardVariants,
		Ratings:     true,
		Mentions:    true,
	})

Every fetcher runs in its own goroutine. A failing fetcher is logged, counted
in enrichment_failures_total and leaves its map empty; it never fails the
request and never cancels its siblings. Absence of a key in a Result map means
"no data" for that POI.
*/
package enrich

import (
	"context"
	"slices"
	"sync"

	"github.com/goccy/go-json"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/poigate/internal/logging"
	"github.com/tomtom215/poigate/internal/metrics"
	"github.com/tomtom215/poigate/internal/models"
	"github.com/tomtom215/poigate/internal/tracing"
)

// Facet names, used as the facet label of enrichment_failures_total.
const (
	FacetPhotos         = "photos"
	FacetRatings        = "ratings"
	FacetScores         = "scores"
	FacetMentions       = "mentions"
	FacetRecentMentions = "recent_mentions"
	FacetPercentiles    = "percentiles"
	FacetTagLabels      = "tag_labels"
)

// Source is the backend surface the engine reads from. backend.Repository
// implements it.
type Source interface {
	PhotosWithVariants(ctx context.Context, poiIDs, variantKeys []string) ([]models.Photo, error)
	Ratings(ctx context.Context, poiIDs []string) ([]models.RatingSnapshot, error)
	Scores(ctx context.Context, poiIDs []string) ([]models.ScoreRow, error)
	Mentions(ctx context.Context, poiIDs []string) ([]models.Mention, error)
	RecentMentions(ctx context.Context, poiID string, limit int) ([]models.Mention, error)
	Percentiles(ctx context.Context, poiIDs []string) ([]models.Percentile, error)
	TagLabels(ctx context.Context, tags json.RawMessage, lang string) (json.RawMessage, error)
}

// Options selects the fetchers to run. Zero value fetches nothing.
type Options struct {
	// VariantKeys enables the photo fetcher. Keys without a density suffix
	// expand to @1x and @2x.
	VariantKeys []string
	Ratings     bool
	Scores      bool
	Mentions    bool
	Percentiles bool

	// RecentMentions > 0 loads that many recent mentions of the first id.
	RecentMentions int

	// Tags enables the label lookup when non-empty.
	Tags json.RawMessage
	Lang string
}

// Variant key sets used by the views.
var (
	CardVariants   = []string{"card_sq"}
	DetailVariants = []string{"card_sq", "detail", "thumb_small"}
)

// Result holds the enrichment maps, keyed by POI id except Variants which is
// keyed by photo id.
type Result struct {
	Photos         map[string][]models.Photo
	Variants       map[string][]models.PhotoVariant
	Ratings        map[string]models.RatingSnapshot
	Scores         map[string]models.ScoreRow
	Mentions       map[string]MentionSummary
	Percentiles    map[string]models.Percentile
	RecentMentions []MentionDetail
	TagLabels      json.RawMessage

	mu       sync.Mutex
	degraded []string
}

// Degraded lists the facets whose fetcher failed, sorted. A degraded result
// is served but must not be cached.
func (r *Result) Degraded() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := slices.Clone(r.degraded)
	slices.Sort(out)
	return out
}

// IsDegraded reports whether any fetcher failed.
func (r *Result) IsDegraded() bool {
	if r == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.degraded) > 0
}

func (r *Result) markDegraded(facet string) {
	r.mu.Lock()
	r.degraded = append(r.degraded, facet)
	r.mu.Unlock()
}

func newResult() *Result {
	return &Result{
		Photos:      map[string][]models.Photo{},
		Variants:    map[string][]models.PhotoVariant{},
		Ratings:     map[string]models.RatingSnapshot{},
		Scores:      map[string]models.ScoreRow{},
		Mentions:    map[string]MentionSummary{},
		Percentiles: map[string]models.Percentile{},
	}
}

// Engine runs enrichment fetchers against a Source.
type Engine struct {
	src Source
}

// NewEngine creates an engine reading from src.
func NewEngine(src Source) *Engine {
	return &Engine{src: src}
}

// Enrich runs the fetchers selected by opts concurrently and waits for all of
// them. It never returns an error; see the package documentation.
func (e *Engine) Enrich(ctx context.Context, ids []string, opts Options) *Result {
	res := newResult()
	if len(ids) == 0 {
		return res
	}

	ctx, span := tracing.Tracer().Start(ctx, "enrich")
	span.SetAttributes(attribute.Int("poi.count", len(ids)))
	defer span.End()

	// Each branch writes only its own Result field. A plain Group is used so a
	// failing branch does not cancel the others.
	var g errgroup.Group

	if len(opts.VariantKeys) > 0 {
		keys := ExpandVariantKeys(opts.VariantKeys)
		g.Go(func() error {
			photos, err := e.src.PhotosWithVariants(ctx, ids, keys)
			if e.failed(ctx, res, FacetPhotos, err) {
				return nil
			}
			res.Photos, res.Variants = groupPhotos(photos)
			return nil
		})
	}
	if opts.Ratings {
		g.Go(func() error {
			rows, err := e.src.Ratings(ctx, ids)
			if e.failed(ctx, res, FacetRatings, err) {
				return nil
			}
			res.Ratings = latestRatings(rows)
			return nil
		})
	}
	if opts.Scores {
		g.Go(func() error {
			rows, err := e.src.Scores(ctx, ids)
			if e.failed(ctx, res, FacetScores, err) {
				return nil
			}
			res.Scores = latestScores(rows)
			return nil
		})
	}
	if opts.Mentions {
		g.Go(func() error {
			rows, err := e.src.Mentions(ctx, ids)
			if e.failed(ctx, res, FacetMentions, err) {
				return nil
			}
			res.Mentions = summarizeMentions(rows)
			return nil
		})
	}
	if opts.RecentMentions > 0 {
		g.Go(func() error {
			rows, err := e.src.RecentMentions(ctx, ids[0], opts.RecentMentions)
			if e.failed(ctx, res, FacetRecentMentions, err) {
				return nil
			}
			res.RecentMentions = mentionDetails(rows)
			return nil
		})
	}
	if opts.Percentiles {
		g.Go(func() error {
			rows, err := e.src.Percentiles(ctx, ids)
			if e.failed(ctx, res, FacetPercentiles, err) {
				return nil
			}
			m := make(map[string]models.Percentile, len(rows))
			for _, p := range rows {
				m[p.POIID] = p
			}
			res.Percentiles = m
			return nil
		})
	}
	if len(opts.Tags) > 0 && string(opts.Tags) != "null" {
		g.Go(func() error {
			labels, err := e.src.TagLabels(ctx, opts.Tags, opts.Lang)
			if e.failed(ctx, res, FacetTagLabels, err) {
				return nil
			}
			res.TagLabels = labels
			return nil
		})
	}

	_ = g.Wait() //nolint:errcheck // branches always return nil
	return res
}

// failed logs and counts err and marks res degraded. It reports whether the
// branch should stop.
func (e *Engine) failed(ctx context.Context, res *Result, facet string, err error) bool {
	if err == nil {
		return false
	}
	res.markDegraded(facet)
	if ctx.Err() != nil {
		logging.Ctx(ctx).Debug().Str("facet", facet).Err(err).Msg("Enrichment aborted")
		return true
	}
	metrics.RecordEnrichmentFailure(facet)
	logging.CtxWarn(ctx).Str("facet", facet).Err(err).Msg("Enrichment failed, continuing without it")
	return true
}

// latestRatings keeps the first rating per POI. Rows arrive newest first.
func latestRatings(rows []models.RatingSnapshot) map[string]models.RatingSnapshot {
	m := make(map[string]models.RatingSnapshot, len(rows))
	for _, r := range rows {
		if _, ok := m[r.POIID]; !ok {
			m[r.POIID] = r
		}
	}
	return m
}

// latestScores keeps the first score row per POI. Rows arrive newest first.
func latestScores(rows []models.ScoreRow) map[string]models.ScoreRow {
	m := make(map[string]models.ScoreRow, len(rows))
	for _, r := range rows {
		if _, ok := m[r.POIID]; !ok {
			m[r.POIID] = r
		}
	}
	return m
}

