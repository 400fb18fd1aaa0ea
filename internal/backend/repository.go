// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package backend

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/poigate/internal/models"
	"github.com/tomtom215/poigate/internal/search"
)

// Stored procedures and tables read by the gateway.
const (
	rpcListPOIs        = "list_pois"
	rpcFacets          = "rpc_get_pois_facets"
	rpcAutocomplete    = "autocomplete_search"
	rpcPercentiles     = "get_poi_percentiles"
	rpcTagLabels       = "enrich_tags_with_labels"
	rpcCollectionPOIs  = "get_collection_pois"
	tablePOI           = "poi"
	tablePhotos        = "poi_photos"
	tableRatings       = "rating_snapshot"
	tableScores        = "gatto_scores"
	tableMentions      = "ai_mention"
	tableCollections   = "collections"
	tablePOITypes      = "poi_types"
	eligibleStatus     = "eligible"
	acceptedMention    = "ACCEPT"
	typeLookupMaxRows  = 10
	photoColumns       = "id,poi_id,is_primary,position,width,height,dominant_color,blurhash,cdn_url,format"
	variantColumns     = "photo_id,variant_key,cdn_url,format,width,height"
	mentionColumns     = "poi_id,domain,title,excerpt,url,published_at_guess,last_seen_at"
	sitemapColumns     = "id,slug_fr,slug_en,updated_at"
	collectionColumns  = "id,slug,slug_fr,slug_en,title,title_fr,title_en,description,description_fr,description_en,city_slug,cover_poi_id,poi_count,metadata,updated_at"
	defaultLangColumns = "fr"
)

// Repository runs the gateway's read queries over a Client.
type Repository struct {
	client *Client
}

// NewRepository wraps a PostgREST client.
func NewRepository(client *Client) *Repository {
	return &Repository{client: client}
}

// Ping verifies the backend answers a trivial read.
func (r *Repository) Ping(ctx context.Context) error {
	var rows []struct {
		ID string `json:"id"`
	}
	_, err := r.client.Select(ctx, tablePOI, NewQuery("id").Limit(1), &rows)
	return err
}

// ListPOIs runs the search procedure.
func (r *Repository) ListPOIs(ctx context.Context, p search.Params) ([]models.POIRow, error) {
	var rows []models.POIRow
	if err := r.client.RPC(ctx, rpcListPOIs, p, &rows); err != nil {
		return nil, fmt.Errorf("list pois: %w", err)
	}
	return rows, nil
}

// POIFacets returns the facet procedure's {context, facets} document verbatim.
func (r *Repository) POIFacets(ctx context.Context, p search.FacetParams) (json.RawMessage, error) {
	var doc json.RawMessage
	if err := r.client.RPC(ctx, rpcFacets, p, &doc); err != nil {
		return nil, fmt.Errorf("poi facets: %w", err)
	}
	return doc, nil
}

// POIBySlug finds a publishable POI whose slug in lang, English or French
// equals slug. It returns ErrNotFound when nothing matches.
func (r *Repository) POIBySlug(ctx context.Context, slug, lang string) (*models.POIRow, error) {
	q := NewQuery("*").
		Eq("publishable_status", eligibleStatus).
		Or(
			fmt.Sprintf("slug_%s.eq.%s", langColumn(lang), slug),
			"slug_en.eq."+slug,
			"slug_fr.eq."+slug,
		).
		Limit(1)

	var rows []models.POIRow
	if _, err := r.client.Select(ctx, tablePOI, q, &rows); err != nil {
		return nil, fmt.Errorf("poi by slug: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("poi %q: %w", slug, ErrNotFound)
	}
	return &rows[0], nil
}

// Autocomplete runs the suggestion procedure.
func (r *Repository) Autocomplete(ctx context.Context, query, city, lang string, limit int) ([]models.Suggestion, error) {
	params := map[string]any{
		"p_query":     query,
		"p_city_slug": city,
		"p_lang":      lang,
		"p_limit":     limit,
	}
	var rows []models.Suggestion
	if err := r.client.RPC(ctx, rpcAutocomplete, params, &rows); err != nil {
		return nil, fmt.Errorf("autocomplete: %w", err)
	}
	return rows, nil
}

// PhotosWithVariants reads active photos for the POIs in one request, with
// variants restricted to variantKeys embedded. Rows come primary first, then
// by position.
func (r *Repository) PhotosWithVariants(ctx context.Context, poiIDs, variantKeys []string) ([]models.Photo, error) {
	if len(poiIDs) == 0 {
		return nil, nil
	}
	q := NewQuery(photoColumns+",poi_photo_variants("+variantColumns+")").
		In("poi_id", poiIDs).
		Eq("status", "active").
		Order("is_primary", true).
		Order("position", false)
	if len(variantKeys) > 0 {
		q.In("poi_photo_variants.variant_key", variantKeys)
	}

	var rows []models.Photo
	if _, err := r.client.Select(ctx, tablePhotos, q, &rows); err != nil {
		return nil, fmt.Errorf("photos: %w", err)
	}
	return rows, nil
}

// Ratings reads Google rating snapshots, newest first.
func (r *Repository) Ratings(ctx context.Context, poiIDs []string) ([]models.RatingSnapshot, error) {
	if len(poiIDs) == 0 {
		return nil, nil
	}
	q := NewQuery("poi_id,rating_value,reviews_count,captured_at").
		In("poi_id", poiIDs).
		Eq("source_id", "google").
		Order("captured_at", true)

	var rows []models.RatingSnapshot
	if _, err := r.client.Select(ctx, tableRatings, q, &rows); err != nil {
		return nil, fmt.Errorf("ratings: %w", err)
	}
	return rows, nil
}

// Scores reads score computations, newest first.
func (r *Repository) Scores(ctx context.Context, poiIDs []string) ([]models.ScoreRow, error) {
	if len(poiIDs) == 0 {
		return nil, nil
	}
	q := NewQuery("poi_id,gatto_score,digital_score,awards_bonus,freshness_bonus,calculated_at").
		In("poi_id", poiIDs).
		Order("calculated_at", true)

	var rows []models.ScoreRow
	if _, err := r.client.Select(ctx, tableScores, q, &rows); err != nil {
		return nil, fmt.Errorf("scores: %w", err)
	}
	return rows, nil
}

// Mentions reads accepted mentions for the POIs.
func (r *Repository) Mentions(ctx context.Context, poiIDs []string) ([]models.Mention, error) {
	if len(poiIDs) == 0 {
		return nil, nil
	}
	q := NewQuery(mentionColumns).
		In("poi_id", poiIDs).
		Eq("ai_decision", acceptedMention)

	var rows []models.Mention
	if _, err := r.client.Select(ctx, tableMentions, q, &rows); err != nil {
		return nil, fmt.Errorf("mentions: %w", err)
	}
	return rows, nil
}

// RecentMentions reads the newest accepted mentions of one POI: by guessed
// publication date (unknown dates last), then by last sighting.
func (r *Repository) RecentMentions(ctx context.Context, poiID string, limit int) ([]models.Mention, error) {
	q := NewQuery(mentionColumns).
		Eq("poi_id", poiID).
		Eq("ai_decision", acceptedMention).
		Order("published_at_guess", true).
		Order("last_seen_at", true).
		Limit(limit)

	var rows []models.Mention
	if _, err := r.client.Select(ctx, tableMentions, q, &rows); err != nil {
		return nil, fmt.Errorf("recent mentions: %w", err)
	}
	return rows, nil
}

// Percentiles ranks POIs within their category.
func (r *Repository) Percentiles(ctx context.Context, poiIDs []string) ([]models.Percentile, error) {
	if len(poiIDs) == 0 {
		return nil, nil
	}
	var rows []models.Percentile
	if err := r.client.RPC(ctx, rpcPercentiles, map[string]any{"p_poi_ids": poiIDs}, &rows); err != nil {
		return nil, fmt.Errorf("percentiles: %w", err)
	}
	return rows, nil
}

// TagLabels resolves a POI's tag object to labelled tags in lang.
func (r *Repository) TagLabels(ctx context.Context, tags json.RawMessage, lang string) (json.RawMessage, error) {
	if len(tags) == 0 {
		tags = json.RawMessage("null")
	}
	var labels json.RawMessage
	params := map[string]any{"p_tags": tags, "p_lang": lang}
	if err := r.client.RPC(ctx, rpcTagLabels, params, &labels); err != nil {
		return nil, fmt.Errorf("tag labels: %w", err)
	}
	return labels, nil
}

// Collections lists published collections in display order, with the total.
// An empty city lists every city.
func (r *Repository) Collections(ctx context.Context, city string, offset, limit int) ([]models.CollectionRow, int, error) {
	q := NewQuery(collectionColumns).
		Eq("is_published", "true").
		Order("position", false).
		Limit(limit).
		Offset(offset).
		CountExact()
	if city != "" {
		q.Eq("city_slug", city)
	}

	var rows []models.CollectionRow
	total, err := r.client.Select(ctx, tableCollections, q, &rows)
	if err != nil {
		return nil, 0, fmt.Errorf("collections: %w", err)
	}
	if total < 0 {
		total = len(rows)
	}
	return rows, total, nil
}

// CollectionBySlug finds a published collection by any language slug.
func (r *Repository) CollectionBySlug(ctx context.Context, slug, lang string) (*models.CollectionRow, error) {
	q := NewQuery(collectionColumns).
		Eq("is_published", "true").
		Or(
			fmt.Sprintf("slug_%s.eq.%s", langColumn(lang), slug),
			"slug_en.eq."+slug,
			"slug_fr.eq."+slug,
			"slug.eq."+slug,
		).
		Limit(1)

	var rows []models.CollectionRow
	if _, err := r.client.Select(ctx, tableCollections, q, &rows); err != nil {
		return nil, fmt.Errorf("collection by slug: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("collection %q: %w", slug, ErrNotFound)
	}
	return &rows[0], nil
}

// CollectionPOIs pages through a collection's POIs. Rows carry total_count.
func (r *Repository) CollectionPOIs(ctx context.Context, collectionID string, limit, offset int) ([]models.POIRow, error) {
	params := map[string]any{
		"p_collection_id": collectionID,
		"p_limit":         limit,
		"p_offset":        offset,
	}
	var rows []models.POIRow
	if err := r.client.RPC(ctx, rpcCollectionPOIs, params, &rows); err != nil {
		return nil, fmt.Errorf("collection pois: %w", err)
	}
	return rows, nil
}

// SitemapPOIs pages through publishable POIs, most recently updated first.
func (r *Repository) SitemapPOIs(ctx context.Context, offset, limit int) ([]models.SitemapRow, int, error) {
	q := NewQuery(sitemapColumns).
		Eq("publishable_status", eligibleStatus).
		Order("updated_at", true).
		Limit(limit).
		Offset(offset).
		CountExact()

	var rows []models.SitemapRow
	total, err := r.client.Select(ctx, tablePOI, q, &rows)
	if err != nil {
		return nil, 0, fmt.Errorf("sitemap pois: %w", err)
	}
	if total < 0 {
		total = offset + len(rows)
	}
	return rows, total, nil
}

// TypesBySynonym returns active type keys whose detection keywords contain word.
func (r *Repository) TypesBySynonym(ctx context.Context, word, lang string) ([]string, error) {
	q := NewQuery("type_key").
		Eq("is_active", "true").
		Contains("detection_keywords_"+langColumn(lang), []string{word})
	return r.typeKeys(ctx, q)
}

// TypesByLabel returns up to ten active type keys whose label contains query.
func (r *Repository) TypesByLabel(ctx context.Context, query, lang string) ([]string, error) {
	q := NewQuery("type_key").
		Eq("is_active", "true").
		ILike("label_"+langColumn(lang), query).
		Limit(typeLookupMaxRows)
	return r.typeKeys(ctx, q)
}

func (r *Repository) typeKeys(ctx context.Context, q *Query) ([]string, error) {
	var rows []models.POIType
	if _, err := r.client.Select(ctx, tablePOITypes, q, &rows); err != nil {
		return nil, fmt.Errorf("poi types: %w", err)
	}
	keys := make([]string, 0, len(rows))
	for _, row := range rows {
		keys = append(keys, row.TypeKey)
	}
	return keys, nil
}

// langColumn maps a request language to a column suffix.
func langColumn(lang string) string {
	if lang == "en" {
		return "en"
	}
	return defaultLangColumns
}
