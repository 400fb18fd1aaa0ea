// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package models

import (
	"time"

	"github.com/goccy/go-json"
)

// POIRow is a point of interest as returned by the backend.
type POIRow struct {
	ID            string  `json:"id"`
	GooglePlaceID *string `json:"google_place_id"`

	Name   *string `json:"name"`
	NameFr *string `json:"name_fr"`
	NameEn *string `json:"name_en"`
	Slug   *string `json:"slug"`
	SlugFr *string `json:"slug_fr"`
	SlugEn *string `json:"slug_en"`

	AISummary   *string `json:"ai_summary"`
	AISummaryFr *string `json:"ai_summary_fr"`
	AISummaryEn *string `json:"ai_summary_en"`

	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`

	PrimaryType       *string  `json:"primary_type"`
	Category          *string  `json:"category"`
	Subcategories     []string `json:"subcategories"`
	City              *string  `json:"city"`
	CitySlug          *string  `json:"city_slug"`
	DistrictSlug      *string  `json:"district_slug"`
	DistrictName      *string  `json:"district_name"`
	NeighbourhoodSlug *string  `json:"neighbourhood_slug"`
	NeighbourhoodName *string  `json:"neighbourhood_name"`
	AddressStreet     *string  `json:"address_street"`
	Phone             *string  `json:"phone"`
	Website           *string  `json:"website"`

	// Tags is the raw JSONB tag object; TagsFlat is its flattened key list.
	Tags     json.RawMessage `json:"tags"`
	TagsFlat []string        `json:"tags_flat"`

	PriceLevel   json.RawMessage `json:"price_level"`
	OpeningHours json.RawMessage `json:"opening_hours"`

	GattoScore     *float64 `json:"gatto_score"`
	DigitalScore   *float64 `json:"digital_score"`
	AwardsBonus    *float64 `json:"awards_bonus"`
	FreshnessBonus *float64 `json:"freshness_bonus"`

	RatingValue        *float64 `json:"rating_value"`
	RatingReviewsCount *int     `json:"rating_reviews_count"`

	MentionsCount *int `json:"mentions_count"`
	// MentionsSample is the JSONB sample embedded by list_pois: an array of
	// {domain, url, title}, sometimes double-encoded as a JSON string.
	MentionsSample json.RawMessage `json:"mentions_sample"`

	// SortValue is the value the backend ordered by, used for keyset cursors.
	SortValue  *float64 `json:"sort_value"`
	TotalCount *int     `json:"total_count"`

	UpdatedAt *time.Time `json:"updated_at"`
}

// LangFields returns the multilingual text columns keyed by column name, for
// language selection.
func (r *POIRow) LangFields() map[string]*string {
	return map[string]*string{
		"name":          r.Name,
		"name_fr":       r.NameFr,
		"name_en":       r.NameEn,
		"slug":          r.Slug,
		"slug_fr":       r.SlugFr,
		"slug_en":       r.SlugEn,
		"ai_summary":    r.AISummary,
		"ai_summary_fr": r.AISummaryFr,
		"ai_summary_en": r.AISummaryEn,
	}
}

// SitemapRow is the sitemap projection of a POI.
type SitemapRow struct {
	ID        string     `json:"id"`
	SlugFr    *string    `json:"slug_fr"`
	SlugEn    *string    `json:"slug_en"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// Suggestion is one autocomplete_search row.
type Suggestion struct {
	Type         string  `json:"type"`
	Value        string  `json:"value"`
	Display      string  `json:"display"`
	POISlug      *string `json:"poi_slug"`
	POITypeLabel *string `json:"poi_type_label"`
	POIDistrict  *string `json:"poi_district"`
	POICity      *string `json:"poi_city"`
}

// POIType is a row of poi_types.
type POIType struct {
	TypeKey string `json:"type_key"`
}
