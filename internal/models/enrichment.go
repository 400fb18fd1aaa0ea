// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package models

import (
	"time"

	"github.com/goccy/go-json"
)

// Photo is an active POI photo with its embedded variants.
type Photo struct {
	ID            string         `json:"id"`
	POIID         string         `json:"poi_id"`
	IsPrimary     bool           `json:"is_primary"`
	Position      *int           `json:"position"`
	Width         *int           `json:"width"`
	Height        *int           `json:"height"`
	DominantColor *string        `json:"dominant_color"`
	Blurhash      *string        `json:"blurhash"`
	CDNURL        *string        `json:"cdn_url"`
	Format        *string        `json:"format"`
	Variants      []PhotoVariant `json:"poi_photo_variants"`
}

// PhotoVariant is a resized rendition of a photo, e.g. card_sq@2x in webp.
type PhotoVariant struct {
	PhotoID    string `json:"photo_id"`
	VariantKey string `json:"variant_key"`
	CDNURL     string `json:"cdn_url"`
	Format     string `json:"format"`
	Width      *int   `json:"width"`
	Height     *int   `json:"height"`
}

// RatingSnapshot is one captured Google rating.
type RatingSnapshot struct {
	POIID        string     `json:"poi_id"`
	RatingValue  *float64   `json:"rating_value"`
	ReviewsCount *int       `json:"reviews_count"`
	CapturedAt   *time.Time `json:"captured_at"`
}

// ScoreRow is one gatto_scores computation.
type ScoreRow struct {
	POIID          string     `json:"poi_id"`
	GattoScore     *float64   `json:"gatto_score"`
	DigitalScore   *float64   `json:"digital_score"`
	AwardsBonus    *float64   `json:"awards_bonus"`
	FreshnessBonus *float64   `json:"freshness_bonus"`
	CalculatedAt   *time.Time `json:"calculated_at"`
}

// Mention is an accepted press or web mention of a POI.
type Mention struct {
	POIID            string     `json:"poi_id"`
	Domain           string     `json:"domain"`
	Title            *string    `json:"title"`
	Excerpt          *string    `json:"excerpt"`
	URL              *string    `json:"url"`
	PublishedAtGuess *time.Time `json:"published_at_guess"`
	LastSeenAt       *time.Time `json:"last_seen_at"`
}

// Percentile places a POI within its category. Percentile is a top
// percentile: lower ranks better, so 10 or less means the top 10% of the
// category. Badge tiers rely on that ordering.
type Percentile struct {
	POIID        string  `json:"poi_id"`
	Percentile   float64 `json:"percentile"`
	CategorySize int     `json:"category_size"`
}

// CollectionRow is a curated list of POIs.
type CollectionRow struct {
	ID            string          `json:"id"`
	Slug          *string         `json:"slug"`
	SlugFr        *string         `json:"slug_fr"`
	SlugEn        *string         `json:"slug_en"`
	Title         *string         `json:"title"`
	TitleFr       *string         `json:"title_fr"`
	TitleEn       *string         `json:"title_en"`
	Description   *string         `json:"description"`
	DescriptionFr *string         `json:"description_fr"`
	DescriptionEn *string         `json:"description_en"`
	CitySlug      *string         `json:"city_slug"`
	CoverPOIID    *string         `json:"cover_poi_id"`
	POICount      *int            `json:"poi_count"`
	Metadata      json.RawMessage `json:"metadata"`
	UpdatedAt     *time.Time      `json:"updated_at"`
}

// LangFields returns the multilingual text columns keyed by column name.
func (c *CollectionRow) LangFields() map[string]*string {
	return map[string]*string{
		"slug":           c.Slug,
		"slug_fr":        c.SlugFr,
		"slug_en":        c.SlugEn,
		"title":          c.Title,
		"title_fr":       c.TitleFr,
		"title_en":       c.TitleEn,
		"description":    c.Description,
		"description_fr": c.DescriptionFr,
		"description_en": c.DescriptionEn,
	}
}
