// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package assemble

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/poigate/internal/enrich"
	"github.com/tomtom215/poigate/internal/models"
)

// View selects the item shape.
type View string

const (
	ViewCard   View = "card"
	ViewDetail View = "detail"
)

// ResolveView maps anything but "detail" to the card view.
func ResolveView(raw string) View {
	if raw == string(ViewDetail) {
		return ViewDetail
	}
	return ViewCard
}

// galleryMax caps the non-primary photos of a detail item.
const galleryMax = 5

// Coords is a WGS84 position.
type Coords struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// Scores is the score breakdown of a POI.
type Scores struct {
	Gatto          *float64   `json:"gatto"`
	Digital        *float64   `json:"digital"`
	AwardsBonus    *float64   `json:"awards_bonus"`
	FreshnessBonus *float64   `json:"freshness_bonus"`
	CalculatedAt   *time.Time `json:"calculated_at,omitempty"`
}

// Rating is the latest Google rating.
type Rating struct {
	Google       *float64 `json:"google"`
	ReviewsCount int      `json:"reviews_count"`
}

// PrimaryPhoto is the detail rendition of the primary photo with its card
// rendition attached.
type PrimaryPhoto struct {
	enrich.PhotoBlock
	Card *enrich.PhotoBlock `json:"card"`
}

// Photos groups the photos of a detail item.
type Photos struct {
	Primary *PrimaryPhoto       `json:"primary"`
	Gallery []enrich.PhotoBlock `json:"gallery"`
}

// Item is a POI in a listing. Detail-only fields are omitted in card view.
type Item struct {
	ID             string                 `json:"id"`
	Slug           *string                `json:"slug"`
	Name           *string                `json:"name"`
	PrimaryType    *string                `json:"primary_type"`
	Subcategories  []string               `json:"subcategories"`
	District       *string                `json:"district"`
	Neighbourhood  *string                `json:"neighbourhood"`
	Coords         Coords                 `json:"coords"`
	Photo          *enrich.PhotoBlock     `json:"photo,omitempty"`
	Score          *float64               `json:"score"`
	Scores         Scores                 `json:"scores"`
	Rating         *Rating                `json:"rating,omitempty"`
	MentionsCount  int                    `json:"mentions_count"`
	MentionsSample []enrich.MentionSample `json:"mentions_sample"`
	Badge          *enrich.Badge          `json:"badge,omitempty"`
	TagsFlat       []string               `json:"tags_flat"`

	Summary      *string         `json:"summary,omitempty"`
	PriceLevel   json.RawMessage `json:"price_level,omitempty"`
	OpeningHours json.RawMessage `json:"opening_hours,omitempty"`
	Photos       *Photos         `json:"photos,omitempty"`
}

// ListOptions is the enrichment a listing page needs in view.
func ListOptions(view View) enrich.Options {
	opts := enrich.Options{
		VariantKeys: enrich.CardVariants,
		Ratings:     true,
		Mentions:    true,
		Percentiles: true,
	}
	if view == ViewDetail {
		opts.VariantKeys = enrich.DetailVariants
	}
	return opts
}

// Build dispatches to Card or Detail.
func Build(view View, row *models.POIRow, enr *enrich.Result, lang string) *Item {
	if view == ViewDetail {
		return Detail(row, enr, lang)
	}
	return Card(row, enr, lang)
}

// Card builds the compact listing item.
func Card(row *models.POIRow, enr *enrich.Result, lang string) *Item {
	if enr == nil {
		enr = &enrich.Result{}
	}
	fields := row.LangFields()

	it := &Item{
		ID:            row.ID,
		Slug:          PickLang(fields, lang, "slug"),
		Name:          PickLang(fields, lang, "name"),
		PrimaryType:   row.PrimaryType,
		Subcategories: nonNil(row.Subcategories),
		District:      row.DistrictSlug,
		Neighbourhood: row.NeighbourhoodSlug,
		Coords:        Coords{Lat: row.Lat, Lng: row.Lng},
		TagsFlat:      nonNil(row.TagsFlat),
	}

	if p := enrich.PrimaryPhoto(enr.Photos[row.ID]); p != nil {
		it.Photo = enrich.PhotoBlockFrom(enr.Variants, p, "card_sq")
	}

	it.Scores = Scores{
		Gatto:          row.GattoScore,
		Digital:        row.DigitalScore,
		AwardsBonus:    row.AwardsBonus,
		FreshnessBonus: row.FreshnessBonus,
	}
	if s, ok := enr.Scores[row.ID]; ok {
		it.Scores = Scores{
			Gatto:          s.GattoScore,
			Digital:        s.DigitalScore,
			AwardsBonus:    s.AwardsBonus,
			FreshnessBonus: s.FreshnessBonus,
			CalculatedAt:   s.CalculatedAt,
		}
	}
	it.Score = it.Scores.Gatto

	if r, ok := enr.Ratings[row.ID]; ok {
		it.Rating = &Rating{Google: r.RatingValue, ReviewsCount: derefInt(r.ReviewsCount)}
	} else if row.RatingValue != nil {
		it.Rating = &Rating{Google: row.RatingValue, ReviewsCount: derefInt(row.RatingReviewsCount)}
	}

	if m, ok := enr.Mentions[row.ID]; ok {
		it.MentionsCount = m.SourcesCount
		it.MentionsSample = m.Samples
	} else {
		it.MentionsCount = derefInt(row.MentionsCount)
		// A malformed embedded sample only costs the sample.
		it.MentionsSample, _ = ParseMentionsSample(row.MentionsSample) //nolint:errcheck
	}
	if it.MentionsSample == nil {
		it.MentionsSample = []enrich.MentionSample{}
	}

	var pct *models.Percentile
	if p, ok := enr.Percentiles[row.ID]; ok {
		pct = &p
	}
	it.Badge = enrich.BadgeFor(row.ID, pct, it.Scores.FreshnessBonus, lang)

	return it
}

// Detail builds the listing item of the detail view: the card plus summary,
// price, opening hours and a photo gallery in place of the single photo.
func Detail(row *models.POIRow, enr *enrich.Result, lang string) *Item {
	it := Card(row, enr, lang)
	if enr == nil {
		enr = &enrich.Result{}
	}

	it.Summary = PickLang(row.LangFields(), lang, "ai_summary")
	it.PriceLevel = row.PriceLevel
	it.OpeningHours = row.OpeningHours
	it.Photos = buildPhotos(enr, row.ID)
	it.Photo = nil
	return it
}

func buildPhotos(enr *enrich.Result, poiID string) *Photos {
	photos := enr.Photos[poiID]
	out := &Photos{Gallery: []enrich.PhotoBlock{}}

	primary := enrich.PrimaryPhoto(photos)
	if primary == nil {
		return out
	}
	if block := enrich.PhotoBlockFrom(enr.Variants, primary, "detail"); block != nil {
		out.Primary = &PrimaryPhoto{
			PhotoBlock: *block,
			Card:       enrich.PhotoBlockFrom(enr.Variants, primary, "card_sq"),
		}
	}

	for i := range photos {
		if len(out.Gallery) == galleryMax {
			break
		}
		if photos[i].ID == primary.ID {
			continue
		}
		if block := enrich.PhotoBlockFrom(enr.Variants, &photos[i], "detail"); block != nil {
			out.Gallery = append(out.Gallery, *block)
		}
	}
	return out
}

// embeddedMention is one entry of the mentions_sample column of list_pois.
type embeddedMention struct {
	Domain string  `json:"domain"`
	URL    *string `json:"url"`
	Title  *string `json:"title"`
}

// ParseMentionsSample decodes the embedded mention sample, which may be a JSON
// array or a JSON string holding one.
func ParseMentionsSample(raw json.RawMessage) ([]enrich.MentionSample, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, fmt.Errorf("decode mentions_sample string: %w", err)
		}
		raw = json.RawMessage(inner)
	}

	var entries []embeddedMention
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode mentions_sample: %w", err)
	}
	out := make([]enrich.MentionSample, 0, len(entries))
	for _, m := range entries {
		out = append(out, enrich.MentionSample{
			Domain:  m.Domain,
			Favicon: enrich.FaviconURL(m.Domain),
			URL:     m.URL,
			Title:   m.Title,
		})
	}
	return out, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
