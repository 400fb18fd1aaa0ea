// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package assemble

import (
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/poigate/internal/enrich"
	"github.com/tomtom215/poigate/internal/models"
	"github.com/tomtom215/poigate/internal/search"
)

// Collection is a curated list as shown in listings.
type Collection struct {
	ID          string             `json:"id"`
	Slug        *string            `json:"slug"`
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	CitySlug    *string            `json:"city_slug"`
	POICount    int                `json:"poi_count"`
	Cover       *enrich.PhotoBlock `json:"cover"`
	Metadata    json.RawMessage    `json:"metadata,omitempty"`
	UpdatedAt   *time.Time         `json:"updated_at"`
}

// CollectionDetail is a collection with one page of its POIs.
type CollectionDetail struct {
	Collection
	Items          []*Item `json:"items"`
	NextCursor     *string `json:"next_cursor"`
	PreviousCursor *string `json:"previous_cursor"`
	Total          int     `json:"total"`
}

// CoverIDs returns the cover POI ids of rows, for photo enrichment.
func CoverIDs(rows []models.CollectionRow) []string {
	ids := make([]string, 0, len(rows))
	for _, c := range rows {
		if c.CoverPOIID != nil && *c.CoverPOIID != "" {
			ids = append(ids, *c.CoverPOIID)
		}
	}
	return ids
}

// CollectionSummary builds the listing view of a collection. The cover is the
// card photo of its cover POI when one is known.
func CollectionSummary(row *models.CollectionRow, enr *enrich.Result, lang string) Collection {
	fields := row.LangFields()
	c := Collection{
		ID:          row.ID,
		Slug:        PickLang(fields, lang, "slug"),
		Title:       PickLang(fields, lang, "title"),
		Description: PickLang(fields, lang, "description"),
		CitySlug:    row.CitySlug,
		POICount:    derefInt(row.POICount),
		Metadata:    row.Metadata,
		UpdatedAt:   row.UpdatedAt,
	}
	if enr != nil && row.CoverPOIID != nil {
		if p := enrich.PrimaryPhoto(enr.Photos[*row.CoverPOIID]); p != nil {
			c.Cover = enrich.PhotoBlockFrom(enr.Variants, p, "card_sq")
		}
	}
	return c
}

// BuildCollectionDetail assembles a collection page fetched at offset with
// limit. When the collection has no explicit cover the first POI photo is
// used.
func BuildCollectionDetail(row *models.CollectionRow, pois []models.POIRow, enr *enrich.Result, lang string, offset, limit int) *CollectionDetail {
	d := &CollectionDetail{
		Collection: CollectionSummary(row, enr, lang),
		Items:      make([]*Item, 0, len(pois)),
	}
	for i := range pois {
		d.Items = append(d.Items, Card(&pois[i], enr, lang))
	}
	if d.Cover == nil {
		for _, it := range d.Items {
			if it.Photo != nil {
				d.Cover = it.Photo
				break
			}
		}
	}

	total := offset + len(pois)
	if len(pois) > 0 && pois[0].TotalCount != nil {
		total = *pois[0].TotalCount
	}
	d.Total = total
	if d.POICount == 0 {
		d.POICount = total
	}

	if offset+len(pois) < total {
		next := search.EncodeOffset(offset + limit)
		d.NextCursor = &next
	}
	if offset > 0 {
		prev := search.EncodeOffset(max(offset-limit, 0))
		d.PreviousCursor = &prev
	}
	return d
}
