// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package assemble

import (
	"github.com/goccy/go-json"

	"github.com/tomtom215/poigate/internal/enrich"
	"github.com/tomtom215/poigate/internal/models"
)

// RecentMentionsLimit caps the mentions listed on a POI page.
const RecentMentionsLimit = 6

// POIDetail is the payload of GET /v1/pois/{slug}.
type POIDetail struct {
	*Item
	City          *string                `json:"city"`
	Address       *string                `json:"address"`
	Website       *string                `json:"website"`
	Phone         *string                `json:"phone"`
	GooglePlaceID *string                `json:"google_place_id"`
	TagsKeys      json.RawMessage        `json:"tags_keys"`
	Tags          json.RawMessage        `json:"tags"`
	Mentions      []enrich.MentionDetail `json:"mentions"`
	Breadcrumb    []Crumb                `json:"breadcrumb"`
}

var emptyArray = json.RawMessage("[]")

// DetailOptions is the enrichment a POI page needs.
func DetailOptions(row *models.POIRow, lang string) enrich.Options {
	return enrich.Options{
		VariantKeys:    enrich.DetailVariants,
		Ratings:        true,
		Scores:         true,
		Mentions:       true,
		Percentiles:    true,
		RecentMentions: RecentMentionsLimit,
		Tags:           row.Tags,
		Lang:           NormalizeLang(lang),
	}
}

// BuildPOIDetail assembles a POI page.
func BuildPOIDetail(row *models.POIRow, enr *enrich.Result, lang string) *POIDetail {
	if enr == nil {
		enr = &enrich.Result{}
	}
	d := &POIDetail{
		Item:          Detail(row, enr, lang),
		City:          row.City,
		Address:       row.AddressStreet,
		Website:       row.Website,
		Phone:         row.Phone,
		GooglePlaceID: row.GooglePlaceID,
		TagsKeys:      row.Tags,
		Tags:          enr.TagLabels,
		Mentions:      enr.RecentMentions,
		Breadcrumb:    Breadcrumb(row, lang),
	}
	if len(d.TagsKeys) == 0 {
		d.TagsKeys = json.RawMessage("null")
	}
	if len(d.Tags) == 0 || string(d.Tags) == "null" {
		d.Tags = emptyArray
	}
	if d.Mentions == nil {
		d.Mentions = []enrich.MentionDetail{}
	}
	return d
}
