// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package filters

import (
	"strconv"
	"strings"
)

// Raw holds filter query parameters exactly as received.
type Raw struct {
	BBox              string
	City              string
	PrimaryType       string
	Subcategory       string
	NeighbourhoodSlug string
	DistrictSlug      string
	Tags              string
	TagsAny           string
	Awards            string
	Awarded           string
	Fresh             string
	Price             string
	PriceMin          string
	PriceMax          string
	RatingMin         string
	RatingMax         string
}

// Set is the normalized filter set.
type Set struct {
	BBox               *BBox
	City               string
	PrimaryTypes       []string
	Subcategories      []string
	NeighbourhoodSlugs []string
	DistrictSlugs      []string
	Tags               []string
	TagsAny            []string
	AwardProviders     []string
	PriceMin           *int
	PriceMax           *int
	RatingMin          *float64
	RatingMax          *float64
	Awarded            *bool
	Fresh              *bool
}

// Normalize parses every raw field. Normalize(Normalize(x).Raw()) equals Normalize(x).
func Normalize(raw Raw) Set {
	city := strings.ToLower(strings.TrimSpace(raw.City))
	if city == "" {
		city = DefaultCity
	}

	priceMin, priceMax := PriceRange(
		ParsePriceBound(raw.PriceMin),
		ParsePriceBound(raw.PriceMax),
		ParseLegacyPrice(raw.Price),
	)
	ratingMin, ratingMax := RatingRange(ParseRatingBound(raw.RatingMin), ParseRatingBound(raw.RatingMax))

	return Set{
		BBox:               ParseBBox(raw.BBox),
		City:               city,
		PrimaryTypes:       ParseCSV(raw.PrimaryType),
		Subcategories:      ParseCSV(raw.Subcategory),
		NeighbourhoodSlugs: ParseCSV(raw.NeighbourhoodSlug),
		DistrictSlugs:      ParseCSV(raw.DistrictSlug),
		Tags:               ParseCSV(raw.Tags),
		TagsAny:            ParseCSV(raw.TagsAny),
		AwardProviders:     ParseCSV(raw.Awards),
		PriceMin:           priceMin,
		PriceMax:           priceMax,
		RatingMin:          ratingMin,
		RatingMax:          ratingMax,
		Awarded:            ParseTriState(raw.Awarded),
		Fresh:              ParseTriState(raw.Fresh),
	}
}

// Raw re-serialises the set. The legacy price field is never emitted since
// its value is already folded into the bounds.
func (s Set) Raw() Raw {
	r := Raw{
		City:              s.City,
		PrimaryType:       strings.Join(s.PrimaryTypes, ","),
		Subcategory:       strings.Join(s.Subcategories, ","),
		NeighbourhoodSlug: strings.Join(s.NeighbourhoodSlugs, ","),
		DistrictSlug:      strings.Join(s.DistrictSlugs, ","),
		Tags:              strings.Join(s.Tags, ","),
		TagsAny:           strings.Join(s.TagsAny, ","),
		Awards:            strings.Join(s.AwardProviders, ","),
		Awarded:           boolString(s.Awarded),
		Fresh:             boolString(s.Fresh),
		PriceMin:          intString(s.PriceMin),
		PriceMax:          intString(s.PriceMax),
		RatingMin:         floatString(s.RatingMin),
		RatingMax:         floatString(s.RatingMax),
	}
	if s.BBox != nil {
		r.BBox = s.BBox.String()
	}
	return r
}

// KeyParams returns the set as cache key parameters. Absent values are nil so
// the cache key builder can omit them.
func (s Set) KeyParams() map[string]any {
	p := map[string]any{
		"city":               s.City,
		"primary_type":       s.PrimaryTypes,
		"subcategory":        s.Subcategories,
		"neighbourhood_slug": s.NeighbourhoodSlugs,
		"district_slug":      s.DistrictSlugs,
		"tags":               s.Tags,
		"tags_any":           s.TagsAny,
		"awards":             s.AwardProviders,
		"awarded":            boolString(s.Awarded),
		"fresh":              boolString(s.Fresh),
		"price_min":          intString(s.PriceMin),
		"price_max":          intString(s.PriceMax),
		"rating_min":         floatString(s.RatingMin),
		"rating_max":         floatString(s.RatingMax),
	}
	if s.BBox != nil {
		p["bbox"] = s.BBox.String()
	}
	return p
}

func boolString(b *bool) string {
	if b == nil {
		return ""
	}
	return strconv.FormatBool(*b)
}

func intString(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func floatString(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
