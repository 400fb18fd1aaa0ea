// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package search

import (
	"github.com/tomtom215/poigate/internal/filters"
)

// Listing limits.
const (
	DefaultLimit = 50
	MaxLimit     = 80
)

// Request is everything needed to build a list_pois call.
type Request struct {
	Filters filters.Set
	Sort    Sort
	Limit   int
	// Page selects offset pagination when > 0. Cursor is ignored then.
	Page   int
	Cursor *Keyset
	Query  *Parsed
}

// Params is the list_pois argument bundle. Every key is always serialised;
// absent values are sent as null.
type Params struct {
	BBox                    []float64 `json:"p_bbox"`
	CitySlug                *string   `json:"p_city_slug"`
	PrimaryTypes            []string  `json:"p_primary_types"`
	Subcategories           []string  `json:"p_subcategories"`
	NeighbourhoodSlugs      []string  `json:"p_neighbourhood_slugs"`
	DistrictSlugs           []string  `json:"p_district_slugs"`
	TagsAll                 []string  `json:"p_tags_all"`
	TagsAny                 []string  `json:"p_tags_any"`
	AwardsProviders         []string  `json:"p_awards_providers"`
	PriceMin                *int      `json:"p_price_min"`
	PriceMax                *int      `json:"p_price_max"`
	RatingMin               *float64  `json:"p_rating_min"`
	RatingMax               *float64  `json:"p_rating_max"`
	Awarded                 *bool     `json:"p_awarded"`
	Fresh                   *bool     `json:"p_fresh"`
	Sort                    Sort      `json:"p_sort"`
	Limit                   int       `json:"p_limit"`
	Offset                  *int      `json:"p_offset"`
	CursorScore             *float64  `json:"p_cursor_score"`
	CursorID                *string   `json:"p_cursor_id"`
	NameSearch              *string   `json:"p_name_search"`
	NameSimilarityThreshold *float64  `json:"p_name_similarity_threshold"`
}

// FacetParams is the rpc_get_pois_facets argument bundle.
type FacetParams struct {
	BBox               []float64 `json:"p_bbox"`
	CitySlug           *string   `json:"p_city_slug"`
	PrimaryTypes       []string  `json:"p_primary_types"`
	Subcategories      []string  `json:"p_subcategories"`
	NeighbourhoodSlugs []string  `json:"p_neighbourhood_slugs"`
	DistrictSlugs      []string  `json:"p_district_slugs"`
	TagsAll            []string  `json:"p_tags_all"`
	TagsAny            []string  `json:"p_tags_any"`
	AwardsProviders    []string  `json:"p_awards_providers"`
	PriceMin           *int      `json:"p_price_min"`
	PriceMax           *int      `json:"p_price_max"`
	RatingMin          *float64  `json:"p_rating_min"`
	RatingMax          *float64  `json:"p_rating_max"`
	Awarded            *bool     `json:"p_awarded"`
	Fresh              *bool     `json:"p_fresh"`
	Sort               Sort      `json:"p_sort"`
}

// ClampLimit bounds a requested limit to [1, MaxLimit]; 0 means DefaultLimit.
func ClampLimit(limit int) int {
	switch {
	case limit == 0:
		return DefaultLimit
	case limit < 1:
		return 1
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// Compile builds the list_pois parameters.
func Compile(req Request) Params {
	f := FacetsFor(req.Filters, req.Sort)
	p := Params{
		BBox:               f.BBox,
		CitySlug:           f.CitySlug,
		PrimaryTypes:       f.PrimaryTypes,
		Subcategories:      f.Subcategories,
		NeighbourhoodSlugs: f.NeighbourhoodSlugs,
		DistrictSlugs:      f.DistrictSlugs,
		TagsAll:            f.TagsAll,
		TagsAny:            f.TagsAny,
		AwardsProviders:    f.AwardsProviders,
		PriceMin:           f.PriceMin,
		PriceMax:           f.PriceMax,
		RatingMin:          f.RatingMin,
		RatingMax:          f.RatingMax,
		Awarded:            f.Awarded,
		Fresh:              f.Fresh,
		Sort:               f.Sort,
		Limit:              ClampLimit(req.Limit),
	}

	switch {
	case req.Page > 0:
		offset := (req.Page - 1) * p.Limit
		p.Offset = &offset
	case req.Cursor != nil:
		score, id := req.Cursor.Score, req.Cursor.ID
		p.CursorScore = &score
		p.CursorID = &id
	}

	if q := req.Query; q != nil {
		switch q.Mode {
		case ModeType:
			p.PrimaryTypes = mergeUnique(p.PrimaryTypes, q.TypeKeys)
		case ModeName:
			name, threshold := q.NameSearch, q.NameSimilarityThreshold
			p.NameSearch = &name
			p.NameSimilarityThreshold = &threshold
		}
	}
	return p
}

// FacetsFor builds the facet parameters. When a bbox is present the city
// filter is dropped so the box alone scopes the query.
func FacetsFor(set filters.Set, sort Sort) FacetParams {
	fp := FacetParams{
		PrimaryTypes:       set.PrimaryTypes,
		Subcategories:      set.Subcategories,
		NeighbourhoodSlugs: set.NeighbourhoodSlugs,
		DistrictSlugs:      set.DistrictSlugs,
		TagsAll:            set.Tags,
		TagsAny:            set.TagsAny,
		AwardsProviders:    set.AwardProviders,
		PriceMin:           set.PriceMin,
		PriceMax:           set.PriceMax,
		RatingMin:          set.RatingMin,
		RatingMax:          set.RatingMax,
		Awarded:            set.Awarded,
		Fresh:              set.Fresh,
		Sort:               ResolveSort(string(sort)).Backend(),
	}
	if set.BBox != nil {
		fp.BBox = set.BBox.Array()
	} else if set.City != "" {
		city := set.City
		fp.CitySlug = &city
	}
	return fp
}

func mergeUnique(a, b []string) []string {
	if len(b) == 0 {
		return a
	}
	out := make([]string, 0, len(a)+len(b))
	seen := make(map[string]struct{}, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, v := range list {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}
