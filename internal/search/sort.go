// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

// Package search compiles normalized filters, sort, pagination and free-text
// queries into the parameter bundle of the list_pois stored procedure.
package search

// Sort is a listing order.
type Sort string

const (
	SortGatto     Sort = "gatto"
	SortPriceDesc Sort = "price_desc"
	SortPriceAsc  Sort = "price_asc"
	SortMentions  Sort = "mentions"
	SortRating    Sort = "rating"

	// Segment sorts are applied to the page after the backend returns it.
	SortDigital Sort = "digital"
	SortAwarded Sort = "awarded"
	SortFresh   Sort = "fresh"
)

// Sorts lists every accepted sort value.
var Sorts = []Sort{
	SortGatto, SortPriceDesc, SortPriceAsc, SortMentions, SortRating,
	SortDigital, SortAwarded, SortFresh,
}

// ResolveSort maps a raw value to a Sort; unknown or empty values become SortGatto.
func ResolveSort(raw string) Sort {
	for _, s := range Sorts {
		if string(s) == raw {
			return s
		}
	}
	return SortGatto
}

// IsSegment reports whether s is re-sorted locally.
func (s Sort) IsSegment() bool {
	return s == SortDigital || s == SortAwarded || s == SortFresh
}

// Backend returns the order sent to the stored procedure.
func (s Sort) Backend() Sort {
	if s.IsSegment() {
		return SortGatto
	}
	return s
}
