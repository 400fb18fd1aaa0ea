// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

// Package filters turns raw POI query strings into typed filter values.
//
// Every parser is lenient: a value that cannot be understood becomes "absent"
// (nil) rather than an error. Rejecting malformed input with a 400 is the job
// of the validation layer, which runs first.
//
//	set := filters.Normalize(filters.Raw{
//	    BBox:  "48.85,2.33,48.87,2.36",
//	    Price: "€€",
//	    Tags:  "Terrace, wifi,terrace",
//	})
//	// set.PriceMin == set.PriceMax == 2, set.Tags == ["terrace", "wifi"]
package filters

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// DefaultCity is used when no city is given.
const DefaultCity = "paris"

// Price and rating limits.
const (
	MinPrice  = 1
	MaxPrice  = 4
	MinRating = 0.0
	MaxRating = 5.0
)

// ParseCSV splits on commas, trims, lowercases and deduplicates (first occurrence wins).
// It returns nil when no item survives.
func ParseCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// ParseTriState maps "true" and "false"; anything else is nil.
func ParseTriState(raw string) *bool {
	switch raw {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}

// ParsePriceBound parses an integer price level in [1,4].
func ParsePriceBound(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < MinPrice || n > MaxPrice {
		return nil
	}
	return &n
}

// ParseRatingBound parses a rating in [0,5].
func ParseRatingBound(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < MinRating || f > MaxRating {
		return nil
	}
	return &f
}

// ParseLegacyPrice accepts "€" to "€€€€" or an integer 1 to 4.
func ParseLegacyPrice(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if strings.Trim(raw, "€") == "" {
		n := utf8.RuneCountInString(raw)
		if n >= MinPrice && n <= MaxPrice {
			return &n
		}
		return nil
	}
	return ParsePriceBound(raw)
}

// PriceRange fills absent bounds from the legacy single price and orders the pair.
func PriceRange(lo, hi, legacy *int) (minOut, maxOut *int) {
	if legacy != nil {
		if lo == nil {
			v := *legacy
			lo = &v
		}
		if hi == nil {
			v := *legacy
			hi = &v
		}
	}
	if lo != nil && hi != nil && *lo > *hi {
		lo, hi = hi, lo
	}
	return lo, hi
}

// RatingRange orders the pair when both bounds are present.
func RatingRange(lo, hi *float64) (minOut, maxOut *float64) {
	if lo != nil && hi != nil && *lo > *hi {
		lo, hi = hi, lo
	}
	return lo, hi
}
