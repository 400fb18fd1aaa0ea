// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package search

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Query length limits, in characters.
const (
	MinQueryLength = 2
	MaxQueryLength = 200
)

var (
	ErrQueryTooShort    = errors.New("query must be at least 2 characters")
	ErrQueryTooLong     = errors.New("query must be less than 200 characters")
	ErrQueryInvalidChar = errors.New("query contains invalid characters; only letters, numbers, spaces, hyphens, and apostrophes are allowed")
)

var queryPattern = regexp.MustCompile(`^[a-zA-Z0-9àâäéèêëïîôùûüÿçœæÀÂÄÉÈÊËÏÎÔÙÛÜŸÇŒÆ\s\-']+$`)

// ValidateQuery checks length and charset of a free-text query.
func ValidateQuery(q string) error {
	q = strings.TrimSpace(q)
	n := utf8.RuneCountInString(q)
	if n < MinQueryLength {
		return ErrQueryTooShort
	}
	if n > MaxQueryLength {
		return ErrQueryTooLong
	}
	if !queryPattern.MatchString(q) {
		return ErrQueryInvalidChar
	}
	return nil
}

var ligatures = strings.NewReplacer(
	"œ", "oe",
	"æ", "ae",
	"’", "'",
	"‘", "'",
)

// NormalizeQuery lowercases, strips accents, expands ligatures and straightens
// apostrophes so equivalent spellings share a cache entry.
func NormalizeQuery(q string) string {
	return strings.TrimSpace(ligatures.Replace(FoldAccents(strings.ToLower(q))))
}

// FoldAccents decomposes s and drops combining marks ("é" becomes "e").
func FoldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// SimilarityThreshold returns the trigram threshold for a normalized query.
// Short queries need a near exact match; long ones tolerate typos.
func SimilarityThreshold(normalized string) float64 {
	n := utf8.RuneCountInString(normalized)
	switch {
	case n == 0:
		return 0.3
	case n <= 2:
		return 0.9
	case n <= 4:
		return 0.6
	case n <= 8:
		return 0.4
	default:
		return 0.3
	}
}
