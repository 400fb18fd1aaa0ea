// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package assemble

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tomtom215/poigate/internal/models"
	"github.com/tomtom215/poigate/internal/search"
)

const (
	defaultCity     = "Paris"
	defaultCitySlug = "paris"
)

// Crumb is one breadcrumb link.
type Crumb struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

var (
	slugStrip  = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaces = regexp.MustCompile(`\s+`)
	slugDashes = regexp.MustCompile(`-+`)
)

// Slugify lowercases s, strips accents and keeps [a-z0-9-], turning runs of
// whitespace into a single dash.
func Slugify(s string) string {
	s = search.FoldAccents(strings.ToLower(strings.TrimSpace(s)))
	s = slugStrip.ReplaceAllString(s, "")
	s = slugSpaces.ReplaceAllString(s, "-")
	return slugDashes.ReplaceAllString(s, "-")
}

var frPlurals = map[string]string{
	"bar":         "bars",
	"café":        "cafés",
	"restaurant":  "restaurants",
	"boulangerie": "boulangeries",
	"patisserie":  "patisseries",
	"hotel":       "hotels",
}

// PluralizeCategory returns the plural label of a category.
func PluralizeCategory(category, lang string) string {
	if lang == LangFR {
		if p, ok := frPlurals[strings.ToLower(category)]; ok {
			return p
		}
	}
	return category + "s"
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Breadcrumb builds city, category and district links for a POI.
func Breadcrumb(row *models.POIRow, lang string) []Crumb {
	lang = NormalizeLang(lang)

	city := defaultCity
	if row.City != nil && *row.City != "" {
		city = *row.City
	}
	citySlug := defaultCitySlug
	if row.CitySlug != nil && *row.CitySlug != "" {
		citySlug = *row.CitySlug
	}

	crumbs := []Crumb{{Label: city, Href: "/" + citySlug}}

	if row.Category == nil || *row.Category == "" {
		return crumbs
	}
	category := *row.Category
	categoryPath := "/" + citySlug + "/" + Slugify(category+"s")
	crumbs = append(crumbs, Crumb{
		Label: capitalize(PluralizeCategory(category, lang)),
		Href:  categoryPath,
	})

	if row.DistrictName != nil && *row.DistrictName != "" {
		crumbs = append(crumbs, Crumb{
			Label: *row.DistrictName,
			Href:  categoryPath + "/" + Slugify(*row.DistrictName),
		})
	}
	return crumbs
}
