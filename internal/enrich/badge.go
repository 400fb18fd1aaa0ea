// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package enrich

import (
	"hash/fnv"

	"github.com/tomtom215/poigate/internal/models"
)

// Badge tiers.
const (
	TierReference   = "reference"
	TierExcellent   = "excellent"
	TierSolid       = "solid"
	TierGoodChoice  = "good_choice"
	TierUpAndComing = "up_and_coming"
)

const (
	// minCategorySize is the smallest category in which a percentile means anything.
	minCategorySize = 5
	// upAndComingFreshness is the freshness bonus above which an unranked POI
	// is still worth flagging.
	upAndComingFreshness = 5.0
)

// Badge is the percentile-derived label shown on cards.
type Badge struct {
	Tier       string   `json:"tier"`
	Label      string   `json:"label"`
	Tagline    string   `json:"tagline"`
	Percentile *float64 `json:"percentile,omitempty"`
}

type tierCopy struct {
	label    string
	taglines []string
}

var badgeCopy = map[string]map[string]tierCopy{
	"fr": {
		TierReference: {"Référence", []string{
			"Une adresse incontournable",
			"Le haut du panier de sa catégorie",
			"Ce que le quartier fait de mieux",
		}},
		TierExcellent: {"Excellent", []string{
			"Parmi les meilleures adresses",
			"Une valeur sûre",
			"Plébiscité par la presse et le public",
		}},
		TierSolid: {"Solide", []string{
			"Une adresse fiable",
			"Du travail bien fait",
			"On y retourne volontiers",
		}},
		TierGoodChoice: {"Bon choix", []string{
			"Un bon plan du quartier",
			"Une adresse qui tient ses promesses",
			"À garder sous le coude",
		}},
		TierUpAndComing: {"Prometteur", []string{
			"Fait parler de lui en ce moment",
			"Une adresse qui monte",
			"Nouveau et déjà remarqué",
		}},
	},
	"en": {
		TierReference: {"Reference", []string{
			"A must-visit address",
			"Top of its category",
			"The best the neighbourhood has to offer",
		}},
		TierExcellent: {"Excellent", []string{
			"Among the very best",
			"A safe bet",
			"Praised by press and public alike",
		}},
		TierSolid: {"Solid", []string{
			"A reliable address",
			"Consistently well done",
			"Worth going back to",
		}},
		TierGoodChoice: {"Good choice", []string{
			"A good local pick",
			"Delivers on its promise",
			"One to keep in mind",
		}},
		TierUpAndComing: {"Up & coming", []string{
			"Getting noticed right now",
			"A rising address",
			"New and already talked about",
		}},
	},
}

// tierFor maps a top-percentile value to a tier; lower is better (see
// models.Percentile).
func tierFor(percentile float64) string {
	switch {
	case percentile <= 10:
		return TierReference
	case percentile <= 25:
		return TierExcellent
	case percentile <= 40:
		return TierSolid
	case percentile <= 60:
		return TierGoodChoice
	default:
		return ""
	}
}

// BadgeFor derives the badge of a POI. pct may be nil when no percentile is
// known, in which case only the freshness rule applies. A known percentile
// computed over fewer than five POIs suppresses every badge.
func BadgeFor(id string, pct *models.Percentile, freshness *float64, lang string) *Badge {
	var tier string
	var value *float64
	if pct != nil {
		if pct.CategorySize < minCategorySize {
			return nil
		}
		tier = tierFor(pct.Percentile)
		if tier != "" {
			v := pct.Percentile
			value = &v
		}
	}
	if tier == "" && freshness != nil && *freshness > upAndComingFreshness {
		tier = TierUpAndComing
	}
	if tier == "" {
		return nil
	}

	byLang, ok := badgeCopy[lang]
	if !ok {
		byLang = badgeCopy["fr"]
	}
	c := byLang[tier]
	return &Badge{
		Tier:       tier,
		Label:      c.label,
		Tagline:    c.taglines[pickIndex(id, len(c.taglines))],
		Percentile: value,
	}
}

// pickIndex selects a stable pool index for id with FNV-1a.
func pickIndex(id string, n int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return int(h.Sum32() % uint32(n)) //nolint:gosec // n is a small pool length
}
