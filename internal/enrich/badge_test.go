// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package enrich

import (
	"strings"
	"testing"

	"github.com/tomtom215/poigate/internal/models"
)

func TestBadgeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		pct       *models.Percentile
		freshness *float64
		lang      string
		wantTier  string
		wantLabel string
	}{
		{"top 10", &models.Percentile{Percentile: 10, CategorySize: 50}, nil, "en", TierReference, "Reference"},
		{"top 25", &models.Percentile{Percentile: 11, CategorySize: 50}, nil, "fr", TierExcellent, "Excellent"},
		{"top 40", &models.Percentile{Percentile: 40, CategorySize: 50}, nil, "fr", TierSolid, "Solide"},
		{"top 60", &models.Percentile{Percentile: 59.5, CategorySize: 50}, nil, "en", TierGoodChoice, "Good choice"},
		{"unranked and fresh", &models.Percentile{Percentile: 80, CategorySize: 50}, floatPtr(6), "en", TierUpAndComing, "Up & coming"},
		{"unranked not fresh", &models.Percentile{Percentile: 80, CategorySize: 50}, floatPtr(5), "en", "", ""},
		{"small category", &models.Percentile{Percentile: 1, CategorySize: 4}, floatPtr(20), "en", "", ""},
		{"no percentile but fresh", nil, floatPtr(7.5), "fr", TierUpAndComing, "Prometteur"},
		{"nothing", nil, nil, "fr", "", ""},
		{"unknown lang falls back to fr", &models.Percentile{Percentile: 5, CategorySize: 10}, nil, "de", TierReference, "Référence"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := BadgeFor("poi-1", tt.pct, tt.freshness, tt.lang)
			if tt.wantTier == "" {
				if b != nil {
					t.Errorf("badge = %+v, want nil", b)
				}
				return
			}
			if b == nil {
				t.Fatal("badge = nil")
			}
			if b.Tier != tt.wantTier || b.Label != tt.wantLabel {
				t.Errorf("badge = %s/%s, want %s/%s", b.Tier, b.Label, tt.wantTier, tt.wantLabel)
			}
			if b.Tagline == "" {
				t.Error("tagline is empty")
			}
		})
	}
}

func TestBadgeDeterministic(t *testing.T) {
	t.Parallel()

	pct := &models.Percentile{Percentile: 3, CategorySize: 100}
	for _, id := range []string{"a", "3f1c2b9e-0000-4000-8000-000000000001", "zzz"} {
		first := BadgeFor(id, pct, nil, "fr")
		for i := 0; i < 10; i++ {
			again := BadgeFor(id, pct, nil, "fr")
			if again.Tier != first.Tier || again.Label != first.Label || again.Tagline != first.Tagline {
				t.Fatalf("BadgeFor(%q) changed between calls: %+v vs %+v", id, first, again)
			}
		}
	}
}

func TestBadgeTaglinesSpreadAcrossPool(t *testing.T) {
	t.Parallel()

	pct := &models.Percentile{Percentile: 3, CategorySize: 100}
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		id := strings.Repeat("x", i%7) + string(rune('a'+i%26))
		seen[BadgeFor(id, pct, nil, "en").Tagline] = true
	}
	if len(seen) < 2 {
		t.Errorf("only %d distinct taglines over 200 ids", len(seen))
	}
}

func TestFaviconURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		domain string
		want   string
	}{
		{"lemonde.fr", "https://www.google.com/s2/favicons?domain=lemonde.fr&sz=64"},
		{"guide.michelin.com", "https://www.google.com/s2/favicons?domain=news.google.com&sz=64"},
		{"MICHELIN.fr", "https://www.google.com/s2/favicons?domain=news.google.com&sz=64"},
	}
	for _, tt := range tests {
		if got := FaviconURL(tt.domain); got != tt.want {
			t.Errorf("FaviconURL(%q) = %q, want %q", tt.domain, got, tt.want)
		}
	}
}
