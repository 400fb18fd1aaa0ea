// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package search

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/poigate/internal/filters"
)

// ========================================
// Sort
// ========================================

func TestResolveSort(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Sort
		segment bool
		backend Sort
	}{
		{"", SortGatto, false, SortGatto},
		{"bogus", SortGatto, false, SortGatto},
		{"price_desc", SortPriceDesc, false, SortPriceDesc},
		{"rating", SortRating, false, SortRating},
		{"digital", SortDigital, true, SortGatto},
		{"awarded", SortAwarded, true, SortGatto},
		{"fresh", SortFresh, true, SortGatto},
	}
	for _, tt := range tests {
		got := ResolveSort(tt.in)
		if got != tt.want {
			t.Errorf("ResolveSort(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if got.IsSegment() != tt.segment {
			t.Errorf("%q.IsSegment() = %v", got, got.IsSegment())
		}
		if got.Backend() != tt.backend {
			t.Errorf("%q.Backend() = %q, want %q", got, got.Backend(), tt.backend)
		}
	}
}

// ========================================
// Cursors
// ========================================

func TestKeysetRoundTrip(t *testing.T) {
	t.Parallel()

	in := Keyset{Score: 87.25, ID: "0b6f3c1e-poi"}
	out := DecodeKeyset(EncodeKeyset(in))
	if out == nil || *out != in {
		t.Fatalf("round trip = %+v, want %+v", out, in)
	}
}

func TestDecodeKeyset_Garbage(t *testing.T) {
	t.Parallel()

	b64 := func(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }
	for _, token := range []string{
		"",
		"!!!not-base64!!!",
		b64("not json"),
		b64(`{"score":1}`),
		b64(`{"id":"x"}`),
		b64(`{"score":"high","id":"x"}`),
		b64(`{"score":1,"id":""}`),
	} {
		if got := DecodeKeyset(token); got != nil {
			t.Errorf("DecodeKeyset(%q) = %+v, want nil", token, got)
		}
	}
}

func TestDecodeKeyset_AcceptsStandardAlphabet(t *testing.T) {
	t.Parallel()

	token := base64.StdEncoding.EncodeToString([]byte(`{"score":12.5,"id":"abc"}`))
	got := DecodeKeyset(token)
	if got == nil || got.Score != 12.5 || got.ID != "abc" {
		t.Errorf("DecodeKeyset(std) = %+v", got)
	}
}

func TestOffsetCursor(t *testing.T) {
	t.Parallel()

	if got := EncodeOffset(24); got != "MjQ=" {
		t.Errorf("EncodeOffset(24) = %q, want MjQ=", got)
	}
	tests := []struct {
		token string
		want  int
	}{
		{"MjQ=", 24},
		{"MjQ", 24},
		{"", 0},
		{"%%%", 0},
		{base64.StdEncoding.EncodeToString([]byte("-5")), 0},
		{base64.StdEncoding.EncodeToString([]byte("abc")), 0},
	}
	for _, tt := range tests {
		if got := DecodeOffset(tt.token); got != tt.want {
			t.Errorf("DecodeOffset(%q) = %d, want %d", tt.token, got, tt.want)
		}
	}
}

// ========================================
// Compile
// ========================================

func TestCompile_AllKeysPresent(t *testing.T) {
	t.Parallel()

	p := Compile(Request{Filters: filters.Normalize(filters.Raw{})})
	raw, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatal(err)
	}

	keys := []string{
		"p_bbox", "p_city_slug", "p_primary_types", "p_subcategories",
		"p_neighbourhood_slugs", "p_district_slugs", "p_tags_all", "p_tags_any",
		"p_awards_providers", "p_price_min", "p_price_max", "p_rating_min",
		"p_rating_max", "p_awarded", "p_fresh", "p_sort", "p_limit", "p_offset",
		"p_cursor_score", "p_cursor_id", "p_name_search", "p_name_similarity_threshold",
	}
	for _, k := range keys {
		if _, ok := m[k]; !ok {
			t.Errorf("missing key %s", k)
		}
	}
	if len(m) != len(keys) {
		t.Errorf("got %d keys, want %d", len(m), len(keys))
	}
	if m["p_tags_all"] != nil {
		t.Errorf("absent tags should be null, got %v", m["p_tags_all"])
	}
	if m["p_city_slug"] != "paris" {
		t.Errorf("p_city_slug = %v, want paris", m["p_city_slug"])
	}
	if m["p_limit"] != float64(DefaultLimit) {
		t.Errorf("p_limit = %v", m["p_limit"])
	}
}

func TestCompile_BBoxDropsCity(t *testing.T) {
	t.Parallel()

	set := filters.Normalize(filters.Raw{BBox: "48.85,2.33,48.87,2.36", City: "lyon"})
	p := Compile(Request{Filters: set})
	if p.CitySlug != nil {
		t.Errorf("p_city_slug = %q, want null with bbox", *p.CitySlug)
	}
	if len(p.BBox) != 4 || p.BBox[0] != 48.85 {
		t.Errorf("p_bbox = %v", p.BBox)
	}
}

func TestCompile_Pagination(t *testing.T) {
	t.Parallel()

	set := filters.Normalize(filters.Raw{})

	page := Compile(Request{Filters: set, Limit: 24, Page: 3, Cursor: &Keyset{Score: 1, ID: "x"}})
	if page.Offset == nil || *page.Offset != 48 {
		t.Errorf("page 3 offset = %v, want 48", page.Offset)
	}
	if page.CursorID != nil {
		t.Error("page mode must ignore the keyset cursor")
	}

	keyset := Compile(Request{Filters: set, Cursor: &Keyset{Score: 71.5, ID: "poi-9"}})
	if keyset.Offset != nil {
		t.Error("keyset mode must not send an offset")
	}
	if keyset.CursorScore == nil || *keyset.CursorScore != 71.5 || *keyset.CursorID != "poi-9" {
		t.Errorf("cursor = %v/%v", keyset.CursorScore, keyset.CursorID)
	}
}

func TestCompile_SegmentSortAndLimit(t *testing.T) {
	t.Parallel()

	p := Compile(Request{Filters: filters.Normalize(filters.Raw{}), Sort: SortFresh, Limit: 500})
	if p.Sort != SortGatto {
		t.Errorf("p_sort = %q, want gatto", p.Sort)
	}
	if p.Limit != MaxLimit {
		t.Errorf("p_limit = %d, want %d", p.Limit, MaxLimit)
	}
}

func TestCompile_Query(t *testing.T) {
	t.Parallel()

	set := filters.Normalize(filters.Raw{PrimaryType: "bar"})

	typed := Compile(Request{Filters: set, Query: &Parsed{Mode: ModeType, TypeKeys: []string{"italian_restaurant", "bar"}}})
	if strings.Join(typed.PrimaryTypes, ",") != "bar,italian_restaurant" {
		t.Errorf("p_primary_types = %v", typed.PrimaryTypes)
	}
	if typed.NameSearch != nil {
		t.Error("type mode must not set p_name_search")
	}

	named := Compile(Request{Filters: set, Query: &Parsed{Mode: ModeName, NameSearch: "Le Comptoir", NameSimilarityThreshold: 0.3}})
	if named.NameSearch == nil || *named.NameSearch != "Le Comptoir" || *named.NameSimilarityThreshold != 0.3 {
		t.Errorf("name search = %v / %v", named.NameSearch, named.NameSimilarityThreshold)
	}
}

func TestFacetsFor_NoPaginationKeys(t *testing.T) {
	t.Parallel()

	raw, err := json.Marshal(FacetsFor(filters.Normalize(filters.Raw{Tags: "wifi"}), SortRating))
	if err != nil {
		t.Fatal(err)
	}
	s := string(raw)
	for _, k := range []string{"p_limit", "p_offset", "p_cursor_id", "p_name_search"} {
		if strings.Contains(s, k) {
			t.Errorf("facet params contain %s: %s", k, s)
		}
	}
	if !strings.Contains(s, `"p_tags_all":["wifi"]`) || !strings.Contains(s, `"p_sort":"rating"`) {
		t.Errorf("unexpected facet params: %s", s)
	}
}

// ========================================
// Query normalization
// ========================================

func TestNormalizeQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"  Café  ", "cafe"},
		{"Crème Brûlée", "creme brulee"},
		{"Œufs", "oeufs"},
		{"Ætna", "aetna"},
		{"L’Ami", "l'ami"},
	}
	for _, tt := range tests {
		if got := NormalizeQuery(tt.in); got != tt.want {
			t.Errorf("NormalizeQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSimilarityThreshold(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want float64
	}{
		{"", 0.3}, {"ab", 0.9}, {"abcd", 0.6}, {"abcdefgh", 0.4}, {"abcdefghi", 0.3},
	}
	for _, tt := range tests {
		if got := SimilarityThreshold(tt.in); got != tt.want {
			t.Errorf("SimilarityThreshold(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidateQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want error
	}{
		{"pizza", nil},
		{"L'Ami Jean", nil},
		{"crêperie-bretonne", nil},
		{"a", ErrQueryTooShort},
		{"   a  ", ErrQueryTooShort},
		{strings.Repeat("a", 201), ErrQueryTooLong},
		{"pizza; drop", ErrQueryInvalidChar},
		{"<script>", ErrQueryInvalidChar},
	}
	for _, tt := range tests {
		if got := ValidateQuery(tt.in); !errors.Is(got, tt.want) {
			t.Errorf("ValidateQuery(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
