// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package assemble

import (
	"reflect"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/poigate/internal/enrich"
	"github.com/tomtom215/poigate/internal/models"
	"github.com/tomtom215/poigate/internal/search"
)

func strPtr(s string) *string     { return &s }
func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }

// ============================================================================
// Language selection
// ============================================================================

func TestPickLang(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		fields map[string]*string
		lang   string
		want   *string
	}{
		{"exact language", map[string]*string{"name_en": strPtr("The Cat"), "name_fr": strPtr("Le Chat")}, "en", strPtr("The Cat")},
		{"falls back to other language", map[string]*string{"name_fr": strPtr("Le Chat"), "name": strPtr("Legacy")}, "en", strPtr("Le Chat")},
		{"falls back to legacy", map[string]*string{"name": strPtr("Legacy")}, "en", strPtr("Legacy")},
		{"empty string is absent", map[string]*string{"name_fr": strPtr(""), "name_en": strPtr("Cat")}, "fr", strPtr("Cat")},
		{"nothing", map[string]*string{}, "fr", nil},
		{"unknown lang uses fr", map[string]*string{"name_fr": strPtr("Chat"), "name_en": strPtr("Cat")}, "de", strPtr("Chat")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := PickLang(tt.fields, tt.lang, "name")
			if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
				t.Errorf("PickLang = %v, want %v", deref(got), deref(tt.want))
			}
		})
	}
}

func deref(p *string) string {
	if p == nil {
		return "<nil>"
	}
	return *p
}

// ============================================================================
// Field allowlist
// ============================================================================

func TestFilterFields(t *testing.T) {
	t.Parallel()

	it := &Item{ID: "a", Slug: strPtr("s"), Name: strPtr("n"), Score: floatPtr(70), MentionsCount: 3}

	same, err := FilterFields(it, nil)
	if err != nil || same != any(it) {
		t.Fatalf("nil allowlist should return item unchanged, got %v, %v", same, err)
	}

	got, err := FilterFields(it, []string{"score", "does_not_exist"})
	if err != nil {
		t.Fatalf("FilterFields() error = %v", err)
	}
	m := got.(map[string]json.RawMessage)
	var keys []string
	for k := range m {
		keys = append(keys, k)
	}
	want := map[string]bool{"id": true, "slug": true, "name": true, "score": true}
	if len(keys) != len(want) {
		t.Errorf("keys = %v, want %v", keys, want)
	}
	for _, k := range keys {
		if !want[k] {
			t.Errorf("unexpected key %q", k)
		}
	}
	if string(m["score"]) != "70" {
		t.Errorf("score = %s", m["score"])
	}
}

// ============================================================================
// Builders
// ============================================================================

func sampleRow() *models.POIRow {
	return &models.POIRow{
		ID:                "poi-1",
		NameFr:            strPtr("Le Chat Noir"),
		SlugFr:            strPtr("le-chat-noir"),
		SlugEn:            strPtr("the-black-cat"),
		AISummaryFr:       strPtr("Un bistrot."),
		Lat:               floatPtr(48.86),
		Lng:               floatPtr(2.35),
		PrimaryType:       strPtr("bistro"),
		Category:          strPtr("restaurant"),
		City:              strPtr("Paris"),
		CitySlug:          strPtr("paris"),
		DistrictSlug:      strPtr("11e"),
		DistrictName:      strPtr("Bastille Rive Droite"),
		NeighbourhoodSlug: strPtr("oberkampf"),
		GattoScore:        floatPtr(82),
		FreshnessBonus:    floatPtr(2),
		RatingValue:       floatPtr(4.1),
		MentionsCount:     intPtr(2),
		MentionsSample:    json.RawMessage(`"[{\"domain\":\"guide.michelin.com\",\"url\":\"u\",\"title\":\"t\"}]"`),
		Tags:              json.RawMessage(`{"terrace":true}`),
		PriceLevel:        json.RawMessage(`2`),
	}
}

func sampleEnrichment() *enrich.Result {
	return &enrich.Result{
		Photos: map[string][]models.Photo{
			"poi-1": {
				{ID: "p1", POIID: "poi-1"},
				{ID: "p2", POIID: "poi-1", IsPrimary: true},
			},
		},
		Variants: map[string][]models.PhotoVariant{
			"p1": {{VariantKey: "detail@1x", Format: "jpg", CDNURL: "p1-detail.jpg"}},
			"p2": {
				{VariantKey: "card_sq@1x", Format: "webp", CDNURL: "p2-card.webp"},
				{VariantKey: "detail@1x", Format: "avif", CDNURL: "p2-detail.avif"},
			},
		},
		Ratings: map[string]models.RatingSnapshot{
			"poi-1": {POIID: "poi-1", RatingValue: floatPtr(4.7), ReviewsCount: intPtr(312)},
		},
		Percentiles: map[string]models.Percentile{
			"poi-1": {POIID: "poi-1", Percentile: 7, CategorySize: 90},
		},
	}
}

func TestCard(t *testing.T) {
	t.Parallel()

	it := Card(sampleRow(), sampleEnrichment(), "en")

	if *it.Slug != "the-black-cat" || *it.Name != "Le Chat Noir" {
		t.Errorf("slug/name = %s/%s", *it.Slug, *it.Name)
	}
	if it.Photo == nil || it.Photo.Variants[0].URL != "p2-card.webp" {
		t.Errorf("photo = %+v, want primary card variant", it.Photo)
	}
	if it.Rating == nil || *it.Rating.Google != 4.7 || it.Rating.ReviewsCount != 312 {
		t.Errorf("rating = %+v, want enrichment rating", it.Rating)
	}
	if *it.Score != 82 {
		t.Errorf("score = %v", *it.Score)
	}
	if it.MentionsCount != 2 || len(it.MentionsSample) != 1 {
		t.Fatalf("mentions = %d/%v", it.MentionsCount, it.MentionsSample)
	}
	if !strings.Contains(it.MentionsSample[0].Favicon, "news.google.com") {
		t.Errorf("favicon = %s, want placeholder", it.MentionsSample[0].Favicon)
	}
	if it.Badge == nil || it.Badge.Tier != enrich.TierReference {
		t.Errorf("badge = %+v", it.Badge)
	}
	if it.Photos != nil || it.Summary != nil {
		t.Error("card should not carry detail fields")
	}
}

func TestCardWithoutEnrichment(t *testing.T) {
	t.Parallel()

	row := sampleRow()
	row.RatingValue = nil
	row.MentionsSample = json.RawMessage(`not json`)

	it := Card(row, &enrich.Result{}, "fr")
	if it.Rating != nil {
		t.Errorf("rating = %+v, want absent", it.Rating)
	}
	if it.Photo != nil {
		t.Error("photo should be absent")
	}
	if it.MentionsSample == nil || len(it.MentionsSample) != 0 {
		t.Errorf("mentions sample = %v, want empty slice", it.MentionsSample)
	}

	raw, err := json.Marshal(it)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(raw), `"rating"`) {
		t.Errorf("rating key should be omitted: %s", raw)
	}
}

func TestDetail(t *testing.T) {
	t.Parallel()

	it := Detail(sampleRow(), sampleEnrichment(), "fr")

	if it.Photo != nil {
		t.Error("detail view replaces photo with photos")
	}
	if it.Photos == nil || it.Photos.Primary == nil {
		t.Fatal("expected a primary photo")
	}
	if it.Photos.Primary.Variants[0].URL != "p2-detail.avif" {
		t.Errorf("primary = %+v", it.Photos.Primary.Variants)
	}
	if it.Photos.Primary.Card == nil || it.Photos.Primary.Card.Variants[0].URL != "p2-card.webp" {
		t.Errorf("primary card = %+v", it.Photos.Primary.Card)
	}
	if len(it.Photos.Gallery) != 1 || it.Photos.Gallery[0].Variants[0].URL != "p1-detail.jpg" {
		t.Errorf("gallery = %+v", it.Photos.Gallery)
	}
	if it.Summary == nil || *it.Summary != "Un bistrot." {
		t.Errorf("summary = %v", it.Summary)
	}
	if string(it.PriceLevel) != "2" {
		t.Errorf("price_level = %s", it.PriceLevel)
	}
}

func TestDetailGalleryCap(t *testing.T) {
	t.Parallel()

	enr := &enrich.Result{Photos: map[string][]models.Photo{}, Variants: map[string][]models.PhotoVariant{}}
	for i := 0; i < 9; i++ {
		id := string(rune('a' + i))
		enr.Photos["poi-1"] = append(enr.Photos["poi-1"], models.Photo{ID: id, POIID: "poi-1", IsPrimary: i == 0})
		enr.Variants[id] = []models.PhotoVariant{{VariantKey: "detail@1x", Format: "jpg", CDNURL: id}}
	}

	it := Detail(sampleRow(), enr, "fr")
	if got := len(it.Photos.Gallery); got != 5 {
		t.Errorf("gallery = %d photos, want 5", got)
	}
}

func TestBuildPOIDetail(t *testing.T) {
	t.Parallel()

	enr := sampleEnrichment()
	enr.TagLabels = json.RawMessage(`[{"key":"terrace","label":"Terrasse"}]`)

	d := BuildPOIDetail(sampleRow(), enr, "fr")
	raw, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, k := range []string{"id", "slug", "photos", "city", "address", "tags_keys", "tags", "mentions", "breadcrumb", "scores"} {
		if _, ok := m[k]; !ok {
			t.Errorf("missing key %q in %s", k, raw)
		}
	}
	if string(m["mentions"]) != "[]" {
		t.Errorf("mentions = %s, want []", m["mentions"])
	}
}

// ============================================================================
// Breadcrumbs
// ============================================================================

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Bastille Rive Droite": "bastille-rive-droite",
		"  Café  Crème ":       "cafe-creme",
		"Saint-Germain--des":   "saint-germain-des",
		"L'Étoile!":            "letoile",
	}
	for in, want := range tests {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBreadcrumb(t *testing.T) {
	t.Parallel()

	got := Breadcrumb(sampleRow(), "fr")
	want := []Crumb{
		{Label: "Paris", Href: "/paris"},
		{Label: "Restaurants", Href: "/paris/restaurants"},
		{Label: "Bastille Rive Droite", Href: "/paris/restaurants/bastille-rive-droite"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Breadcrumb = %+v, want %+v", got, want)
	}

	bare := Breadcrumb(&models.POIRow{ID: "x", Category: strPtr("café")}, "fr")
	wantBare := []Crumb{
		{Label: "Paris", Href: "/paris"},
		{Label: "Cafés", Href: "/paris/cafes"},
	}
	if !reflect.DeepEqual(bare, wantBare) {
		t.Errorf("Breadcrumb defaults = %+v, want %+v", bare, wantBare)
	}
}

func TestPluralizeCategory(t *testing.T) {
	t.Parallel()

	if got := PluralizeCategory("hotel", "fr"); got != "hotels" {
		t.Errorf("hotel fr = %s", got)
	}
	if got := PluralizeCategory("musée", "fr"); got != "musées" {
		t.Errorf("musée fr = %s", got)
	}
	if got := PluralizeCategory("bar", "en"); got != "bars" {
		t.Errorf("bar en = %s", got)
	}
}

// ============================================================================
// Sorting and pagination
// ============================================================================

func TestSortBySegment(t *testing.T) {
	t.Parallel()

	mk := func(id string, gatto, digital *float64) *Item {
		return &Item{ID: id, Scores: Scores{Gatto: gatto, Digital: digital}}
	}
	items := []*Item{
		mk("missing", floatPtr(99), nil),
		mk("low", floatPtr(50), floatPtr(10)),
		mk("tie-low-gatto", floatPtr(40), floatPtr(30)),
		mk("tie-high-gatto", floatPtr(60), floatPtr(30)),
		mk("tie-same-1", floatPtr(1), floatPtr(5)),
		mk("tie-same-2", floatPtr(1), floatPtr(5)),
	}

	SortBySegment(items, search.SortDigital)

	var got []string
	for _, it := range items {
		got = append(got, it.ID)
	}
	want := []string{"tie-high-gatto", "tie-low-gatto", "low", "tie-same-1", "tie-same-2", "missing"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestSortBySegmentIgnoresBackendSorts(t *testing.T) {
	t.Parallel()

	items := []*Item{
		{ID: "a", Scores: Scores{Gatto: floatPtr(1)}},
		{ID: "b", Scores: Scores{Gatto: floatPtr(2)}},
	}
	SortBySegment(items, search.SortRating)
	if items[0].ID != "a" {
		t.Error("non-segment sort must not reorder")
	}
}

func TestOffsetPagination(t *testing.T) {
	t.Parallel()

	tests := []struct {
		total, page, limit int
		want               Pagination
	}{
		{101, 1, 24, Pagination{Page: 1, Limit: 24, Total: 101, TotalPages: 5, HasNext: true}},
		{101, 5, 24, Pagination{Page: 5, Limit: 24, Total: 101, TotalPages: 5, HasPrev: true}},
		{0, 1, 24, Pagination{Page: 1, Limit: 24}},
		{48, 2, 24, Pagination{Page: 2, Limit: 24, Total: 48, TotalPages: 2, HasPrev: true}},
	}
	for _, tt := range tests {
		if got := OffsetPagination(tt.total, tt.page, tt.limit); got != tt.want {
			t.Errorf("OffsetPagination(%d,%d,%d) = %+v, want %+v", tt.total, tt.page, tt.limit, got, tt.want)
		}
	}
}

func TestKeysetPage(t *testing.T) {
	t.Parallel()

	rows := []models.POIRow{
		{ID: "a", SortValue: floatPtr(90), GattoScore: floatPtr(90)},
		{ID: "b", SortValue: floatPtr(3), GattoScore: floatPtr(80)},
	}

	if c := KeysetPage(rows, 3, search.SortGatto); c.NextCursor != nil || c.PreviousCursor != nil {
		t.Errorf("short page cursors = %+v, want none", c)
	}

	c := KeysetPage(rows, 2, search.SortPriceDesc)
	if c.NextCursor == nil {
		t.Fatal("full page should have a next cursor")
	}
	if k := search.DecodeKeyset(*c.NextCursor); k == nil || k.ID != "b" || k.Score != 3 {
		t.Errorf("cursor = %+v, want sort_value 3 of b", k)
	}
	if c.PreviousCursor != nil {
		t.Error("previous cursor must be null")
	}

	seg := KeysetPage(rows, 2, search.SortFresh)
	if k := search.DecodeKeyset(*seg.NextCursor); k.Score != 80 {
		t.Errorf("segment cursor score = %v, want gatto 80", k.Score)
	}
}

func TestSitemapScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   *float64
		want float64
	}{
		{nil, 0},
		{floatPtr(0), 0},
		{floatPtr(73.456), 3.67},
		{floatPtr(100), 5},
		{floatPtr(150), 5},
		{floatPtr(-10), 0},
	}
	for _, tt := range tests {
		if got := SitemapScore(tt.in); got != tt.want {
			t.Errorf("SitemapScore(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// ============================================================================
// Collections
// ============================================================================

func TestBuildCollectionDetail(t *testing.T) {
	t.Parallel()

	row := &models.CollectionRow{ID: "c1", SlugFr: strPtr("terrasses"), TitleFr: strPtr("Terrasses")}
	pois := []models.POIRow{*sampleRow()}
	pois[0].TotalCount = intPtr(30)

	d := BuildCollectionDetail(row, pois, sampleEnrichment(), "fr", 12, 12)

	if d.Total != 30 || d.POICount != 30 {
		t.Errorf("total = %d, poi_count = %d", d.Total, d.POICount)
	}
	if d.Cover == nil || d.Cover.Variants[0].URL != "p2-card.webp" {
		t.Errorf("cover = %+v, want first POI photo", d.Cover)
	}
	if d.NextCursor == nil || search.DecodeOffset(*d.NextCursor) != 24 {
		t.Errorf("next = %v, want offset 24", d.NextCursor)
	}
	if d.PreviousCursor == nil || search.DecodeOffset(*d.PreviousCursor) != 0 {
		t.Errorf("prev = %v, want offset 0", d.PreviousCursor)
	}
}

func TestCollectionSummaryCover(t *testing.T) {
	t.Parallel()

	row := &models.CollectionRow{ID: "c1", CoverPOIID: strPtr("poi-1"), POICount: intPtr(8)}
	c := CollectionSummary(row, sampleEnrichment(), "en")
	if c.Cover == nil || c.POICount != 8 {
		t.Errorf("summary = %+v", c)
	}
	if ids := CoverIDs([]models.CollectionRow{*row, {ID: "c2"}}); !reflect.DeepEqual(ids, []string{"poi-1"}) {
		t.Errorf("CoverIDs = %v", ids)
	}
}
