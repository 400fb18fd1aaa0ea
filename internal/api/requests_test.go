// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package api

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/tomtom215/poigate/internal/validation"
)

// ============================================================================
// bindQuery
// ============================================================================

func TestBindQuery_Valid(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/v1/pois?city=paris&tags=terrace,wifi&limit=10&view=detail&lang=en&price_min=2", nil)
	var req POIListRequest
	if verr := bindQuery(r, &req); verr != nil {
		t.Fatalf("bindQuery() = %v", verr)
	}

	if req.City != "paris" {
		t.Errorf("City = %q, want paris", req.City)
	}
	if req.Tags != "terrace,wifi" {
		t.Errorf("Tags = %q", req.Tags)
	}
	if req.Limit != 10 || req.View != "detail" || req.Lang != "en" || req.PriceMin != "2" {
		t.Errorf("decoded request = %+v", req)
	}
}

func TestBindQuery_Rejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		query     string
		wantField string
		wantCode  string
	}{
		{"unknown key", "foo=1", "foo", validation.CodeUnrecognizedKeys},
		{"unknown key with valid ones", "city=paris&zzz=1", "zzz", validation.CodeUnrecognizedKeys},
		{"non-numeric limit", "limit=abc", "limit", validation.CodeInvalidType},
		{"limit above max", "limit=200", "limit", "max"},
		{"limit below min", "limit=-1", "limit", "min"},
		{"page above max", "page=10001", "page", "max"},
		{"bad view", "view=map", "view", "oneof"},
		{"bad lang", "lang=de", "lang", "oneof"},
		{"bad city slug", "city=Paris!", "city", "slug"},
		{"bad bbox", "bbox=1,2,3", "bbox", "bbox"},
		{"bad awarded", "awarded=yes", "awarded", "oneof"},
		{"bad price", "price=5", "price", "legacy_price"},
		{"bad rating", "rating_min=6", "rating_min", "rating"},
		{"bad tag list", "tags=Terrace", "tags", "csvlist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodGet, "/v1/pois?"+tt.query, nil)
			var req POIListRequest
			verr := bindQuery(r, &req)
			if verr == nil {
				t.Fatal("bindQuery() = nil, want error")
			}
			d := verr.Details()[0]
			if d.Field != tt.wantField || d.Code != tt.wantCode {
				t.Errorf("details[0] = %+v, want field %q code %q", d, tt.wantField, tt.wantCode)
			}
		})
	}
}

func TestBindQuery_UnknownKeysSorted(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/v1/pois?zeta=1&alpha=2", nil)
	var req POIListRequest
	verr := bindQuery(r, &req)
	if verr == nil {
		t.Fatal("expected error")
	}

	var got []string
	for _, d := range verr.Details() {
		got = append(got, d.Field)
	}
	if !reflect.DeepEqual(got, []string{"alpha", "zeta"}) {
		t.Errorf("fields = %v", got)
	}
}

func TestBindQuery_AutocompleteRequiresQuery(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/v1/autocomplete?city=paris", nil)
	var req AutocompleteRequest
	verr := bindQuery(r, &req)
	if verr == nil {
		t.Fatal("expected error for missing q")
	}
	if d := verr.Details()[0]; d.Field != "q" || d.Code != "required" {
		t.Errorf("details[0] = %+v", d)
	}
}

func TestQuerySchema(t *testing.T) {
	t.Parallel()

	schema := querySchema(reflect.TypeOf(&POIListRequest{}))
	for _, name := range []string{"bbox", "city", "tags_any", "rating_max", "q", "sort", "cursor", "lang"} {
		if _, ok := schema[name]; !ok {
			t.Errorf("schema missing %q", name)
		}
	}
	if schema["limit"] != reflect.Int {
		t.Errorf("limit kind = %v, want int", schema["limit"])
	}
	if _, ok := schema["FilterQuery"]; ok {
		t.Error("embedded struct must be flattened")
	}
}

func TestKindName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind reflect.Kind
		want string
	}{
		{reflect.Int, "integer"},
		{reflect.Float64, "number"},
		{reflect.Bool, "boolean"},
		{reflect.String, "string"},
	}
	for _, tt := range tests {
		if got := kindName(tt.kind); got != tt.want {
			t.Errorf("kindName(%v) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
