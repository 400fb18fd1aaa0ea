// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package api

import (
	"errors"
	"net/http"
	"net/url"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/form/v4"

	"github.com/tomtom215/poigate/internal/filters"
	"github.com/tomtom215/poigate/internal/validation"
)

// FilterQuery holds the filter parameters shared by /v1/pois and
// /v1/pois/facets. Values stay raw strings; filters.Normalize parses them
// after the validator has checked their grammar.
type FilterQuery struct {
	BBox              string `form:"bbox" validate:"omitempty,bbox"`
	City              string `form:"city" validate:"omitempty,max=200,slug"`
	PrimaryType       string `form:"primary_type" validate:"omitempty,max=500,csvlist"`
	Subcategory       string `form:"subcategory" validate:"omitempty,max=500,csvlist"`
	NeighbourhoodSlug string `form:"neighbourhood_slug" validate:"omitempty,max=500,csvlist"`
	DistrictSlug      string `form:"district_slug" validate:"omitempty,max=500,csvlist"`
	Tags              string `form:"tags" validate:"omitempty,max=500,csvlist"`
	TagsAny           string `form:"tags_any" validate:"omitempty,max=500,csvlist"`
	Awards            string `form:"awards" validate:"omitempty,max=200,csvlist"`
	Awarded           string `form:"awarded" validate:"omitempty,oneof=true false"`
	Fresh             string `form:"fresh" validate:"omitempty,oneof=true false"`
	Price             string `form:"price" validate:"omitempty,legacy_price"`
	PriceMin          string `form:"price_min" validate:"omitempty,price_level"`
	PriceMax          string `form:"price_max" validate:"omitempty,price_level"`
	RatingMin         string `form:"rating_min" validate:"omitempty,rating"`
	RatingMax         string `form:"rating_max" validate:"omitempty,rating"`
}

// Raw converts the query to the normalizer input.
func (q FilterQuery) Raw() filters.Raw {
	return filters.Raw{
		BBox:              q.BBox,
		City:              q.City,
		PrimaryType:       q.PrimaryType,
		Subcategory:       q.Subcategory,
		NeighbourhoodSlug: q.NeighbourhoodSlug,
		DistrictSlug:      q.DistrictSlug,
		Tags:              q.Tags,
		TagsAny:           q.TagsAny,
		Awards:            q.Awards,
		Awarded:           q.Awarded,
		Fresh:             q.Fresh,
		Price:             q.Price,
		PriceMin:          q.PriceMin,
		PriceMax:          q.PriceMax,
		RatingMin:         q.RatingMin,
		RatingMax:         q.RatingMax,
	}
}

// POIListRequest is the query of GET /v1/pois. Page selects offset
// pagination; otherwise Cursor is read as a keyset cursor.
type POIListRequest struct {
	FilterQuery
	Q      string `form:"q" validate:"omitempty,max=200"`
	Sort   string `form:"sort" validate:"omitempty,max=32"`
	View   string `form:"view" validate:"omitempty,oneof=card detail"`
	Fields string `form:"fields" validate:"omitempty,max=500,csvlist"`
	Limit  int    `form:"limit" validate:"omitempty,min=1,max=80"`
	Page   int    `form:"page" validate:"omitempty,min=1,max=10000"`
	Cursor string `form:"cursor" validate:"omitempty,max=512"`
	Lang   string `form:"lang" validate:"omitempty,oneof=fr en"`
}

// FacetsRequest is the query of GET /v1/pois/facets.
type FacetsRequest struct {
	FilterQuery
	Sort string `form:"sort" validate:"omitempty,max=32"`
	Lang string `form:"lang" validate:"omitempty,oneof=fr en"`
}

// LangRequest is the query of endpoints that only take a language.
type LangRequest struct {
	Lang string `form:"lang" validate:"omitempty,oneof=fr en"`
}

// AutocompleteRequest is the query of GET /v1/autocomplete.
type AutocompleteRequest struct {
	Q     string `form:"q" validate:"required,min=1,max=200"`
	City  string `form:"city" validate:"omitempty,max=200,slug"`
	Lang  string `form:"lang" validate:"omitempty,oneof=fr en"`
	Limit int    `form:"limit" validate:"omitempty,min=1,max=50"`
}

// CollectionsRequest is the query of GET /v1/collections.
type CollectionsRequest struct {
	City  string `form:"city" validate:"omitempty,max=200,slug"`
	Page  int    `form:"page" validate:"omitempty,min=1,max=10000"`
	Limit int    `form:"limit" validate:"omitempty,min=1,max=50"`
	Lang  string `form:"lang" validate:"omitempty,oneof=fr en"`
}

// CollectionRequest is the query of GET /v1/collections/{slug}.
type CollectionRequest struct {
	Cursor string `form:"cursor" validate:"omitempty,max=64"`
	Limit  int    `form:"limit" validate:"omitempty,min=1,max=50"`
	Lang   string `form:"lang" validate:"omitempty,oneof=fr en"`
}

// SitemapRequest is the query of GET /v1/sitemap/pois.
type SitemapRequest struct {
	Page  int `form:"page" validate:"omitempty,min=1"`
	Limit int `form:"limit" validate:"omitempty,min=1,max=1000"`
}

var (
	decoder     = form.NewDecoder()
	schemaCache sync.Map // reflect.Type -> map[string]reflect.Kind
)

// bindQuery decodes the query string of r into dst and validates it. The
// schema is closed: parameters without a form tag on dst are rejected.
func bindQuery(r *http.Request, dst any) *validation.RequestValidationError {
	values := r.URL.Query()
	schema := querySchema(reflect.TypeOf(dst))

	if unknown := unknownKeys(values, schema); len(unknown) > 0 {
		return validation.UnrecognizedKeys(unknown)
	}

	if err := decoder.Decode(dst, values); err != nil {
		var decodeErrs form.DecodeErrors
		if errors.As(err, &decodeErrs) {
			fields := make([]string, 0, len(decodeErrs))
			for field := range decodeErrs {
				fields = append(fields, field)
			}
			sort.Strings(fields)
			return validation.InvalidType(fields[0], kindName(schema[fields[0]]))
		}
		return validation.InvalidType("query", "query string")
	}

	return validation.ValidateStruct(dst)
}

func unknownKeys(values url.Values, schema map[string]reflect.Kind) []string {
	var unknown []string
	for name := range values {
		if _, ok := schema[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	return unknown
}

// querySchema maps the form names of t (a struct or pointer to one),
// including promoted fields of embedded structs, to their kinds.
func querySchema(t reflect.Type) map[string]reflect.Kind {
	if cached, ok := schemaCache.Load(t); ok {
		return cached.(map[string]reflect.Kind)
	}
	schema := make(map[string]reflect.Kind)
	collectFields(t, schema)
	schemaCache.Store(t, schema)
	return schema
}

func collectFields(t reflect.Type, schema map[string]reflect.Kind) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			collectFields(f.Type, schema)
			continue
		}
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			continue
		}
		schema[name] = f.Type.Kind()
	}
}

func kindName(k reflect.Kind) string {
	switch k {
	case reflect.Int, reflect.Int64, reflect.Int32:
		return "integer"
	case reflect.Float64, reflect.Float32:
		return "number"
	case reflect.Bool:
		return "boolean"
	default:
		return "string"
	}
}
