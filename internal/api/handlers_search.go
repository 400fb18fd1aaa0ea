// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/poigate/internal/assemble"
	"github.com/tomtom215/poigate/internal/cache"
	"github.com/tomtom215/poigate/internal/filters"
	"github.com/tomtom215/poigate/internal/metrics"
	"github.com/tomtom215/poigate/internal/models"
)

const (
	defaultAutocompleteLimit = 7
	msgAutocompleteFailed    = "Failed to fetch autocomplete suggestions"
	suggestionTypePOI        = "poi"
)

// SuggestionMeta locates a POI suggestion.
type SuggestionMeta struct {
	TypeLabel *string `json:"type_label"`
	District  *string `json:"district"`
	City      *string `json:"city"`
}

// Suggestion is one autocomplete entry. Only POI suggestions carry metadata.
type Suggestion struct {
	Type     string          `json:"type"`
	Value    string          `json:"value"`
	Display  string          `json:"display"`
	Metadata *SuggestionMeta `json:"metadata"`
}

// AutocompletePayload is the data of GET /v1/autocomplete.
type AutocompletePayload struct {
	Suggestions []Suggestion `json:"suggestions"`
}

// Autocomplete handles GET /v1/autocomplete.
func (h *Handler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req AutocompleteRequest
	if verr := bindQuery(r, &req); verr != nil {
		h.search.RecordAutocomplete(metrics.Sample{Query: r.URL.Query().Get("q"), ResponseTime: time.Since(start), Error: true})
		NewResponseWriter(w, r).ValidationError(verr)
		return
	}

	city := req.City
	if city == "" {
		city = filters.DefaultCity
	}
	lang := assemble.NormalizeLang(req.Lang)
	limit := req.Limit
	if limit == 0 {
		limit = defaultAutocompleteLimit
	}

	route := cachedRoute{
		cache: h.caches.Autocomplete,
		key: cache.Key(cache.FamilyAutocomplete, map[string]any{
			"q":     req.Q,
			"city":  city,
			"lang":  lang,
			"limit": limit,
		}),
		maxAge:  maxAgeAutocomplete,
		failure: msgAutocompleteFailed,
	}
	hit, err := h.serveCached(w, r, route, func(ctx context.Context) (any, bool, error) {
		rows, err := h.store.Autocomplete(ctx, req.Q, city, lang, limit)
		if err != nil {
			return nil, false, err
		}
		return AutocompletePayload{Suggestions: suggestions(rows)}, false, nil
	})

	h.search.RecordAutocomplete(metrics.Sample{
		Query:        req.Q,
		CacheHit:     hit,
		ResponseTime: time.Since(start),
		Error:        err != nil,
	})
}

func suggestions(rows []models.Suggestion) []Suggestion {
	out := make([]Suggestion, 0, len(rows))
	for _, s := range rows {
		if s.Type != suggestionTypePOI {
			out = append(out, Suggestion{Type: s.Type, Value: s.Value, Display: s.Display})
			continue
		}
		value := s.Value
		if s.POISlug != nil && *s.POISlug != "" {
			value = *s.POISlug
		}
		out = append(out, Suggestion{
			Type:    s.Type,
			Value:   value,
			Display: s.Display,
			Metadata: &SuggestionMeta{
				TypeLabel: s.POITypeLabel,
				District:  s.POIDistrict,
				City:      s.POICity,
			},
		})
	}
	return out
}
