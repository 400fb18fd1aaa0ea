// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package cache

import (
	"github.com/tomtom215/poigate/internal/config"
)

// Endpoint family names. They prefix cache keys and label cache metrics.
const (
	FamilyAutocomplete = "autocomplete"
	FamilyPOIs         = "pois"
	FamilyPOIDetail    = "poi_detail"
	FamilyCollections  = "collections"
	FamilyFacets       = "facets"
	FamilyQueryParse   = "query_parse"
)

// Families holds one cache per endpoint family.
type Families struct {
	Autocomplete *Cache
	POIs         *Cache
	POIDetail    *Cache
	Collections  *Cache
	Facets       *Cache
	QueryParse   *Cache
}

// NewFamilies builds every family cache from configuration.
func NewFamilies(cfg config.CacheConfig) *Families {
	return &Families{
		Autocomplete: New(FamilyAutocomplete, cfg.Autocomplete.Size, cfg.Autocomplete.TTL),
		POIs:         New(FamilyPOIs, cfg.POIs.Size, cfg.POIs.TTL),
		POIDetail:    New(FamilyPOIDetail, cfg.POIDetail.Size, cfg.POIDetail.TTL),
		Collections:  New(FamilyCollections, cfg.Collections.Size, cfg.Collections.TTL),
		Facets:       New(FamilyFacets, cfg.Facets.Size, cfg.Facets.TTL),
		QueryParse:   New(FamilyQueryParse, cfg.QueryParse.Size, cfg.QueryParse.TTL),
	}
}

// All returns the family caches in a fixed order.
func (f *Families) All() []*Cache {
	return []*Cache{f.Autocomplete, f.POIs, f.POIDetail, f.Collections, f.Facets, f.QueryParse}
}

// Purge empties every family. Used by tests.
func (f *Families) Purge() {
	for _, c := range f.All() {
		c.Purge()
	}
}

// Stats returns per-family statistics.
func (f *Families) Stats() []Stats {
	all := f.All()
	out := make([]Stats, 0, len(all))
	for _, c := range all {
		out = append(out, c.Stats())
	}
	return out
}
