// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

/*
Package models defines the rows Poigate reads from the PostgREST backend.

Rows are decoded once per request and never mutated afterwards; the assemble
package builds separate response items from them.

Model Categories:

 1. POI rows:
    - POIRow: one row of list_pois, get_collection_pois or the poi table
    - SitemapRow: the lightweight projection used by the sitemap

 2. Enrichment rows:
    - Photo / PhotoVariant: active photos with embedded variants
    - RatingSnapshot, ScoreRow: time-series rows, newest first
    - Mention: accepted AI mentions
    - Percentile: get_poi_percentiles output

 3. Other resources:
    - Suggestion: autocomplete_search output
    - CollectionRow: curated collections

Nullable columns are pointers so that "absent" and "zero" stay distinct.
*/
package models
