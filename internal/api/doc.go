// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

/*
Package api provides the HTTP REST API layer for Poigate.

Every endpoint is a read: it validates the query string against a closed
schema, compiles it into one backend call, enriches the rows, assembles the
payload and caches it per endpoint family.

Key Components:

  - Router: chi route configuration and middleware stack
  - Handler: request handlers, one file per resource
  - ResponseWriter: the {success, data, error, details, timestamp} envelope
  - bindQuery: go-playground/form decoding plus validator checks, rejecting
    unknown parameters

Endpoints:

 1. Public API (/v1/, API key required unless auth_mode is none):
    - pois, pois/facets, pois/{slug}
    - autocomplete
    - collections, collections/{slug}
    - sitemap/pois
    - metrics (search metrics, route latency, cache statistics)

 2. Unauthenticated:
    - / and /v1 index
    - /health, /health/ready
    - /metrics (Prometheus)

Usage Example:

	repo := backend.NewRepository(backend.NewClient(cfg.Backend))
	handler := api.NewHandler(repo, cache.NewFamilies(cfg.Cache), version)
	router := api.NewRouter(handler, cfg.Security)
	http.ListenAndServe(cfg.Server.Addr(), router.SetupChi())

Caching:

Cached endpoints answer with X-Cache: HIT or MISS. The cache stores the
encoded data payload; the envelope and its timestamp are rebuilt for every
response.

Thread Safety:

All handlers are safe for concurrent use. Shared state is limited to the
response caches, the search metrics and the performance monitor, each
internally synchronized.
*/
package api
