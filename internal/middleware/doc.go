// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

/*
Package middleware holds the HTTP middleware mounted on the chi router.

All middleware uses the func(http.Handler) http.Handler shape so it can be
passed to chi.Router.Use directly. The router stacks them like this:

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.PrometheusMetrics)
	r.Use(perf.Middleware)
	r.Use(middleware.Compression())
	r.Use(cors, rateLimit)
	r.Use(middleware.APIKeyAuth(cfg, onReject))

Metrics and the performance monitor label requests by chi route pattern
("/v1/pois/{slug}"), never by raw path, so label cardinality stays bounded.
*/
package middleware
