// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

/*
Package services provides suture.Service wrappers for Poigate components.

Each wrapper turns a blocking or periodic component into the context-aware
Serve pattern suture expects:

	type Service interface {
	    Serve(ctx context.Context) error
	}

HTTPServerService:
  - runs *http.Server.ListenAndServe in a goroutine
  - drains in-flight requests with Shutdown on cancellation
  - returns listener errors so suture restarts it

MetricsReporterService:
  - refreshes app_uptime_seconds and cache_entries{family} on a ticker
  - reads cache sizes through the StatsSource interface (*cache.Families)

All wrappers implement fmt.Stringer so supervisor events name them.
*/
package services
