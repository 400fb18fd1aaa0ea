// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

/*
Package main is the entry point for the Poigate server.

Poigate is a read-only HTTP gateway in front of a Supabase (PostgREST)
database of points of interest. It validates query strings, translates
them into PostgREST selects and RPC calls, enriches results with photos,
ratings, mentions and badges, and caches responses in memory.

# Application Architecture

	RootSupervisor ("poigate")
	├── MaintenanceSupervisor ("maintenance-layer")
	│   └── Metrics reporter (uptime, cache entries)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (chi router, /v1 routes)

Initialization order:

 1. Configuration: Koanf v2 with defaults, optional YAML file and environment
 2. Logging: zerolog with JSON or console output
 3. Tracing: OpenTelemetry tracer provider (disabled by default)
 4. Backend: PostgREST client with rate limiter, retries and circuit breaker
 5. Caches: one expirable LRU per response family
 6. Router: chi with CORS, rate limiting, API key auth and compression
 7. Supervisor tree: Suture v4 with the services above

# Configuration

	SUPABASE_URL=https://xyz.supabase.co   # required
	SUPABASE_ANON_KEY=<key>                # required
	AUTH_MODE=api_key                      # api_key or none
	API_KEY_PUBLIC=<key>                   # required for api_key mode
	PORT=3000
	CORS_ORIGINS=https://example.com
	LOG_LEVEL=info
	LOG_FORMAT=json
	CACHE_POIS_TTL=10m

CONFIG_PATH points at an optional YAML file using the same keys.

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP service drains
in-flight requests within HTTP_SHUTDOWN_TIMEOUT, pending spans are flushed,
and services that failed to stop are reported.

# Build

	go build -ldflags "-X main.version=1.4.0" ./cmd/server
*/
package main
