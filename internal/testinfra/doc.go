// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

// Package testinfra runs a throwaway PostgREST backend for integration tests.
//
// NewPostgRESTStack starts two containers on a private Docker network:
// PostgreSQL seeded with a small POI schema, and PostgREST in front of it.
// A local reverse proxy mounts PostgREST under /rest/v1 and an anon JWT is
// minted with the stack's secret, so the pair looks like a Supabase project
// to backend.Client:
//
//	func TestRepository_Integration(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    stack, err := testinfra.NewPostgRESTStack(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    t.Cleanup(func() { stack.Terminate(context.Background()) })
//
//	    client := backend.NewClient(config.BackendConfig{URL: stack.URL, APIKey: stack.AnonKey, ...})
//	}
//
// The files are built only with -tags integration. Tests are skipped when
// Docker is unavailable. The first run pulls the postgres and postgrest images.
package testinfra
