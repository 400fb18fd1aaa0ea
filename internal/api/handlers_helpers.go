// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/poigate/internal/backend"
	"github.com/tomtom215/poigate/internal/cache"
	"github.com/tomtom215/poigate/internal/logging"
	"github.com/tomtom215/poigate/internal/validation"
)

// Cache-Control max-age per resource.
const (
	maxAgePOIs         = 10 * time.Minute
	maxAgeAutocomplete = time.Minute
	maxAgeCollections  = 5 * time.Minute
	maxAgeSitemap      = 5 * time.Minute
)

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

func setCacheControl(w http.ResponseWriter, maxAge time.Duration) {
	w.Header().Set("Cache-Control", "public, max-age="+strconv.Itoa(int(maxAge.Seconds())))
}

// cachedRoute describes how one endpoint uses the response cache.
type cachedRoute struct {
	cache  *cache.Cache
	key    string
	maxAge time.Duration
	// failure is the 500 message; notFound, when set, is the 404 message for
	// backend.ErrNotFound.
	failure  string
	notFound string
}

// buildFunc assembles a fresh payload. degraded reports that some
// enrichment was dropped; such payloads are served but not cached.
type buildFunc func(ctx context.Context) (data any, degraded bool, err error)

// serveCached writes the cached payload for route.key, or builds, stores and
// writes it. It reports whether the response came from the cache and the
// build error, if any, after the error response has been written.
func (h *Handler) serveCached(w http.ResponseWriter, r *http.Request, route cachedRoute, build buildFunc) (bool, error) {
	rw := NewResponseWriter(w, r)

	if raw, ok := route.cache.Get(route.key); ok {
		w.Header().Set("X-Cache", "HIT")
		setCacheControl(w, route.maxAge)
		rw.SuccessRaw(raw)
		return true, nil
	}

	data, degraded, err := build(r.Context())
	if err != nil {
		h.writeBackendError(rw, r, err, route.failure, route.notFound)
		return false, err
	}

	raw, err := json.Marshal(data)
	if err != nil {
		rw.InternalError(route.failure, err)
		return false, err
	}

	w.Header().Set("X-Cache", "MISS")
	if degraded {
		logging.Ctx(r.Context()).Debug().
			Str("path", sanitizeLogValue(r.URL.Path)).
			Msg("Degraded response not cached")
		w.Header().Set("Cache-Control", "no-store")
	} else {
		route.cache.Set(route.key, raw)
		setCacheControl(w, route.maxAge)
	}
	rw.SuccessRaw(raw)
	return false, nil
}

// writeBackendError maps a failed primary call to a response. Not-found is a
// normal outcome and only logged at debug.
func (h *Handler) writeBackendError(rw *ResponseWriter, r *http.Request, err error, failure, notFound string) {
	if notFound != "" && errors.Is(err, backend.ErrNotFound) {
		logging.Ctx(r.Context()).Debug().
			Str("path", sanitizeLogValue(r.URL.Path)).
			Msg("Resource not found")
		rw.NotFound(notFound)
		return
	}
	rw.InternalError(failure, err)
}

// validSlug reports whether a path slug can match anything at all.
func validSlug(slug string) bool {
	return validation.GetValidator().Var(slug, "required,max=200,slug") == nil
}

// ids collects the identifier of every row.
func ids[T any](rows []T, id func(*T) string) []string {
	out := make([]string, len(rows))
	for i := range rows {
		out[i] = id(&rows[i])
	}
	return out
}
