// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/tomtom215/poigate/internal/logging"
)

// APIKeyHeader carries the client key.
const APIKeyHeader = "X-API-Key"

// Auth modes.
const (
	AuthModeAPIKey = "api_key"
	AuthModeNone   = "none"
)

// Rejection reasons passed to the reject handler and the security log.
const (
	ReasonMissingKey = "missing_api_key"
	ReasonInvalidKey = "invalid_api_key"
)

// IsPublicPath reports whether path is exempt from API key checks: the
// root, the /v1 index, health probes and the Prometheus scrape endpoint.
func IsPublicPath(path string) bool {
	switch strings.TrimSuffix(path, "/") {
	case "", "/v1", "/metrics", "/health":
		return true
	}
	return strings.HasPrefix(path, "/health/")
}

// APIKeyConfig configures APIKeyAuth.
type APIKeyConfig struct {
	Mode string
	Key  string
	// Logger receives rejected attempts; nil uses a default security logger.
	Logger *logging.SecurityLogger
}

// APIKeyAuth requires X-API-Key to equal the configured key on every
// non-public path. reject writes the 401 response and receives the reason.
// Preflight requests pass through so CORS can answer them.
func APIKeyAuth(cfg APIKeyConfig, reject func(w http.ResponseWriter, r *http.Request, reason string)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if cfg.Mode == AuthModeNone {
			return next
		}
		secLog := cfg.Logger
		if secLog == nil {
			secLog = logging.NewSecurityLogger()
		}
		expected := []byte(cfg.Key)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions || IsPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			presented := r.Header.Get(APIKeyHeader)
			reason := ""
			switch {
			case presented == "":
				reason = ReasonMissingKey
			case subtle.ConstantTimeCompare([]byte(presented), expected) != 1:
				reason = ReasonInvalidKey
			}
			if reason != "" {
				secLog.LogAPIKeyRejected(r.RemoteAddr, r.UserAgent(), r.URL.Path, presented, reason)
				reject(w, r, reason)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
