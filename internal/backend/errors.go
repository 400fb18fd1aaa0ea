// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a single-entity lookup matches nothing.
	ErrNotFound = errors.New("backend: not found")

	// ErrUnavailable is returned while the circuit breaker rejects calls.
	ErrUnavailable = errors.New("backend: unavailable")
)

// StatusError is a non-2xx PostgREST response.
type StatusError struct {
	Resource   string
	StatusCode int
	// Body is the (truncated) response body, for logs only. Never send it to clients.
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("postgrest %s: HTTP %d: %s", e.Resource, e.StatusCode, e.Body)
}

// retryable reports whether a status is worth another attempt.
func (e *StatusError) retryable() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}

// clientError reports a 4xx other than 429. Those are caller mistakes and do
// not count against the circuit breaker.
func (e *StatusError) clientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500 && e.StatusCode != 429
}

// errorType classifies err for the backend_request_errors_total metric.
func errorType(err error) string {
	if err == nil {
		return ""
	}
	var se *StatusError
	switch {
	case errors.Is(err, ErrUnavailable):
		return "circuit_open"
	case errors.As(err, &se) && se.StatusCode == 429:
		return "rate_limited"
	case errors.As(err, &se) && se.StatusCode >= 500:
		return "status_5xx"
	case errors.As(err, &se):
		return "status_4xx"
	case isContextError(err):
		return "canceled"
	default:
		return "transport"
	}
}
