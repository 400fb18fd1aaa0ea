// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/poigate/internal/logging"
	"github.com/tomtom215/poigate/internal/validation"
)

// Envelope is the wrapper of every JSON response.
type Envelope struct {
	// Success indicates whether the request was successful
	Success bool `json:"success"`

	// Data contains the response payload (absent on error)
	Data any `json:"data,omitempty"`

	// Error is a human-readable message (absent on success)
	Error string `json:"error,omitempty"`

	// Details lists the rejected fields of a 400 response
	Details []validation.Detail `json:"details,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// Client-facing error messages.
const (
	MsgInvalidQuery     = "Invalid query parameters"
	MsgInternal         = "Internal server error"
	MsgNotFound         = "Not found"
	MsgMethodNotAllowed = "Method not allowed"
	MsgUnauthorized     = "Invalid or missing API key"
	MsgTooManyRequests  = "Too many requests, please try again later"
	MsgNotReady         = "Backend unavailable"
)

// ResponseWriter provides methods for writing enveloped API responses.
type ResponseWriter struct {
	w http.ResponseWriter
	r *http.Request
}

// NewResponseWriter creates a new response writer.
func NewResponseWriter(w http.ResponseWriter, r *http.Request) *ResponseWriter {
	return &ResponseWriter{w: w, r: r}
}

// Success writes a 200 response with data.
func (rw *ResponseWriter) Success(data any) {
	rw.writeJSON(http.StatusOK, Envelope{Success: true, Data: data, Timestamp: time.Now().UTC()})
}

// SuccessRaw writes a 200 response whose data is already encoded, as stored
// in the response cache.
func (rw *ResponseWriter) SuccessRaw(data []byte) {
	rw.Success(json.RawMessage(data))
}

// Error writes an error response with the given status code.
func (rw *ResponseWriter) Error(statusCode int, message string) {
	rw.writeJSON(statusCode, Envelope{Error: message, Timestamp: time.Now().UTC()})
}

// ValidationError writes a 400 response listing the rejected fields.
func (rw *ResponseWriter) ValidationError(verr *validation.RequestValidationError) {
	rw.writeJSON(http.StatusBadRequest, Envelope{
		Error:     MsgInvalidQuery,
		Details:   verr.Details(),
		Timestamp: time.Now().UTC(),
	})
}

// NotFound writes a 404 response.
func (rw *ResponseWriter) NotFound(message string) {
	rw.Error(http.StatusNotFound, message)
}

// Unauthorized writes a 401 response.
func (rw *ResponseWriter) Unauthorized(message string) {
	rw.Error(http.StatusUnauthorized, message)
}

// TooManyRequests writes a 429 response. httprate has already set Retry-After;
// it is filled in from window when missing.
func (rw *ResponseWriter) TooManyRequests(window time.Duration) {
	if rw.w.Header().Get("Retry-After") == "" && window > 0 {
		rw.w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
	}
	rw.Error(http.StatusTooManyRequests, MsgTooManyRequests)
}

// InternalError logs err and writes a 500 response with a generic message.
// Backend text never reaches the client.
func (rw *ResponseWriter) InternalError(message string, err error) {
	logging.CtxError(rw.r.Context()).
		Err(err).
		Str("path", sanitizeLogValue(rw.r.URL.Path)).
		Str("query", sanitizeLogValue(rw.r.URL.RawQuery)).
		Msg(message)
	rw.Error(http.StatusInternalServerError, message)
}

// ServiceUnavailable writes a 503 response.
func (rw *ResponseWriter) ServiceUnavailable(message string) {
	rw.Error(http.StatusServiceUnavailable, message)
}

// writeJSON writes JSON response with proper headers.
func (rw *ResponseWriter) writeJSON(statusCode int, env Envelope) {
	rw.w.Header().Set("Content-Type", "application/json; charset=utf-8")
	rw.w.WriteHeader(statusCode)

	if err := json.NewEncoder(rw.w).Encode(env); err != nil {
		logging.CtxError(rw.r.Context()).Err(err).Msg("Failed to encode JSON response")
	}
}

// WriteSuccess is a convenience function for writing success responses.
func WriteSuccess(w http.ResponseWriter, r *http.Request, data any) {
	NewResponseWriter(w, r).Success(data)
}

// WriteError is a convenience function for writing error responses.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	NewResponseWriter(w, r).Error(statusCode, message)
}
