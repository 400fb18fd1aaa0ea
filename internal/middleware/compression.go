// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package middleware

import (
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// CompressionLevel is the gzip/deflate level used for responses.
const CompressionLevel = 5

// compressibleTypes are the content types worth compressing. Everything the
// gateway emits is JSON apart from the Prometheus exposition.
var compressibleTypes = []string{
	"application/json",
	"text/plain",
}

// Compression negotiates gzip or deflate with the client for JSON and text
// responses. Clients that send no Accept-Encoding get identity responses.
func Compression() func(http.Handler) http.Handler {
	return chimiddleware.Compress(CompressionLevel, compressibleTypes...)
}
