// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package search

import (
	"encoding/base64"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Keyset is the position after the last row of a page: its sort value and id.
type Keyset struct {
	Score float64 `json:"score"`
	ID    string  `json:"id"`
}

// EncodeKeyset returns an opaque URL-safe token.
func EncodeKeyset(k Keyset) string {
	b, err := json.Marshal(k)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeKeyset returns nil for any token that is not a valid keyset.
func DecodeKeyset(token string) *Keyset {
	raw, ok := decodeBase64(token)
	if !ok {
		return nil
	}
	var probe struct {
		Score *float64 `json:"score"`
		ID    *string  `json:"id"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil
	}
	if probe.Score == nil || probe.ID == nil || *probe.ID == "" {
		return nil
	}
	if math.IsNaN(*probe.Score) || math.IsInf(*probe.Score, 0) {
		return nil
	}
	return &Keyset{Score: *probe.Score, ID: *probe.ID}
}

// EncodeOffset encodes a row offset as base64 of its decimal form.
func EncodeOffset(offset int) string {
	return base64.StdEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
}

// DecodeOffset returns 0 for garbage or negative offsets.
func DecodeOffset(token string) int {
	raw, ok := decodeBase64(token)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// decodeBase64 accepts standard and URL alphabets, padded or not. A '+' that
// arrived unescaped in a query string shows up as a space and is restored.
func decodeBase64(token string) ([]byte, bool) {
	token = strings.TrimSpace(strings.ReplaceAll(token, " ", "+"))
	if token == "" {
		return nil, false
	}
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	} {
		if b, err := enc.DecodeString(token); err == nil {
			return b, true
		}
	}
	return nil, false
}
