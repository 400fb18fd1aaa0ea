// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestSanitizeToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"short", "****"},
		{"12345678", "****"},
		{"abcd1234efgh", "abcd****"},
	}
	for _, tt := range tests {
		if got := SanitizeToken(tt.in); got != tt.want {
			t.Errorf("SanitizeToken(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeValue(t *testing.T) {
	t.Parallel()

	if got := SanitizeValue("X-API-Key", "supersecretvalue"); got != "supe****" {
		t.Errorf("SanitizeValue(api key) = %q", got)
	}
	if got := SanitizeValue("city", "paris"); got != "paris" {
		t.Errorf("SanitizeValue(city) = %q", got)
	}
}

func TestSecurityLogger_LogAPIKeyRejected(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := NewSecurityLoggerWithLogger(zerolog.New(&buf))
	l.LogAPIKeyRejected("10.0.0.1", "curl/8", "/v1/pois", "wrongkey-123456", "invalid")

	out := buf.String()
	for _, want := range []string{
		`"component":"auth"`,
		`"event":"api_key_rejected"`,
		`"status":"failed"`,
		`"level":"warn"`,
		`"api_key":"wron****"`,
		`"reason":"invalid"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output %s missing %s", out, want)
		}
	}
	if strings.Contains(out, "wrongkey-123456") {
		t.Error("raw key leaked into log output")
	}
}

func TestTruncateString(t *testing.T) {
	t.Parallel()

	if got := truncateString("abcdefghij", 6); got != "abc..." {
		t.Errorf("truncateString = %q", got)
	}
	if got := truncateString("abc", 6); got != "abc" {
		t.Errorf("truncateString = %q", got)
	}
}
