// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tomtom215/poigate/internal/config"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

// ============================================================================
// Configuration
// ============================================================================

func TestDefaultChiMiddlewareConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultChiMiddlewareConfig()
	if len(cfg.CORSAllowedOrigins) != 0 {
		t.Errorf("CORSAllowedOrigins = %v, want empty", cfg.CORSAllowedOrigins)
	}
	if len(cfg.CORSAllowedMethods) != 2 {
		t.Errorf("CORSAllowedMethods = %v, want GET and OPTIONS", cfg.CORSAllowedMethods)
	}
	if cfg.RateLimitRequests != 100 || cfg.RateLimitWindow != time.Minute {
		t.Errorf("rate limit = %d/%v, want 100/1m", cfg.RateLimitRequests, cfg.RateLimitWindow)
	}
	if cfg.RateLimitDisabled {
		t.Error("rate limiting must be enabled by default")
	}
}

func TestNewChiMiddlewareConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		sec          config.SecurityConfig
		wantOrigins  int
		wantRequests int
		wantWindow   time.Duration
		wantDisabled bool
	}{
		{
			name:         "zero values keep defaults",
			wantRequests: 100,
			wantWindow:   time.Minute,
		},
		{
			name: "overrides",
			sec: config.SecurityConfig{
				CORSOrigins:     []string{"https://gatto.city", "https://www.gatto.city"},
				RateLimitReqs:   20,
				RateLimitWindow: 10 * time.Second,
			},
			wantOrigins:  2,
			wantRequests: 20,
			wantWindow:   10 * time.Second,
		},
		{
			name:         "disabled",
			sec:          config.SecurityConfig{RateLimitDisabled: true},
			wantRequests: 100,
			wantWindow:   time.Minute,
			wantDisabled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := NewChiMiddlewareConfig(tt.sec)
			if len(cfg.CORSAllowedOrigins) != tt.wantOrigins {
				t.Errorf("origins = %v", cfg.CORSAllowedOrigins)
			}
			if cfg.RateLimitRequests != tt.wantRequests || cfg.RateLimitWindow != tt.wantWindow {
				t.Errorf("rate limit = %d/%v", cfg.RateLimitRequests, cfg.RateLimitWindow)
			}
			if cfg.RateLimitDisabled != tt.wantDisabled {
				t.Errorf("RateLimitDisabled = %v", cfg.RateLimitDisabled)
			}
		})
	}
}

// ============================================================================
// CORS
// ============================================================================

func TestChiMiddleware_CORS(t *testing.T) {
	t.Parallel()

	cfg := DefaultChiMiddlewareConfig()
	cfg.CORSAllowedOrigins = []string{"https://gatto.city"}
	handler := NewChiMiddleware(cfg).CORS()(okHandler)

	tests := []struct {
		origin string
		want   string
	}{
		{"https://gatto.city", "https://gatto.city"},
		{"https://evil.example", ""},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/v1/pois", nil)
		r.Header.Set("Origin", tt.origin)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
			t.Errorf("origin %s: Allow-Origin = %q, want %q", tt.origin, got, tt.want)
		}
	}
}

// ============================================================================
// Rate limiting
// ============================================================================

func TestChiMiddleware_RateLimit(t *testing.T) {
	t.Parallel()

	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitRequests = 2
	handler := NewChiMiddleware(cfg).RateLimit()(okHandler)

	codes := make([]int, 3)
	var last *httptest.ResponseRecorder
	for i := range codes {
		r := httptest.NewRequest(http.MethodGet, "/v1/pois", nil)
		r.RemoteAddr = "203.0.113.7:4000"
		last = httptest.NewRecorder()
		handler.ServeHTTP(last, r)
		codes[i] = last.Code
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("first two requests = %v, want 200", codes[:2])
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Fatalf("third request = %d, want 429", codes[2])
	}
	if last.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header missing")
	}
	env := decodeEnvelope(t, last)
	if env.Success || env.Error != MsgTooManyRequests {
		t.Errorf("429 envelope = %+v", env)
	}
}

func TestChiMiddleware_RateLimitPerClient(t *testing.T) {
	t.Parallel()

	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitRequests = 1
	handler := NewChiMiddleware(cfg).RateLimit()(okHandler)

	for _, addr := range []string{"203.0.113.1:1", "203.0.113.2:1"} {
		r := httptest.NewRequest(http.MethodGet, "/v1/pois", nil)
		r.RemoteAddr = addr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		if w.Code != http.StatusOK {
			t.Errorf("%s: status %d, want 200", addr, w.Code)
		}
	}
}

func TestChiMiddleware_RateLimitDisabled(t *testing.T) {
	t.Parallel()

	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitRequests = 1
	cfg.RateLimitDisabled = true
	handler := NewChiMiddleware(cfg).RateLimit()(okHandler)

	for i := 0; i < 5; i++ {
		r := httptest.NewRequest(http.MethodGet, "/v1/pois", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status %d, want 200", i, w.Code)
		}
	}
}
