// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package config

import (
	"testing"
)

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Backend.URL = "https://example.supabase.co"
	cfg.Backend.APIKey = "anon"
	cfg.Security.APIKey = "0123456789abcdef"
	return cfg
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, true},
		{"bad environment", func(c *Config) { c.Server.Environment = "qa" }, true},
		{"missing backend url", func(c *Config) { c.Backend.URL = "" }, true},
		{"non http backend url", func(c *Config) { c.Backend.URL = "ftp://x" }, true},
		{"missing anon key", func(c *Config) { c.Backend.APIKey = "" }, true},
		{"negative retries", func(c *Config) { c.Backend.MaxRetries = -1 }, true},
		{"zero cache size", func(c *Config) { c.Cache.Facets.Size = 0 }, true},
		{"missing api key", func(c *Config) { c.Security.APIKey = "" }, true},
		{"auth none in dev", func(c *Config) { c.Security.AuthMode = "none"; c.Security.APIKey = "" }, false},
		{"auth none in production", func(c *Config) {
			c.Security.AuthMode = "none"
			c.Server.Environment = "production"
			c.Security.CORSOrigins = []string{"https://app.example"}
		}, true},
		{"unknown auth mode", func(c *Config) { c.Security.AuthMode = "jwt" }, true},
		{"wildcard cors in production", func(c *Config) { c.Server.Environment = "production" }, true},
		{"bad cors origin", func(c *Config) { c.Security.CORSOrigins = []string{"example.com"} }, true},
		{"rate limit disabled skips bounds", func(c *Config) {
			c.Security.RateLimitDisabled = true
			c.Security.RateLimitReqs = 0
		}, false},
		{"bad sample ratio", func(c *Config) { c.Tracing.Enabled = true; c.Tracing.SampleRatio = 2 }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, true},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestServerConfigAddr(t *testing.T) {
	t.Parallel()

	s := ServerConfig{Host: "127.0.0.1", Port: 3000}
	if got := s.Addr(); got != "127.0.0.1:3000" {
		t.Errorf("Addr() = %q", got)
	}
}
