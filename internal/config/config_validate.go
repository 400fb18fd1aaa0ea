// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

var validEnvironments = map[string]bool{
	"development": true,
	"test":        true,
	"staging":     true,
	"production":  true,
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateBackend(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateTracing(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if !validEnvironments[c.Server.Environment] {
		return fmt.Errorf("ENVIRONMENT must be one of: development, test, staging, production")
	}
	return nil
}

func (c *Config) validateBackend() error {
	if c.Backend.URL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	u, err := url.Parse(c.Backend.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("SUPABASE_URL must be a valid http(s) URL")
	}
	if c.Backend.APIKey == "" {
		return fmt.Errorf("SUPABASE_ANON_KEY is required")
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("BACKEND_TIMEOUT must be positive")
	}
	if c.Backend.MaxRetries < 0 || c.Backend.MaxRetries > 10 {
		return fmt.Errorf("BACKEND_MAX_RETRIES must be between 0 and 10")
	}
	if c.Backend.RequestsPerSecond <= 0 {
		return fmt.Errorf("BACKEND_REQUESTS_PER_SECOND must be positive")
	}
	if c.Backend.Burst < 1 {
		return fmt.Errorf("BACKEND_BURST must be at least 1")
	}
	return nil
}

func (c *Config) validateCache() error {
	families := map[string]CacheFamily{
		"autocomplete": c.Cache.Autocomplete,
		"pois":         c.Cache.POIs,
		"poi_detail":   c.Cache.POIDetail,
		"collections":  c.Cache.Collections,
		"facets":       c.Cache.Facets,
		"query_parse":  c.Cache.QueryParse,
	}
	for name, f := range families {
		if f.Size < 1 {
			return fmt.Errorf("cache.%s.size must be at least 1", name)
		}
		if f.TTL < time.Second {
			return fmt.Errorf("cache.%s.ttl must be at least 1s", name)
		}
	}
	return nil
}

func (c *Config) validateSecurity() error {
	switch c.Security.AuthMode {
	case "api_key":
		if c.Security.APIKey == "" {
			return fmt.Errorf("API_KEY_PUBLIC is required when AUTH_MODE=api_key")
		}
		if c.IsProduction() && len(c.Security.APIKey) < 16 {
			return fmt.Errorf("API_KEY_PUBLIC must be at least 16 characters in production")
		}
	case "none":
		if c.IsProduction() {
			return fmt.Errorf("AUTH_MODE=none is not allowed in production")
		}
	default:
		return fmt.Errorf("AUTH_MODE must be one of: api_key, none")
	}

	if err := c.validateCORS(); err != nil {
		return err
	}
	return c.validateRateLimits()
}

func (c *Config) validateCORS() error {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			if c.IsProduction() {
				return fmt.Errorf("CORS_ORIGIN=* is not allowed in production")
			}
			continue
		}
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("CORS origin %q must start with http:// or https://", origin)
		}
	}
	return nil
}

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 || c.Security.RateLimitReqs > 100000 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between 1 and 100000")
	}
	if c.Security.RateLimitWindow < time.Second {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be at least 1s")
	}
	return nil
}

func (c *Config) validateTracing() error {
	if !c.Tracing.Enabled {
		return nil
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("TRACING_SAMPLE_RATIO must be between 0 and 1")
	}
	if c.Tracing.ServiceName == "" {
		return fmt.Errorf("TRACING_SERVICE_NAME is required when tracing is enabled")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
