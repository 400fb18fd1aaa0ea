// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

// Package config loads Poigate configuration.
//
// Configuration is layered with Koanf v2:
//  1. Defaults: built-in values for every optional setting
//  2. Config file: optional YAML (CONFIG_PATH, config.yaml, /etc/poigate/config.yaml)
//  3. Environment variables: override any setting
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	client, err := backend.NewClient(cfg.Backend)
//
// Load validates the result. SUPABASE_URL and SUPABASE_ANON_KEY are always
// required; API_KEY_PUBLIC is required when AUTH_MODE=api_key.
package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Backend  BackendConfig  `koanf:"backend"`
	Cache    CacheConfig    `koanf:"cache"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
	Tracing  TracingConfig  `koanf:"tracing"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	// Environment is development, staging or production.
	Environment string `koanf:"environment"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// BackendConfig holds the PostgREST (Supabase) connection settings.
type BackendConfig struct {
	URL               string        `koanf:"url"`
	APIKey            string        `koanf:"api_key"`
	Timeout           time.Duration `koanf:"timeout"`
	MaxRetries        int           `koanf:"max_retries"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
	// BreakerTimeout is how long the circuit stays open before probing.
	BreakerTimeout time.Duration `koanf:"breaker_timeout"`
	// BreakerMinRequests is the request count needed before the failure ratio trips the breaker.
	BreakerMinRequests uint32 `koanf:"breaker_min_requests"`
}

// CacheFamily sizes one response cache.
type CacheFamily struct {
	TTL  time.Duration `koanf:"ttl"`
	Size int           `koanf:"size"`
}

// CacheConfig holds per-family cache settings.
type CacheConfig struct {
	Autocomplete CacheFamily `koanf:"autocomplete"`
	POIs         CacheFamily `koanf:"pois"`
	POIDetail    CacheFamily `koanf:"poi_detail"`
	Collections  CacheFamily `koanf:"collections"`
	Facets       CacheFamily `koanf:"facets"`
	QueryParse   CacheFamily `koanf:"query_parse"`
}

// SecurityConfig holds authentication, CORS and rate limit settings.
type SecurityConfig struct {
	// AuthMode is api_key or none.
	AuthMode          string        `koanf:"auth_mode"`
	APIKey            string        `koanf:"api_key"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// TracingConfig holds OpenTelemetry settings.
type TracingConfig struct {
	Enabled     bool    `koanf:"enabled"`
	ServiceName string  `koanf:"service_name"`
	SampleRatio float64 `koanf:"sample_ratio"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Load is the entry point used by main.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
