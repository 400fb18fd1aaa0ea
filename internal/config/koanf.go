// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the config file locations searched in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/poigate/config.yaml",
	"/etc/poigate/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            3000,
			Host:            "0.0.0.0",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Backend: BackendConfig{
			URL:                "",
			APIKey:             "",
			Timeout:            10 * time.Second,
			MaxRetries:         2,
			RequestsPerSecond:  50,
			Burst:              100,
			BreakerTimeout:     30 * time.Second,
			BreakerMinRequests: 10,
		},
		Cache: CacheConfig{
			Autocomplete: CacheFamily{TTL: time.Minute, Size: 1000},
			POIs:         CacheFamily{TTL: 10 * time.Minute, Size: 500},
			POIDetail:    CacheFamily{TTL: 10 * time.Minute, Size: 500},
			Collections:  CacheFamily{TTL: 5 * time.Minute, Size: 200},
			Facets:       CacheFamily{TTL: 10 * time.Minute, Size: 500},
			QueryParse:   CacheFamily{TTL: time.Hour, Size: 5000},
		},
		Security: SecurityConfig{
			AuthMode:          "api_key",
			APIKey:            "",
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Tracing: TracingConfig{
			Enabled:     false,
			ServiceName: "poigate",
			SampleRatio: 0.1,
		},
	}
}

// LoadWithKoanf loads configuration with clear precedence: ENV > File > Defaults.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// SUPABASE_URL -> backend.url, HTTP_PORT -> server.port, ...
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated env values.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}
		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"port":                  "server.port",
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_idle_timeout":     "server.idle_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",
	"node_env":              "server.environment",

	// Backend
	"supabase_url":                 "backend.url",
	"supabase_anon_key":            "backend.api_key",
	"backend_timeout":              "backend.timeout",
	"backend_max_retries":          "backend.max_retries",
	"backend_requests_per_second":  "backend.requests_per_second",
	"backend_burst":                "backend.burst",
	"backend_breaker_timeout":      "backend.breaker_timeout",
	"backend_breaker_min_requests": "backend.breaker_min_requests",

	// Cache
	"cache_autocomplete_ttl":  "cache.autocomplete.ttl",
	"cache_autocomplete_size": "cache.autocomplete.size",
	"cache_pois_ttl":          "cache.pois.ttl",
	"cache_pois_size":         "cache.pois.size",
	"cache_poi_detail_ttl":    "cache.poi_detail.ttl",
	"cache_poi_detail_size":   "cache.poi_detail.size",
	"cache_collections_ttl":   "cache.collections.ttl",
	"cache_collections_size":  "cache.collections.size",
	"cache_facets_ttl":        "cache.facets.ttl",
	"cache_facets_size":       "cache.facets.size",
	"cache_query_parse_ttl":   "cache.query_parse.ttl",
	"cache_query_parse_size":  "cache.query_parse.size",

	// Security
	"auth_mode":           "security.auth_mode",
	"api_key_public":      "security.api_key",
	"cors_origin":         "security.cors_origins",
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Tracing
	"tracing_enabled":      "tracing.enabled",
	"tracing_service_name": "tracing.service_name",
	"tracing_sample_ratio": "tracing.sample_ratio",
}

// envTransformFunc maps known environment variables to config paths.
// Unknown variables return "" and are ignored by koanf.
//
// Examples:
//   - SUPABASE_URL -> backend.url
//   - API_KEY_PUBLIC -> security.api_key
//   - CACHE_POIS_TTL -> cache.pois.ttl
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
