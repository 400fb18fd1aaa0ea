// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/poigate/internal/api"
	"github.com/tomtom215/poigate/internal/backend"
	"github.com/tomtom215/poigate/internal/cache"
	"github.com/tomtom215/poigate/internal/config"
	"github.com/tomtom215/poigate/internal/logging"
	"github.com/tomtom215/poigate/internal/metrics"
	"github.com/tomtom215/poigate/internal/middleware"
	"github.com/tomtom215/poigate/internal/supervisor"
	"github.com/tomtom215/poigate/internal/supervisor/services"
	"github.com/tomtom215/poigate/internal/tracing"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("backend_url", cfg.Backend.URL).
		Str("auth_mode", cfg.Security.AuthMode).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Poigate with supervisor tree")

	if cfg.Security.AuthMode == middleware.AuthModeNone {
		logging.Warn().Msg("Authentication is DISABLED (AUTH_MODE=none): every route is public")
	}
	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	shutdownTracing, err := tracing.Init(cfg.Tracing, version)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize tracing")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logging.Error().Err(err).Msg("Error flushing traces")
		}
	}()

	repo := backend.NewRepository(backend.NewClient(cfg.Backend))

	pingCtx, pingCancel := context.WithTimeout(context.Background(), cfg.Backend.Timeout)
	if err := repo.Ping(pingCtx); err != nil {
		// Readiness reports this; the process still starts so it can recover.
		logging.Warn().Err(err).Msg("Backend not reachable at startup")
	} else {
		logging.Info().Msg("Connected to backend successfully")
	}
	pingCancel()

	caches := cache.NewFamilies(cfg.Cache)
	handler := api.NewHandler(repo, caches, version)
	router := api.NewRouter(handler, cfg.Security)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	metrics.RecordAppInfo(version)

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddMaintenanceService(services.NewMetricsReporterService(caches, 0))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Msg("Starting supervisor tree...")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		logging.Warn().Int("count", len(report)).Msg("Some services did not stop cleanly")
	}
	logging.Info().Msg("Poigate stopped")
}
