// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/poigate/internal/config"
	"github.com/tomtom215/poigate/internal/logging"
	"github.com/tomtom215/poigate/internal/middleware"
)

// Router wires handlers and middleware into a chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	apiKey        middleware.APIKeyConfig
}

// NewRouter builds the router from the security configuration.
func NewRouter(handler *Handler, sec config.SecurityConfig) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(NewChiMiddlewareConfig(sec)),
		apiKey: middleware.APIKeyConfig{
			Mode:   sec.AuthMode,
			Key:    sec.APIKey,
			Logger: logging.NewSecurityLogger(),
		},
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()
	h := router.handler

	// ========================
	// Global Middleware Stack
	// ========================
	// Applied to ALL routes in order
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.PrometheusMetrics)
	r.Use(h.perfMon.Middleware)
	r.Use(middleware.Compression())
	r.Use(router.chiMiddleware.CORS()) // CORS must run before auth so preflights pass
	r.Use(middleware.APIKeyAuth(router.apiKey, router.rejectAPIKey))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound(MsgNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).Error(http.StatusMethodNotAllowed, MsgMethodNotAllowed)
	})

	// ========================
	// Health and Scrape Endpoints
	// ========================
	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Get("/", h.Index)
		r.Get("/health", h.Health)
		r.Get("/health/ready", h.HealthReady)
		r.Handle("/metrics", promhttp.Handler())
	})

	// ========================
	// Public API
	// ========================
	r.Route("/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())

		r.Get("/", h.Index)
		r.Get("/metrics", h.Metrics)

		r.Get("/pois", h.POIs)
		r.Get("/pois/facets", h.POIFacets)
		r.Get("/pois/{slug}", h.POIBySlug)
		r.Get("/autocomplete", h.Autocomplete)
		r.Get("/collections", h.Collections)
		r.Get("/collections/{slug}", h.CollectionBySlug)
		r.Get("/sitemap/pois", h.SitemapPOIs)
	})

	return r
}

func (router *Router) rejectAPIKey(w http.ResponseWriter, r *http.Request, _ string) {
	NewResponseWriter(w, r).Unauthorized(MsgUnauthorized)
}
