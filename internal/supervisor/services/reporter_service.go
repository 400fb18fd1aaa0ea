// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package services

import (
	"context"
	"time"

	"github.com/tomtom215/poigate/internal/cache"
	"github.com/tomtom215/poigate/internal/metrics"
)

const defaultReportInterval = 15 * time.Second

// StatsSource reports the response cache statistics. Satisfied by
// *cache.Families.
type StatsSource interface {
	Stats() []cache.Stats
}

// MetricsReporterService refreshes the gauges that are sampled rather than
// counted: process uptime and the entry count of every cache family.
type MetricsReporterService struct {
	caches   StatsSource
	interval time.Duration
	started  time.Time
	name     string
}

// NewMetricsReporterService creates the reporter. A non-positive interval
// uses 15s.
func NewMetricsReporterService(caches StatsSource, interval time.Duration) *MetricsReporterService {
	if interval <= 0 {
		interval = defaultReportInterval
	}
	return &MetricsReporterService{
		caches:   caches,
		interval: interval,
		started:  time.Now(),
		name:     "metrics-reporter",
	}
}

// Serve implements suture.Service. It reports once immediately, then on every
// tick until ctx is canceled.
func (s *MetricsReporterService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.report()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.report()
		}
	}
}

func (s *MetricsReporterService) report() {
	metrics.RecordUptime(time.Since(s.started))
	for _, st := range s.caches.Stats() {
		metrics.RecordCacheEntries(st.Family, st.TotalKeys)
	}
}

// String names the service in supervisor events.
func (s *MetricsReporterService) String() string {
	return s.name
}
