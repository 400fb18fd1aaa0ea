// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package metrics

import (
	"runtime"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/v1/test-record", "200"))

	RecordAPIRequest("GET", "/v1/test-record", "200", 15*time.Millisecond)
	RecordAPIRequest("GET", "/v1/test-record", "200", 25*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/v1/test-record", "200"))
	if after-before != 2 {
		t.Errorf("api_requests_total delta = %v, want 2", after-before)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("active requests = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active requests = %v, want %v", got, before)
	}
}

func TestRecordBackendCall(t *testing.T) {
	tests := []struct {
		name      string
		resource  string
		errorType string
		wantErrs  float64
	}{
		{"success", "rpc/test_ok", "", 0},
		{"server error", "rpc/test_fail", "status_5xx", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(BackendRequestErrors.WithLabelValues(tt.resource, "status_5xx"))
			RecordBackendCall(tt.resource, 10*time.Millisecond, tt.errorType)
			after := testutil.ToFloat64(BackendRequestErrors.WithLabelValues(tt.resource, "status_5xx"))
			if after-before != tt.wantErrs {
				t.Errorf("errors delta = %v, want %v", after-before, tt.wantErrs)
			}
		})
	}
}

func TestRecordEnrichmentFailure(t *testing.T) {
	before := testutil.ToFloat64(EnrichmentFailures.WithLabelValues("test_facet"))
	RecordEnrichmentFailure("test_facet")
	if got := testutil.ToFloat64(EnrichmentFailures.WithLabelValues("test_facet")); got != before+1 {
		t.Errorf("enrichment_failures_total = %v, want %v", got, before+1)
	}
}

func TestSystemGauges(t *testing.T) {
	RecordAppInfo("v-test")
	if got := testutil.ToFloat64(AppInfo.WithLabelValues("v-test", runtime.Version())); got != 1 {
		t.Errorf("app_info = %v, want 1", got)
	}

	RecordUptime(90 * time.Second)
	if got := testutil.ToFloat64(AppUptime); got != 90 {
		t.Errorf("app_uptime_seconds = %v, want 90", got)
	}

	RecordCacheEntries("test_family", 42)
	if got := testutil.ToFloat64(CacheEntries.WithLabelValues("test_family")); got != 42 {
		t.Errorf("cache_entries = %v, want 42", got)
	}
}
