// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package metrics

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"
)

const (
	// maxResponseTimes is the window of the moving response time average.
	maxResponseTimes = 100
	// maxPopularQueries is how many queries survive a trim. A trim happens
	// once the map holds more than twice this many.
	maxPopularQueries = 50
	// topQueries is how many popular queries a snapshot exposes.
	topQueries = 10
)

// Search modes counted by RecordSearch.
const (
	ModeName = "name"
	ModeType = "type"
)

// Sample is one observed autocomplete or search request.
type Sample struct {
	Query        string
	Mode         string // ModeName, ModeType or empty; ignored for autocomplete
	CacheHit     bool
	ResponseTime time.Duration
	Error        bool
}

// QueryCount is one entry of the popular query ranking.
type QueryCount struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// KindSnapshot is the public view of one request kind.
type KindSnapshot struct {
	TotalRequests     int64        `json:"total_requests"`
	CacheHitRate      string       `json:"cache_hit_rate"`
	ErrorRate         string       `json:"error_rate"`
	AvgResponseTimeMs int64        `json:"avg_response_time_ms"`
	PopularQueries    []QueryCount `json:"popular_queries"`
}

// SearchSnapshot adds the name/type split to the search kind.
type SearchSnapshot struct {
	KindSnapshot
	NameSearches int64 `json:"name_searches"`
	TypeSearches int64 `json:"type_searches"`
}

// Snapshot is returned by GET /v1/metrics.
type Snapshot struct {
	Autocomplete KindSnapshot   `json:"autocomplete"`
	Search       SearchSnapshot `json:"search"`
}

type kindStats struct {
	total          int64
	cacheHits      int64
	cacheMisses    int64
	errors         int64
	responseTimes  []float64
	avgResponseMs  float64
	popularQueries map[string]int64
}

func newKindStats() kindStats {
	return kindStats{popularQueries: make(map[string]int64)}
}

func (k *kindStats) record(s Sample) {
	k.total++
	if s.CacheHit {
		k.cacheHits++
	} else {
		k.cacheMisses++
	}
	if s.Error {
		k.errors++
	}

	k.responseTimes = append(k.responseTimes, float64(s.ResponseTime)/float64(time.Millisecond))
	if len(k.responseTimes) > maxResponseTimes {
		k.responseTimes = k.responseTimes[len(k.responseTimes)-maxResponseTimes:]
	}
	var sum float64
	for _, v := range k.responseTimes {
		sum += v
	}
	k.avgResponseMs = sum / float64(len(k.responseTimes))

	if s.Query == "" {
		return
	}
	k.popularQueries[s.Query]++
	if len(k.popularQueries) > maxPopularQueries*2 {
		kept := rankQueries(k.popularQueries, maxPopularQueries)
		k.popularQueries = make(map[string]int64, len(kept))
		for _, qc := range kept {
			k.popularQueries[qc.Query] = qc.Count
		}
	}
}

func (k *kindStats) snapshot() KindSnapshot {
	return KindSnapshot{
		TotalRequests:     k.total,
		CacheHitRate:      percent(k.cacheHits, k.total),
		ErrorRate:         percent(k.errors, k.total),
		AvgResponseTimeMs: int64(math.Round(k.avgResponseMs)),
		PopularQueries:    rankQueries(k.popularQueries, topQueries),
	}
}

// rankQueries orders by count desc, then query asc, and keeps the first n.
func rankQueries(m map[string]int64, n int) []QueryCount {
	out := make([]QueryCount, 0, len(m))
	for q, c := range m {
		out = append(out, QueryCount{Query: q, Count: c})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Query < out[j].Query
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func percent(part, total int64) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.2f%%", float64(part)/float64(total)*100)
}

// SearchMetrics keeps in-memory counters for the autocomplete and search
// endpoints. It is reset on restart; Prometheus covers long-term series.
type SearchMetrics struct {
	mu           sync.Mutex
	autocomplete kindStats
	search       kindStats
	nameSearches int64
	typeSearches int64
}

// NewSearchMetrics returns an empty metrics store.
func NewSearchMetrics() *SearchMetrics {
	return &SearchMetrics{
		autocomplete: newKindStats(),
		search:       newKindStats(),
	}
}

// RecordAutocomplete records one autocomplete request.
func (m *SearchMetrics) RecordAutocomplete(s Sample) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.autocomplete.record(s)
}

// RecordSearch records one POI search request.
func (m *SearchMetrics) RecordSearch(s Sample) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.search.record(s)
	switch s.Mode {
	case ModeName:
		m.nameSearches++
	case ModeType:
		m.typeSearches++
	}
}

// Snapshot returns a copy of the current counters.
func (m *SearchMetrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		Autocomplete: m.autocomplete.snapshot(),
		Search: SearchSnapshot{
			KindSnapshot: m.search.snapshot(),
			NameSearches: m.nameSearches,
			TypeSearches: m.typeSearches,
		},
	}
}

// Reset clears every counter. Used by tests.
func (m *SearchMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.autocomplete = newKindStats()
	m.search = newKindStats()
	m.nameSearches = 0
	m.typeSearches = 0
}
