// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package cache

import (
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/tomtom215/poigate/internal/metrics"
)

// Stats tracks cache performance metrics
type Stats struct {
	Family    string `json:"family"`
	Hits      int64  `json:"hits"`
	Misses    int64  `json:"misses"`
	Evictions int64  `json:"evictions"`
	TotalKeys int64  `json:"total_keys"`
}

// Cache is a size-bounded LRU with a fixed TTL holding assembled response
// payloads. Values are immutable once stored: callers must not modify a
// slice returned by Get.
type Cache struct {
	family string
	lru    *expirable.LRU[string, []byte]

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// New creates a cache for one endpoint family. size <= 0 means unbounded and
// ttl <= 0 means entries never expire; neither is used in production.
//
//	c := cache.New("pois", 500, 10*time.Minute)
//	if payload, ok := c.Get(key); ok {
//	    // serve payload
//	}
func New(family string, size int, ttl time.Duration) *Cache {
	c := &Cache{family: family}
	if size < 0 {
		size = 0
	}
	if ttl < 0 {
		ttl = 0
	}
	c.lru = expirable.NewLRU[string, []byte](size, c.onEvict, ttl)
	return c
}

func (c *Cache) onEvict(_ string, _ []byte) {
	c.evictions.Add(1)
	metrics.CacheEvictions.WithLabelValues(c.family).Inc()
}

// Family returns the endpoint family the cache serves.
func (c *Cache) Family() string {
	return c.family
}

// Get returns the payload stored under key. Expired entries are misses. A hit
// refreshes the entry's LRU recency but never its expiry.
func (c *Cache) Get(key string) ([]byte, bool) {
	v, ok := c.lru.Get(key)
	if !ok {
		c.misses.Add(1)
		metrics.CacheMisses.WithLabelValues(c.family).Inc()
		return nil, false
	}
	c.hits.Add(1)
	metrics.CacheHits.WithLabelValues(c.family).Inc()
	return v, true
}

// Set stores value under key, replacing any previous entry.
func (c *Cache) Set(key string, value []byte) {
	c.lru.Add(key, value)
}

// Has reports whether a live entry exists without touching recency or stats.
func (c *Cache) Has(key string) bool {
	_, ok := c.lru.Peek(key)
	return ok
}

// Len returns the number of stored entries, including any expired ones not
// yet reaped.
func (c *Cache) Len() int {
	return c.lru.Len()
}

// Purge drops every entry and resets the counters.
func (c *Cache) Purge() {
	c.lru.Purge()
	c.hits.Store(0)
	c.misses.Store(0)
	c.evictions.Store(0)
}

// Stats returns current cache statistics
func (c *Cache) Stats() Stats {
	return Stats{
		Family:    c.family,
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		TotalKeys: int64(c.lru.Len()),
	}
}

// HitRate returns the cache hit rate as a percentage
func (c *Cache) HitRate() float64 {
	hits := c.hits.Load()
	total := hits + c.misses.Load()
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}
