// Package services – dashboard cache
//
// This file implements a small in-process TTL cache for assembled dashboard
// payloads, keyed by survey slug. Summaries change at most once per rollup
// interval, so a short TTL (on the order of a minute) absorbs read bursts
// without serving stale data for long. Submissions and rollup runs invalidate
// the affected slug eagerly so the next read re-derives.
//
// The cache is process-local, like the rate limiter's bucket map: this
// service deploys as a single self-contained process.
package services

import (
	"sync"
	"time"
)

// cacheEntry pairs a payload with its expiry instant.
type cacheEntry struct {
	payload   *DashboardPayload
	expiresAt time.Time
}

// DashboardCache is a mutex-guarded slug→payload map with per-entry TTL.
// It is safe for concurrent use by any number of readers and writers.
type DashboardCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

// NewDashboardCache returns an empty, ready-to-use cache.
func NewDashboardCache() *DashboardCache {
	return &DashboardCache{entries: make(map[string]cacheEntry)}
}

// Get returns the cached payload for slug when present and not expired.
// Expired entries are evicted on lookup.
func (c *DashboardCache) Get(slug string) (*DashboardPayload, bool) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[slug]
	if !ok {
		return nil, false
	}
	if now.After(e.expiresAt) {
		delete(c.entries, slug)
		return nil, false
	}
	return e.payload, true
}

// Set stores payload for slug with the given TTL. A non-positive TTL stores
// nothing, which effectively disables caching.
func (c *DashboardCache) Set(slug string, payload *DashboardPayload, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[slug] = cacheEntry{payload: payload, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

// Invalidate drops the cached payload for slug, if any. It is called after
// each accepted submission and after each rollup run so the next dashboard
// read reflects the new data.
func (c *DashboardCache) Invalidate(slug string) {
	c.mu.Lock()
	delete(c.entries, slug)
	c.mu.Unlock()
}
