// Package catalog fetches raw course records from the university
// open-data API and caches responses with an explicit TTL.
package catalog

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Cache is an in-memory TTL cache for raw catalog responses, keyed by
// course. It is injected into the Client rather than held as package
// state so the pipeline stays independently testable.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
	cron    *cron.Cron
}

type cacheEntry struct {
	records []json.RawMessage
	expiry  time.Time
}

// NewCache creates a cache whose entries expire after ttl.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the cached records for key, or false when absent or
// expired.
func (c *Cache) Get(key string) ([]json.RawMessage, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expiry) {
		return nil, false
	}
	return e.records, true
}

// Set stores records under key with a fresh expiry.
func (c *Cache) Set(key string, records []json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{records: records, expiry: time.Now().Add(c.ttl)}
}

// Evict removes expired entries and returns how many were dropped.
func (c *Cache) Evict() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0
	for key, e := range c.entries {
		if now.After(e.expiry) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// StartJanitor begins a periodic sweep of expired entries, one sweep
// per TTL interval.
func (c *Cache) StartJanitor() {
	if c.cron != nil {
		return
	}
	c.cron = cron.New()
	_, err := c.cron.AddFunc("@every "+c.ttl.String(), func() {
		if removed := c.Evict(); removed > 0 {
			log.Printf("Catalog cache: evicted %d expired entries", removed)
		}
	})
	if err != nil {
		log.Printf("Catalog cache: scheduling janitor sweep: %v", err)
		c.cron = nil
		return
	}
	c.cron.Start()
}

// StopJanitor stops the sweep, waiting for a running sweep to finish.
func (c *Cache) StopJanitor() {
	if c.cron == nil {
		return
	}
	ctx := c.cron.Stop()
	<-ctx.Done()
	c.cron = nil
}
