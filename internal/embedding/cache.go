// Package embedding provides the in-memory embedding cache keyed by issue
// identity and content hash, plus helpers for resolving issue vectors
// through a cache-checked batch embedding call and persisting cache
// snapshots to SQLite.
package embedding

import (
	"fmt"
	"sort"
	"time"

	"github.com/glintlock/triage/internal/envconfig"
)

// CacheConfig holds cache sizing and expiry settings.
type CacheConfig struct {
	// TTL is how long a cached vector stays valid. Default: 24 hours.
	TTL time.Duration

	// MaxEntries bounds the cache size. When an insert pushes the cache
	// past this limit, the oldest ~10% of entries by insertion time are
	// evicted. Default: 1000.
	MaxEntries int
}

// DefaultCacheConfig returns the default cache settings.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		TTL:        24 * time.Hour,
		MaxEntries: 1000,
	}
}

// Validate checks if the configuration has valid values.
func (c CacheConfig) Validate() error {
	if c.TTL <= 0 {
		return fmt.Errorf("ttl must be positive (got %v)", c.TTL)
	}
	if c.MaxEntries <= 0 {
		return fmt.Errorf("max_entries must be positive (got %d)", c.MaxEntries)
	}
	return nil
}

// CacheConfigFromEnv creates a CacheConfig from environment variables,
// falling back to defaults.
//
// Environment variables:
//   - TRIAGE_CACHE_TTL_HOURS: vector lifetime in hours (default: 24)
//   - TRIAGE_CACHE_MAX_ENTRIES: cache size bound (default: 1000)
func CacheConfigFromEnv() (CacheConfig, error) {
	cfg := DefaultCacheConfig()

	if err := envconfig.ParseDuration("TRIAGE_CACHE_TTL_HOURS", &cfg.TTL, time.Hour); err != nil {
		return cfg, err
	}
	if err := envconfig.ParseInt("TRIAGE_CACHE_MAX_ENTRIES", &cfg.MaxEntries); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration from environment: %w", err)
	}
	return cfg, nil
}

// entry is one cached embedding. An entry is valid only while its content
// hash matches the caller-supplied hash and the TTL has not elapsed.
type entry struct {
	contentHash string
	vector      []float64
	insertedAt  time.Time
	expiresAt   time.Time
}

// Cache maps issue IDs to embedding vectors, invalidated by content hash
// and TTL.
//
// Not thread-safe by contract: the cache assumes a single logical owner per
// process. Concurrent callers must serialize access; a lost race costs a
// redundant embedding computation, not correctness, since the overwriting
// vector is equally valid for the same content hash.
type Cache struct {
	config  CacheConfig
	entries map[string]entry
	now     func() time.Time // overridable for tests
}

// NewCache creates an embedding cache.
func NewCache(config CacheConfig) (*Cache, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cache config: %w", err)
	}
	return &Cache{
		config:  config,
		entries: make(map[string]entry),
		now:     time.Now,
	}, nil
}

// Get returns the cached vector for an issue if and only if the stored
// content hash equals the supplied hash and the entry has not expired.
// A miss is the signal to recompute, not an error.
func (c *Cache) Get(issueID, contentHash string) ([]float64, bool) {
	e, ok := c.entries[issueID]
	if !ok {
		return nil, false
	}
	if e.contentHash != contentHash {
		// Content changed; the stale entry will be overwritten on Put.
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, issueID)
		return nil, false
	}
	return e.vector, true
}

// Put inserts or overwrites the cached vector for an issue. If the cache
// exceeds its maximum entry count, the oldest ~10% of entries by insertion
// time are evicted (approximate LRU via insertion order, not access order).
func (c *Cache) Put(issueID, contentHash string, vector []float64) {
	now := c.now()
	c.entries[issueID] = entry{
		contentHash: contentHash,
		vector:      vector,
		insertedAt:  now,
		expiresAt:   now.Add(c.config.TTL),
	}
	if len(c.entries) > c.config.MaxEntries {
		c.evictOldest()
	}
}

// evictOldest drops the oldest 10% of entries by insertion time, at least
// one.
func (c *Cache) evictOldest() {
	type aged struct {
		id         string
		insertedAt time.Time
	}
	all := make([]aged, 0, len(c.entries))
	for id, e := range c.entries {
		all = append(all, aged{id: id, insertedAt: e.insertedAt})
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].insertedAt.Before(all[j].insertedAt)
	})

	count := len(all) / 10
	if count < 1 {
		count = 1
	}
	for _, victim := range all[:count] {
		delete(c.entries, victim.id)
	}
}

// Len returns the number of entries currently stored, expired or not.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Clear removes all entries. Used when seeding tests and by the CLI when a
// snapshot should be rebuilt from scratch.
func (c *Cache) Clear() {
	c.entries = make(map[string]entry)
}
