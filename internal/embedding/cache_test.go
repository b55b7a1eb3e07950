package embedding

import (
	"fmt"
	"testing"
	"time"
)

func newTestCache(t *testing.T, config CacheConfig) *Cache {
	t.Helper()
	cache, err := NewCache(config)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	return cache
}

func TestCacheHit(t *testing.T) {
	cache := newTestCache(t, DefaultCacheConfig())
	hash := ComputeContentHash("title", "body")

	cache.Put("iss-1", hash, []float64{1, 2, 3})

	vec, ok := cache.Get("iss-1", hash)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(vec) != 3 || vec[0] != 1 {
		t.Errorf("unexpected vector: %v", vec)
	}
}

func TestCacheMissOnContentChange(t *testing.T) {
	cache := newTestCache(t, DefaultCacheConfig())

	cache.Put("iss-1", ComputeContentHash("title", "body"), []float64{1})

	// Edited content produces a different hash; the stale vector must not
	// be served.
	if _, ok := cache.Get("iss-1", ComputeContentHash("title", "edited body")); ok {
		t.Error("changed content should miss")
	}

	// Original hash still hits.
	if _, ok := cache.Get("iss-1", ComputeContentHash("title", "body")); !ok {
		t.Error("unchanged content should still hit")
	}
}

func TestCacheMissOnExpiry(t *testing.T) {
	cache := newTestCache(t, CacheConfig{TTL: time.Hour, MaxEntries: 10})

	current := time.Now()
	cache.now = func() time.Time { return current }

	hash := ComputeContentHash("title", "body")
	cache.Put("iss-1", hash, []float64{1})

	// Just inside the TTL.
	current = current.Add(59 * time.Minute)
	if _, ok := cache.Get("iss-1", hash); !ok {
		t.Error("entry within TTL should hit")
	}

	// Past the TTL the entry is dropped.
	current = current.Add(2 * time.Minute)
	if _, ok := cache.Get("iss-1", hash); ok {
		t.Error("expired entry should miss")
	}
	if cache.Len() != 0 {
		t.Errorf("expired entry should be deleted, Len = %d", cache.Len())
	}
}

func TestCacheOverwrite(t *testing.T) {
	cache := newTestCache(t, DefaultCacheConfig())

	hashOld := ComputeContentHash("title", "old")
	hashNew := ComputeContentHash("title", "new")

	cache.Put("iss-1", hashOld, []float64{1})
	cache.Put("iss-1", hashNew, []float64{2})

	if cache.Len() != 1 {
		t.Errorf("Len = %d, want 1", cache.Len())
	}
	if _, ok := cache.Get("iss-1", hashOld); ok {
		t.Error("old hash should miss after overwrite")
	}
	vec, ok := cache.Get("iss-1", hashNew)
	if !ok || vec[0] != 2 {
		t.Errorf("new hash should hit with new vector, got %v ok=%v", vec, ok)
	}
}

func TestCacheEvictsOldest(t *testing.T) {
	cache := newTestCache(t, CacheConfig{TTL: time.Hour, MaxEntries: 20})

	current := time.Now()
	cache.now = func() time.Time { return current }

	// Fill to capacity; each entry is one second newer than the last.
	for i := 0; i < 20; i++ {
		current = current.Add(time.Second)
		cache.Put(fmt.Sprintf("iss-%02d", i), "h", []float64{float64(i)})
	}
	if cache.Len() != 20 {
		t.Fatalf("Len = %d, want 20", cache.Len())
	}

	// One more insert triggers eviction of the oldest ~10% (2 of 21).
	current = current.Add(time.Second)
	cache.Put("iss-20", "h", []float64{20})

	if cache.Len() != 19 {
		t.Errorf("Len after eviction = %d, want 19", cache.Len())
	}
	if _, ok := cache.Get("iss-00", "h"); ok {
		t.Error("oldest entry should be evicted")
	}
	if _, ok := cache.Get("iss-01", "h"); ok {
		t.Error("second-oldest entry should be evicted")
	}
	if _, ok := cache.Get("iss-20", "h"); !ok {
		t.Error("newest entry should survive eviction")
	}
}

func TestCacheClear(t *testing.T) {
	cache := newTestCache(t, DefaultCacheConfig())
	cache.Put("iss-1", "h", []float64{1})
	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("Len after Clear = %d", cache.Len())
	}
}

func TestComputeContentHash(t *testing.T) {
	if ComputeContentHash("a", "b") != ComputeContentHash("a", "b") {
		t.Error("hash should be deterministic")
	}
	if ComputeContentHash("a", "b") == ComputeContentHash("a", "c") {
		t.Error("different body should change the hash")
	}
	if ComputeContentHash("a", "b") == ComputeContentHash("x", "b") {
		t.Error("different title should change the hash")
	}
}
