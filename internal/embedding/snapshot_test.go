package embedding

import (
	"path/filepath"
	"testing"
	"time"
)

func TestSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	store, err := OpenSnapshotStore(path)
	if err != nil {
		t.Fatalf("OpenSnapshotStore: %v", err)
	}
	defer store.Close()

	source := newTestCache(t, DefaultCacheConfig())
	source.Put("iss-1", ComputeContentHash("t1", "b1"), []float64{0.1, 0.2})
	source.Put("iss-2", ComputeContentHash("t2", "b2"), []float64{0.3, 0.4})

	if err := store.Save(source); err != nil {
		t.Fatalf("Save: %v", err)
	}

	restored := newTestCache(t, DefaultCacheConfig())
	loaded, err := store.Load(restored)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded != 2 {
		t.Errorf("loaded = %d, want 2", loaded)
	}

	vec, ok := restored.Get("iss-1", ComputeContentHash("t1", "b1"))
	if !ok {
		t.Fatal("restored cache should hit")
	}
	if vec[1] != 0.2 {
		t.Errorf("unexpected restored vector: %v", vec)
	}
}

func TestSnapshotSkipsExpired(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	store, err := OpenSnapshotStore(path)
	if err != nil {
		t.Fatalf("OpenSnapshotStore: %v", err)
	}
	defer store.Close()

	source := newTestCache(t, CacheConfig{TTL: time.Minute, MaxEntries: 10})
	past := time.Now().Add(-time.Hour)
	source.now = func() time.Time { return past }
	source.Put("stale", "h", []float64{1})

	source.now = time.Now
	source.Put("fresh", "h", []float64{2})

	if err := store.Save(source); err != nil {
		t.Fatalf("Save: %v", err)
	}

	restored := newTestCache(t, DefaultCacheConfig())
	loaded, err := store.Load(restored)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded != 1 {
		t.Errorf("loaded = %d, want 1 (stale entry skipped)", loaded)
	}
	if _, ok := restored.Get("stale", "h"); ok {
		t.Error("expired entry should not be restored")
	}
}

func TestSnapshotUpsert(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	store, err := OpenSnapshotStore(path)
	if err != nil {
		t.Fatalf("OpenSnapshotStore: %v", err)
	}
	defer store.Close()

	source := newTestCache(t, DefaultCacheConfig())
	source.Put("iss-1", "h1", []float64{1})
	if err := store.Save(source); err != nil {
		t.Fatal(err)
	}

	source.Put("iss-1", "h2", []float64{9})
	if err := store.Save(source); err != nil {
		t.Fatal(err)
	}

	restored := newTestCache(t, DefaultCacheConfig())
	if _, err := store.Load(restored); err != nil {
		t.Fatal(err)
	}

	vec, ok := restored.Get("iss-1", "h2")
	if !ok || vec[0] != 9 {
		t.Errorf("latest row should win, got %v ok=%v", vec, ok)
	}
}
