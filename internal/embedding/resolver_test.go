package embedding

import (
	"context"
	"fmt"
	"testing"

	"github.com/glintlock/triage/internal/types"
)

// stubEmbedder returns a deterministic vector per text and counts provider
// traffic so tests can assert on cache behavior.
type stubEmbedder struct {
	embedCalls int
	batchCalls int
	batchSizes []int
	fail       bool
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	s.embedCalls++
	if s.fail {
		return nil, fmt.Errorf("provider down")
	}
	return vectorFor(text), nil
}

func (s *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	s.batchCalls++
	s.batchSizes = append(s.batchSizes, len(texts))
	if s.fail {
		return nil, fmt.Errorf("provider down")
	}
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		vectors[i] = vectorFor(text)
	}
	return vectors, nil
}

func vectorFor(text string) []float64 {
	vec := make([]float64, 4)
	for i, r := range text {
		vec[i%4] += float64(r)
	}
	return vec
}

func TestResolveVectorCaches(t *testing.T) {
	cache := newTestCache(t, DefaultCacheConfig())
	embedder := &stubEmbedder{}
	issue := types.IssueContent{ID: "iss-1", Title: "Login fails", Body: "on mobile"}

	first, err := ResolveVector(context.Background(), embedder, cache, issue)
	if err != nil {
		t.Fatalf("ResolveVector: %v", err)
	}
	second, err := ResolveVector(context.Background(), embedder, cache, issue)
	if err != nil {
		t.Fatalf("ResolveVector: %v", err)
	}

	if embedder.embedCalls != 1 {
		t.Errorf("embedCalls = %d, want 1 (second resolve should hit cache)", embedder.embedCalls)
	}
	if len(first) != len(second) || first[0] != second[0] {
		t.Error("cached vector should match computed vector")
	}
}

func TestResolveVectorRecomputesOnEdit(t *testing.T) {
	cache := newTestCache(t, DefaultCacheConfig())
	embedder := &stubEmbedder{}

	issue := types.IssueContent{ID: "iss-1", Title: "Login fails", Body: "on mobile"}
	if _, err := ResolveVector(context.Background(), embedder, cache, issue); err != nil {
		t.Fatal(err)
	}

	issue.Body = "on mobile and desktop"
	if _, err := ResolveVector(context.Background(), embedder, cache, issue); err != nil {
		t.Fatal(err)
	}

	if embedder.embedCalls != 2 {
		t.Errorf("embedCalls = %d, want 2 (edited content must recompute)", embedder.embedCalls)
	}
}

func TestResolveCorpusBatchesMisses(t *testing.T) {
	cache := newTestCache(t, DefaultCacheConfig())
	embedder := &stubEmbedder{}

	corpus := []types.IssueContent{
		{ID: "a", Title: "one"},
		{ID: "b", Title: "two"},
		{ID: "c", Title: "three"},
	}

	// Pre-seed one entry so the batch covers only the misses.
	seeded, err := ResolveVector(context.Background(), embedder, cache, corpus[1])
	if err != nil {
		t.Fatal(err)
	}

	vectors, err := ResolveCorpus(context.Background(), embedder, cache, corpus)
	if err != nil {
		t.Fatalf("ResolveCorpus: %v", err)
	}

	if len(vectors) != 3 {
		t.Fatalf("got %d vectors, want 3", len(vectors))
	}
	if embedder.batchCalls != 1 {
		t.Errorf("batchCalls = %d, want 1 (all misses in one request)", embedder.batchCalls)
	}
	if embedder.batchSizes[0] != 2 {
		t.Errorf("batch size = %d, want 2 (seeded entry should not re-embed)", embedder.batchSizes[0])
	}
	if vectors[1][0] != seeded[0] {
		t.Error("seeded vector should be reused in position")
	}

	// A second resolve is fully cached.
	if _, err := ResolveCorpus(context.Background(), embedder, cache, corpus); err != nil {
		t.Fatal(err)
	}
	if embedder.batchCalls != 1 {
		t.Errorf("batchCalls = %d after warm resolve, want 1", embedder.batchCalls)
	}
}

func TestResolveCorpusPropagatesProviderError(t *testing.T) {
	cache := newTestCache(t, DefaultCacheConfig())
	embedder := &stubEmbedder{fail: true}

	_, err := ResolveCorpus(context.Background(), embedder, cache, []types.IssueContent{{ID: "a", Title: "one"}})
	if err == nil {
		t.Fatal("expected provider error to propagate")
	}
}
