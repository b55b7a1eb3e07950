package embedding

import (
	"context"
	"fmt"

	"github.com/glintlock/triage/internal/ai"
	"github.com/glintlock/triage/internal/types"
)

// ResolveVector returns the embedding for a single issue, consulting the
// cache first and writing back on a miss.
func ResolveVector(ctx context.Context, embedder ai.Embedder, cache *Cache, issue types.IssueContent) ([]float64, error) {
	hash := ComputeContentHash(issue.Title, issue.Body)
	if vec, ok := cache.Get(issue.ID, hash); ok {
		return vec, nil
	}

	vec, err := embedder.Embed(ctx, issue.Text())
	if err != nil {
		return nil, fmt.Errorf("embedding issue %s: %w", issue.ID, err)
	}
	cache.Put(issue.ID, hash, vec)
	return vec, nil
}

// ResolveCorpus returns one vector per corpus issue, order-preserving.
// Cached vectors are reused; all misses are embedded in a single batched
// provider request, both for efficiency and to bound concurrency against
// the provider.
func ResolveCorpus(ctx context.Context, embedder ai.Embedder, cache *Cache, corpus []types.IssueContent) ([][]float64, error) {
	vectors := make([][]float64, len(corpus))
	hashes := make([]string, len(corpus))

	var missing []int
	for i, issue := range corpus {
		hashes[i] = ComputeContentHash(issue.Title, issue.Body)
		if vec, ok := cache.Get(issue.ID, hashes[i]); ok {
			vectors[i] = vec
			continue
		}
		missing = append(missing, i)
	}

	if len(missing) == 0 {
		return vectors, nil
	}

	texts := make([]string, len(missing))
	for j, idx := range missing {
		texts[j] = corpus[idx].Text()
	}

	embedded, err := embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("batch embedding %d corpus issues: %w", len(missing), err)
	}
	if len(embedded) != len(missing) {
		return nil, fmt.Errorf("batch embedding returned %d vectors, expected %d", len(embedded), len(missing))
	}

	for j, idx := range missing {
		vectors[idx] = embedded[j]
		cache.Put(corpus[idx].ID, hashes[idx], embedded[j])
	}
	return vectors, nil
}
