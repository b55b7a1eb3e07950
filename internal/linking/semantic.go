package linking

import (
	"context"
	"fmt"

	"github.com/glintlock/triage/internal/ai"
	"github.com/glintlock/triage/internal/embedding"
	"github.com/glintlock/triage/internal/types"
)

// detectSemantic finds corpus issues whose embeddings sit above the
// semantic threshold. Same mechanism as duplicate detection, single lower
// threshold, shared cache.
func (l *Linker) detectSemantic(ctx context.Context, source types.IssueContent, corpus []types.IssueContent) ([]Relationship, error) {
	if l.embedder == nil {
		return nil, fmt.Errorf("no embedder configured")
	}
	if len(corpus) == 0 {
		return nil, nil
	}

	sourceVec, err := embedding.ResolveVector(ctx, l.embedder, l.cache, source)
	if err != nil {
		return nil, err
	}
	corpusVecs, err := embedding.ResolveCorpus(ctx, l.embedder, l.cache, corpus)
	if err != nil {
		return nil, err
	}

	var edges []Relationship
	for i, vec := range corpusVecs {
		sim := types.Clamp01(ai.CosineSimilarity(sourceVec, vec))
		if sim < l.config.SemanticThreshold {
			continue
		}
		edges = append(edges, Relationship{
			SourceID:   source.ID,
			TargetID:   corpus[i].ID,
			Type:       TypeSemantic,
			Confidence: sim,
			Reasoning:  fmt.Sprintf("embedding cosine similarity %.2f", sim),
		})
	}
	return edges, nil
}
