// Package dedup finds likely duplicates of a candidate issue within a
// corpus. The embedding path ranks corpus issues by cosine similarity and
// partitions them into confidence tiers; when embeddings are unavailable it
// degrades to keyword-set similarity with lower thresholds and a
// methodology flag so callers can discount confidence accordingly.
package dedup

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/glintlock/triage/internal/ai"
	"github.com/glintlock/triage/internal/confidence"
	"github.com/glintlock/triage/internal/embedding"
	"github.com/glintlock/triage/internal/lexical"
	"github.com/glintlock/triage/internal/types"
)

// Methodology records which computation produced a detection result.
type Methodology string

const (
	MethodologyEmbedding       Methodology = "embedding"
	MethodologyKeywordFallback Methodology = "keyword-fallback"
)

// Candidate is one possible duplicate of the checked issue.
type Candidate struct {
	IssueID    string          `json:"issue_id"`
	Similarity float64         `json:"similarity"`
	Tier       confidence.Tier `json:"tier"`
}

// Result is the full output of one detection call. Candidates below the
// medium threshold are omitted, not surfaced as a low tier: a weak
// duplicate signal is noise, not information.
type Result struct {
	HighConfidence   []Candidate `json:"high_confidence"`
	MediumConfidence []Candidate `json:"medium_confidence"`
	Methodology      Methodology `json:"methodology"`
}

// Detector computes duplicate candidates for an issue against a corpus.
type Detector struct {
	embedder ai.Embedder
	cache    *embedding.Cache
	config   Config
}

// NewDetector creates a duplicate detector. The embedder may be nil, in
// which case every call takes the keyword fallback path. The cache must be
// non-nil; it is shared with the related-issue linker by construction.
func NewDetector(embedder ai.Embedder, cache *embedding.Cache, config Config) (*Detector, error) {
	if cache == nil {
		return nil, fmt.Errorf("cache cannot be nil")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Detector{
		embedder: embedder,
		cache:    cache,
		config:   config,
	}, nil
}

// Detect finds likely duplicates of candidate within corpus.
//
// Input errors (invalid candidate, empty corpus) propagate to the caller.
// Provider absence or failure never does: the detector falls back to
// keyword similarity and flags the result with MethodologyKeywordFallback.
func (d *Detector) Detect(ctx context.Context, candidate types.IssueContent, corpus []types.IssueContent) (*Result, error) {
	return d.DetectWithThresholds(ctx, candidate, corpus, nil)
}

// DetectWithThresholds is Detect with per-call cut points for the
// embedding path. A nil override uses the configured thresholds. The
// fallback path keeps its own compensating thresholds either way; a
// cosine-grade cut point has no meaning for keyword overlap.
func (d *Detector) DetectWithThresholds(ctx context.Context, candidate types.IssueContent, corpus []types.IssueContent, override *Thresholds) (*Result, error) {
	if err := candidate.Validate(); err != nil {
		return nil, fmt.Errorf("invalid candidate: %w", err)
	}
	if err := types.ValidateCorpus(corpus); err != nil {
		return nil, err
	}

	thresholds := d.config.Embedding
	if override != nil {
		if err := override.Validate(); err != nil {
			return nil, fmt.Errorf("invalid thresholds: %w", err)
		}
		thresholds = *override
	}

	if d.embedder == nil {
		return d.detectByKeywords(candidate, corpus), nil
	}

	result, err := d.detectByEmbedding(ctx, candidate, corpus, thresholds)
	if err != nil {
		log.Printf("[DEDUP] embedding path failed for %s: %v (falling back to keywords)", candidate.ID, err)
		return d.detectByKeywords(candidate, corpus), nil
	}
	return result, nil
}

// detectByEmbedding is the AI-assisted path: cache-checked embeddings,
// cosine similarity, tier partition.
func (d *Detector) detectByEmbedding(ctx context.Context, candidate types.IssueContent, corpus []types.IssueContent, thresholds Thresholds) (*Result, error) {
	candidateVec, err := embedding.ResolveVector(ctx, d.embedder, d.cache, candidate)
	if err != nil {
		return nil, err
	}

	corpusVecs, err := embedding.ResolveCorpus(ctx, d.embedder, d.cache, corpus)
	if err != nil {
		return nil, err
	}

	similarities := make([]float64, len(corpus))
	for i, vec := range corpusVecs {
		similarities[i] = types.Clamp01(ai.CosineSimilarity(candidateVec, vec))
	}

	return d.partition(corpus, similarities, thresholds, MethodologyEmbedding), nil
}

// detectByKeywords is the fallback path: lexical similarity over normalized
// keyword sets, with lower thresholds to compensate for the method's lower
// precision. Jaccard alone punishes length asymmetry, so the stronger of
// Jaccard and the overlap coefficient is taken per pair; a terse report
// restating a longer near-identical one still surfaces.
func (d *Detector) detectByKeywords(candidate types.IssueContent, corpus []types.IssueContent) *Result {
	candidateSet := lexical.Keywords(candidate.Text())

	similarities := make([]float64, len(corpus))
	for i := range corpus {
		otherSet := lexical.Keywords(corpus[i].Text())
		sim := lexical.Jaccard(candidateSet, otherSet)
		if overlap := lexical.OverlapCoefficient(candidateSet, otherSet); overlap > sim {
			sim = overlap
		}
		similarities[i] = types.Clamp01(sim)
	}

	return d.partition(corpus, similarities, d.config.Fallback, MethodologyKeywordFallback)
}

// partition buckets scored corpus issues by threshold. Tiers are a strict
// partition: similarity >= high goes to HighConfidence only, [medium, high)
// to MediumConfidence, everything below medium is dropped. Each tier is
// sorted descending by similarity with ties kept in corpus order.
func (d *Detector) partition(corpus []types.IssueContent, similarities []float64, thresholds Thresholds, methodology Methodology) *Result {
	result := &Result{
		HighConfidence:   []Candidate{},
		MediumConfidence: []Candidate{},
		Methodology:      methodology,
	}

	for i := range corpus {
		sim := similarities[i]
		switch {
		case sim >= thresholds.High:
			result.HighConfidence = append(result.HighConfidence, Candidate{
				IssueID:    corpus[i].ID,
				Similarity: sim,
				Tier:       confidence.TierHigh,
			})
		case sim >= thresholds.Medium:
			result.MediumConfidence = append(result.MediumConfidence, Candidate{
				IssueID:    corpus[i].ID,
				Similarity: sim,
				Tier:       confidence.TierMedium,
			})
		}
	}

	sort.SliceStable(result.HighConfidence, func(a, b int) bool {
		return result.HighConfidence[a].Similarity > result.HighConfidence[b].Similarity
	})
	sort.SliceStable(result.MediumConfidence, func(a, b int) bool {
		return result.MediumConfidence[a].Similarity > result.MediumConfidence[b].Similarity
	})

	return result
}
