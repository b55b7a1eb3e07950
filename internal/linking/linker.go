// Package linking finds issues related to a source issue through three
// independent detectors: semantic similarity over embeddings, dependency
// cues refined by AI classification, and component affinity from label
// overlap. Detector outputs are merged so each issue pair surfaces at most
// one edge, keeping the highest-confidence detection.
package linking

import (
	"context"
	"fmt"
	"log"

	"github.com/glintlock/triage/internal/ai"
	"github.com/glintlock/triage/internal/embedding"
	"github.com/glintlock/triage/internal/types"
)

// RelationshipType identifies which detector produced an edge.
type RelationshipType string

const (
	TypeSemantic   RelationshipType = "semantic"
	TypeDependency RelationshipType = "dependency"
	TypeComponent  RelationshipType = "component"
)

// DependencySubType refines a dependency edge's direction.
type DependencySubType string

const (
	SubTypeBlocks    DependencySubType = "blocks"
	SubTypeBlockedBy DependencySubType = "blocked_by"
	SubTypeRelatedTo DependencySubType = "related_to"
)

// Relationship is one edge between the source issue and a corpus issue.
type Relationship struct {
	SourceID   string            `json:"source_id"`
	TargetID   string            `json:"target_id"`
	Type       RelationshipType  `json:"relationship_type"`
	SubType    DependencySubType `json:"sub_type,omitempty"`
	Confidence float64           `json:"confidence"`
	Reasoning  string            `json:"reasoning"`
}

// Linker runs the three relationship detectors and merges their output.
type Linker struct {
	embedder  ai.Embedder
	generator ai.Generator
	cache     *embedding.Cache
	config    Config
}

// NewLinker creates a related-issue linker. Both providers may be nil: a
// nil embedder disables the semantic detector for the call, and a nil
// generator leaves dependency candidates at keyword-stage confidence. The
// cache is shared with the duplicate detector by construction.
func NewLinker(embedder ai.Embedder, generator ai.Generator, cache *embedding.Cache, config Config) (*Linker, error) {
	if cache == nil {
		return nil, fmt.Errorf("cache cannot be nil")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Linker{
		embedder:  embedder,
		generator: generator,
		cache:     cache,
		config:    config,
	}, nil
}

// FindRelated returns the merged relationships between source and the
// corpus. Each detector's failure is isolated: a provider error in one
// detector never aborts the others. Input errors propagate.
func (l *Linker) FindRelated(ctx context.Context, source types.IssueContent, corpus []types.IssueContent) ([]Relationship, error) {
	if err := source.Validate(); err != nil {
		return nil, fmt.Errorf("invalid source issue: %w", err)
	}
	if err := types.ValidateCorpus(corpus); err != nil {
		return nil, err
	}

	// Self-edges are meaningless; drop the source from the corpus view.
	others := make([]types.IssueContent, 0, len(corpus))
	for _, issue := range corpus {
		if issue.ID != source.ID {
			others = append(others, issue)
		}
	}

	var all []Relationship

	if l.config.EnableSemantic {
		edges, err := l.detectSemantic(ctx, source, others)
		if err != nil {
			log.Printf("[LINK] semantic detector failed for %s: %v (continuing)", source.ID, err)
		} else {
			all = append(all, edges...)
		}
	}

	if l.config.EnableDependency {
		// Provider failures are handled inside the detector; it degrades
		// to keyword-stage results rather than erroring.
		all = append(all, l.detectDependencies(ctx, source, others)...)
	}

	if l.config.EnableComponent {
		all = append(all, l.detectComponents(source, others)...)
	}

	return mergeRelationships(all), nil
}

// mergeRelationships deduplicates edges per unordered (source, target)
// pair, retaining the highest-confidence one. Losing detections are
// discarded, not averaged: averaging would obscure which signal actually
// fired.
func mergeRelationships(edges []Relationship) []Relationship {
	best := make(map[string]Relationship)
	var order []string

	for _, edge := range edges {
		key := pairKey(edge.SourceID, edge.TargetID)
		existing, seen := best[key]
		if !seen {
			best[key] = edge
			order = append(order, key)
			continue
		}
		if edge.Confidence > existing.Confidence {
			best[key] = edge
		}
	}

	merged := make([]Relationship, 0, len(best))
	for _, key := range order {
		merged = append(merged, best[key])
	}
	return merged
}

// pairKey builds an order-independent key for an issue pair.
func pairKey(a, b string) string {
	if a < b {
		return a + "\x00" + b
	}
	return b + "\x00" + a
}
