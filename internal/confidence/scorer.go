// Package confidence computes normalized confidence scores for the
// issue-intelligence services. Scoring is pure computation: weighted factors
// in, a 0-100 score plus tier and reasoning out. No I/O, no side effects.
package confidence

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Tier discretizes a continuous score into a caller-facing action bucket.
type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

// Cut points for tier assignment on the 0-100 scale. Every call site that
// tiers a score goes through TierForScore so these stay consistent.
const (
	DefaultHighCutoff   = 80
	DefaultMediumCutoff = 50
)

// ReviewFactorFloor is the per-factor value below which a result is flagged
// for human review regardless of the aggregate score.
const ReviewFactorFloor = 0.3

// SectionConfidence is one confidence judgment: an integer score, its tier,
// the named sub-scores that produced it, and a human-readable reasoning
// string.
type SectionConfidence struct {
	Score       int                `json:"score"`
	Tier        Tier               `json:"tier"`
	Factors     map[string]float64 `json:"factors"`
	Reasoning   string             `json:"reasoning"`
	NeedsReview bool               `json:"needs_review"`
}

// Cutoffs holds the tier boundaries on the 0-100 scale. Overridable so the
// surrounding system can tune review policy without touching call sites.
type Cutoffs struct {
	High   int
	Medium int
}

// DefaultCutoffs returns the standard 80/50 tier boundaries.
func DefaultCutoffs() Cutoffs {
	return Cutoffs{High: DefaultHighCutoff, Medium: DefaultMediumCutoff}
}

// TierForScore maps a 0-100 score to its tier.
func (c Cutoffs) TierForScore(score int) Tier {
	switch {
	case score >= c.High:
		return TierHigh
	case score >= c.Medium:
		return TierMedium
	default:
		return TierLow
	}
}

// Score computes a SectionConfidence from named factors and a weighting
// scheme. Every factor must be in [0,1] and must have a weight; a missing
// weight is a programmer error and panics. Weights are normalized, so they
// need not sum to 1.
func Score(factors map[string]float64, weights map[string]float64, cutoffs Cutoffs) SectionConfidence {
	if len(factors) == 0 {
		panic("confidence: no factors supplied")
	}

	var weightedSum, totalWeight float64
	for name, value := range factors {
		if value < 0 || value > 1 {
			panic(fmt.Sprintf("confidence: factor %q out of range: %v", name, value))
		}
		weight, ok := weights[name]
		if !ok {
			panic(fmt.Sprintf("confidence: no weight for factor %q", name))
		}
		if weight < 0 {
			panic(fmt.Sprintf("confidence: negative weight for factor %q", name))
		}
		weightedSum += value * weight
		totalWeight += weight
	}
	if totalWeight == 0 {
		panic("confidence: weights sum to zero")
	}

	score := int(math.Round(weightedSum / totalWeight * 100))
	tier := cutoffs.TierForScore(score)

	needsReview := tier == TierLow
	for _, value := range factors {
		if value < ReviewFactorFloor {
			needsReview = true
			break
		}
	}

	// Copy factors so callers can't mutate the result through the input map.
	snapshot := make(map[string]float64, len(factors))
	for name, value := range factors {
		snapshot[name] = value
	}

	return SectionConfidence{
		Score:       score,
		Tier:        tier,
		Factors:     snapshot,
		Reasoning:   buildReasoning(snapshot, score, tier),
		NeedsReview: needsReview,
	}
}

// Fixed returns a SectionConfidence with a preset score and reasoning,
// used by fallback paths that have no factors to weigh.
func Fixed(score int, reasoning string, cutoffs Cutoffs) SectionConfidence {
	if score < 0 || score > 100 {
		panic(fmt.Sprintf("confidence: fixed score out of range: %d", score))
	}
	tier := cutoffs.TierForScore(score)
	return SectionConfidence{
		Score:       score,
		Tier:        tier,
		Factors:     map[string]float64{},
		Reasoning:   reasoning,
		NeedsReview: tier == TierLow,
	}
}

// buildReasoning renders a deterministic summary of the factor breakdown.
// Factors are listed in name order so identical inputs produce identical
// reasoning strings.
func buildReasoning(factors map[string]float64, score int, tier Tier) string {
	names := make([]string, 0, len(factors))
	for name := range factors {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(factors))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%.2f", name, factors[name]))
	}
	return fmt.Sprintf("score %d (%s) from %s", score, tier, strings.Join(parts, ", "))
}
