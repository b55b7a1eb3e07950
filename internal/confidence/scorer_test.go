package confidence

import (
	"strings"
	"testing"
)

func TestTierForScore(t *testing.T) {
	cutoffs := DefaultCutoffs()

	tests := []struct {
		score int
		want  Tier
	}{
		{100, TierHigh},
		{80, TierHigh}, // boundary belongs to the higher tier
		{79, TierMedium},
		{50, TierMedium},
		{49, TierLow},
		{0, TierLow},
	}

	for _, tt := range tests {
		if got := cutoffs.TierForScore(tt.score); got != tt.want {
			t.Errorf("TierForScore(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestScoreWeightedAverage(t *testing.T) {
	// 0.9*2 + 0.6*1 over weight 3 = 0.8 -> score 80, high tier.
	result := Score(
		map[string]float64{"self_assessment": 0.9, "completeness": 0.6},
		map[string]float64{"self_assessment": 2, "completeness": 1},
		DefaultCutoffs(),
	)

	if result.Score != 80 {
		t.Errorf("Score = %d, want 80", result.Score)
	}
	if result.Tier != TierHigh {
		t.Errorf("Tier = %s, want high", result.Tier)
	}
	if result.NeedsReview {
		t.Error("high score with healthy factors should not need review")
	}
}

func TestScoreFlagsWeakFactor(t *testing.T) {
	// One factor below the review floor flags the result even when the
	// aggregate lands in a comfortable tier.
	result := Score(
		map[string]float64{"strong": 1.0, "weak": 0.2},
		map[string]float64{"strong": 9, "weak": 1},
		DefaultCutoffs(),
	)

	if result.Tier != TierHigh {
		t.Fatalf("Tier = %s, want high (score %d)", result.Tier, result.Score)
	}
	if !result.NeedsReview {
		t.Error("factor below review floor should flag the result")
	}
}

func TestScoreReasoningDeterministic(t *testing.T) {
	factors := map[string]float64{"b_factor": 0.5, "a_factor": 0.7}
	weights := map[string]float64{"b_factor": 1, "a_factor": 1}

	first := Score(factors, weights, DefaultCutoffs())
	second := Score(factors, weights, DefaultCutoffs())

	if first.Reasoning != second.Reasoning {
		t.Error("identical inputs should produce identical reasoning")
	}
	if strings.Index(first.Reasoning, "a_factor") > strings.Index(first.Reasoning, "b_factor") {
		t.Errorf("factors should be listed in name order: %q", first.Reasoning)
	}
}

func TestScoreDoesNotAliasInput(t *testing.T) {
	factors := map[string]float64{"x": 0.5}
	result := Score(factors, map[string]float64{"x": 1}, DefaultCutoffs())

	factors["x"] = 0.99
	if result.Factors["x"] != 0.5 {
		t.Error("result factors should be a snapshot, not an alias")
	}
}

func TestScorePanicsOnContractViolations(t *testing.T) {
	tests := []struct {
		name    string
		factors map[string]float64
		weights map[string]float64
	}{
		{name: "no factors", factors: map[string]float64{}, weights: map[string]float64{}},
		{name: "missing weight", factors: map[string]float64{"x": 0.5}, weights: map[string]float64{}},
		{name: "factor out of range", factors: map[string]float64{"x": 1.5}, weights: map[string]float64{"x": 1}},
		{name: "negative weight", factors: map[string]float64{"x": 0.5}, weights: map[string]float64{"x": -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			Score(tt.factors, tt.weights, DefaultCutoffs())
		})
	}
}

func TestFixed(t *testing.T) {
	result := Fixed(40, "fallback path", DefaultCutoffs())

	if result.Score != 40 {
		t.Errorf("Score = %d, want 40", result.Score)
	}
	if result.Tier != TierLow {
		t.Errorf("Tier = %s, want low", result.Tier)
	}
	if !result.NeedsReview {
		t.Error("low-tier fixed score should need review")
	}
	if result.Reasoning != "fallback path" {
		t.Errorf("Reasoning = %q", result.Reasoning)
	}

	high := Fixed(90, "trusted", DefaultCutoffs())
	if high.NeedsReview {
		t.Error("high-tier fixed score should not need review")
	}
}
