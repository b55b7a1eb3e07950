package enrich

import (
	"fmt"

	"github.com/glintlock/triage/internal/envconfig"
)

// Config holds issue enrichment configuration.
type Config struct {
	// SubstantialBodyChars is the body length above which the original
	// text is preserved and generated sections are additive. Below it the
	// content is fully restructured. A deliberate simple heuristic, not a
	// learned decision. Default: 200.
	SubstantialBodyChars int

	// FallbackScore is the fixed confidence score for fallback results.
	// Default: 40 (low tier, always flagged for review).
	FallbackScore int

	// CompletenessTargetChars is the body length at which the
	// input-completeness factor saturates at 1.0. Default: 400.
	CompletenessTargetChars int

	// Weights for mapping the model's self-assessment and input
	// completeness into section confidence.
	SelfAssessmentWeight float64
	CompletenessWeight   float64
	CertaintyWeight      float64
}

// DefaultConfig returns the default enrichment configuration.
func DefaultConfig() Config {
	return Config{
		SubstantialBodyChars:    200,
		FallbackScore:           40,
		CompletenessTargetChars: 400,
		SelfAssessmentWeight:    0.5,
		CompletenessWeight:      0.3,
		CertaintyWeight:         0.2,
	}
}

// Validate checks if the configuration has valid values.
func (c Config) Validate() error {
	if c.SubstantialBodyChars < 0 {
		return fmt.Errorf("substantial_body_chars cannot be negative (got %d)", c.SubstantialBodyChars)
	}
	if c.FallbackScore < 0 || c.FallbackScore > 100 {
		return fmt.Errorf("fallback_score must be between 0 and 100 (got %d)", c.FallbackScore)
	}
	if c.CompletenessTargetChars <= 0 {
		return fmt.Errorf("completeness_target_chars must be positive (got %d)", c.CompletenessTargetChars)
	}
	if c.SelfAssessmentWeight < 0 || c.CompletenessWeight < 0 || c.CertaintyWeight < 0 {
		return fmt.Errorf("weights cannot be negative")
	}
	if c.SelfAssessmentWeight+c.CompletenessWeight+c.CertaintyWeight == 0 {
		return fmt.Errorf("weights cannot all be zero")
	}
	return nil
}

// ConfigFromEnv creates a Config from environment variables, falling back
// to defaults.
//
// Environment variables:
//   - TRIAGE_ENRICH_SUBSTANTIAL_CHARS: preserve-original threshold (default: 200)
//   - TRIAGE_ENRICH_FALLBACK_SCORE: fallback confidence score (default: 40)
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if err := envconfig.ParseInt("TRIAGE_ENRICH_SUBSTANTIAL_CHARS", &cfg.SubstantialBodyChars); err != nil {
		return cfg, err
	}
	if err := envconfig.ParseInt("TRIAGE_ENRICH_FALLBACK_SCORE", &cfg.FallbackScore); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration from environment: %w", err)
	}
	return cfg, nil
}
