package dedup

import (
	"fmt"

	"github.com/glintlock/triage/internal/envconfig"
)

// Thresholds are the similarity cut points that partition candidates into
// confidence tiers. Candidates below Medium carry no signal value and are
// omitted from results entirely.
type Thresholds struct {
	High   float64
	Medium float64
}

// Validate checks threshold ordering and range.
func (t Thresholds) Validate() error {
	if t.High < 0 || t.High > 1 {
		return fmt.Errorf("high threshold must be between 0.0 and 1.0 (got %.2f)", t.High)
	}
	if t.Medium < 0 || t.Medium > 1 {
		return fmt.Errorf("medium threshold must be between 0.0 and 1.0 (got %.2f)", t.Medium)
	}
	if t.Medium > t.High {
		return fmt.Errorf("medium threshold (%.2f) cannot exceed high threshold (%.2f)", t.Medium, t.High)
	}
	return nil
}

// Config holds duplicate detection configuration.
type Config struct {
	// Embedding holds the tier cut points for the embedding path. The high
	// bar is deliberately conservative: a false positive in automatic
	// duplicate linking costs far more than a false negative in a review
	// queue. Defaults: {0.92, 0.75}.
	Embedding Thresholds

	// Fallback holds the cut points for the keyword path. Jaccard overlap
	// runs lower than cosine similarity for the same semantic closeness,
	// so both bars drop. Defaults: {0.8, 0.6}.
	Fallback Thresholds
}

// DefaultConfig returns the default detection thresholds.
func DefaultConfig() Config {
	return Config{
		Embedding: Thresholds{High: 0.92, Medium: 0.75},
		Fallback:  Thresholds{High: 0.8, Medium: 0.6},
	}
}

// Validate checks if the configuration has valid values.
func (c Config) Validate() error {
	if err := c.Embedding.Validate(); err != nil {
		return fmt.Errorf("embedding thresholds: %w", err)
	}
	if err := c.Fallback.Validate(); err != nil {
		return fmt.Errorf("fallback thresholds: %w", err)
	}
	return nil
}

// ConfigFromEnv creates a Config from environment variables, falling back
// to defaults.
//
// Environment variables:
//   - TRIAGE_DEDUP_HIGH_THRESHOLD: embedding-path high cut point (default: 0.92)
//   - TRIAGE_DEDUP_MEDIUM_THRESHOLD: embedding-path medium cut point (default: 0.75)
//   - TRIAGE_DEDUP_FALLBACK_HIGH_THRESHOLD: keyword-path high cut point (default: 0.8)
//   - TRIAGE_DEDUP_FALLBACK_MEDIUM_THRESHOLD: keyword-path medium cut point (default: 0.6)
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if err := envconfig.ParseFloat("TRIAGE_DEDUP_HIGH_THRESHOLD", &cfg.Embedding.High); err != nil {
		return cfg, err
	}
	if err := envconfig.ParseFloat("TRIAGE_DEDUP_MEDIUM_THRESHOLD", &cfg.Embedding.Medium); err != nil {
		return cfg, err
	}
	if err := envconfig.ParseFloat("TRIAGE_DEDUP_FALLBACK_HIGH_THRESHOLD", &cfg.Fallback.High); err != nil {
		return cfg, err
	}
	if err := envconfig.ParseFloat("TRIAGE_DEDUP_FALLBACK_MEDIUM_THRESHOLD", &cfg.Fallback.Medium); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration from environment: %w", err)
	}
	return cfg, nil
}
