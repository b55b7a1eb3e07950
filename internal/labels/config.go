package labels

import (
	"fmt"

	"github.com/glintlock/triage/internal/envconfig"
)

// Config holds label suggestion configuration.
type Config struct {
	// HighThreshold and MediumThreshold are the confidence cut points for
	// tier grouping. Defaults: 0.8 / 0.5.
	HighThreshold   float64
	MediumThreshold float64

	// FallbackConfidenceCap bounds fallback-path confidence regardless of
	// match strength, so a keyword match can never outrank a genuine
	// high-confidence AI suggestion. Default: 0.8.
	FallbackConfidenceCap float64

	// MaxHistorySamples is how many historically labeled issues are
	// included in the prompt as a weak learning signal. Default: 10.
	MaxHistorySamples int
}

// DefaultConfig returns the default label suggestion configuration.
func DefaultConfig() Config {
	return Config{
		HighThreshold:         0.8,
		MediumThreshold:       0.5,
		FallbackConfidenceCap: 0.8,
		MaxHistorySamples:     10,
	}
}

// Validate checks if the configuration has valid values.
func (c Config) Validate() error {
	if c.HighThreshold < 0 || c.HighThreshold > 1 {
		return fmt.Errorf("high_threshold must be between 0.0 and 1.0 (got %.2f)", c.HighThreshold)
	}
	if c.MediumThreshold < 0 || c.MediumThreshold > 1 {
		return fmt.Errorf("medium_threshold must be between 0.0 and 1.0 (got %.2f)", c.MediumThreshold)
	}
	if c.MediumThreshold > c.HighThreshold {
		return fmt.Errorf("medium_threshold (%.2f) cannot exceed high_threshold (%.2f)",
			c.MediumThreshold, c.HighThreshold)
	}
	if c.FallbackConfidenceCap < 0 || c.FallbackConfidenceCap > 1 {
		return fmt.Errorf("fallback_confidence_cap must be between 0.0 and 1.0 (got %.2f)", c.FallbackConfidenceCap)
	}
	if c.MaxHistorySamples < 0 {
		return fmt.Errorf("max_history_samples cannot be negative (got %d)", c.MaxHistorySamples)
	}
	return nil
}

// ConfigFromEnv creates a Config from environment variables, falling back
// to defaults.
//
// Environment variables:
//   - TRIAGE_LABELS_HIGH_THRESHOLD: high tier cut point (default: 0.8)
//   - TRIAGE_LABELS_MEDIUM_THRESHOLD: medium tier cut point (default: 0.5)
//   - TRIAGE_LABELS_FALLBACK_CAP: fallback confidence cap (default: 0.8)
//   - TRIAGE_LABELS_MAX_HISTORY: history samples in prompt (default: 10)
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if err := envconfig.ParseFloat("TRIAGE_LABELS_HIGH_THRESHOLD", &cfg.HighThreshold); err != nil {
		return cfg, err
	}
	if err := envconfig.ParseFloat("TRIAGE_LABELS_MEDIUM_THRESHOLD", &cfg.MediumThreshold); err != nil {
		return cfg, err
	}
	if err := envconfig.ParseFloat("TRIAGE_LABELS_FALLBACK_CAP", &cfg.FallbackConfidenceCap); err != nil {
		return cfg, err
	}
	if err := envconfig.ParseInt("TRIAGE_LABELS_MAX_HISTORY", &cfg.MaxHistorySamples); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration from environment: %w", err)
	}
	return cfg, nil
}
