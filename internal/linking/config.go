package linking

import (
	"fmt"

	"github.com/glintlock/triage/internal/envconfig"
)

// Config holds related-issue linking configuration. Each detector can be
// toggled independently; disabling one never affects the others.
type Config struct {
	// EnableSemantic toggles the embedding-similarity detector.
	// Default: true.
	EnableSemantic bool

	// EnableDependency toggles the keyword+AI dependency detector.
	// Default: true.
	EnableDependency bool

	// EnableComponent toggles the label-overlap detector. Default: true.
	EnableComponent bool

	// SemanticThreshold is the minimum cosine similarity for a semantic
	// relationship. Lower than the duplicate-detection bar: related issues
	// share topic, not identity. Default: 0.75.
	SemanticThreshold float64

	// KeywordConfidence is the confidence assigned to a dependency
	// candidate found by the cue-phrase scan, before AI refinement.
	// Default: 0.5.
	KeywordConfidence float64

	// IDMentionBonus is added to KeywordConfidence when one issue's body
	// explicitly references the other's ID. Default: 0.2.
	IDMentionBonus float64

	// MinKeywordOverlap is the minimum keyword Jaccard between two issues
	// for a cue phrase to produce a candidate pair. Cue phrases alone fire
	// on almost every issue; the overlap requirement anchors the pair.
	// Default: 0.15.
	MinKeywordOverlap float64

	// UnrefinedPenalty scales a keyword-stage confidence down when the
	// generation provider is unavailable to refine it. Default: 0.7.
	UnrefinedPenalty float64

	// MinComponentOverlap is the minimum label Jaccard for a component
	// relationship. Default: 0.25.
	MinComponentOverlap float64

	// ComponentScale converts label Jaccard into a confidence value. Label
	// overlap is a weaker signal than semantic similarity, so full overlap
	// maps below 1.0. Default: 0.9.
	ComponentScale float64
}

// DefaultConfig returns the default linking configuration.
func DefaultConfig() Config {
	return Config{
		EnableSemantic:      true,
		EnableDependency:    true,
		EnableComponent:     true,
		SemanticThreshold:   0.75,
		KeywordConfidence:   0.5,
		IDMentionBonus:      0.2,
		MinKeywordOverlap:   0.15,
		UnrefinedPenalty:    0.7,
		MinComponentOverlap: 0.25,
		ComponentScale:      0.9,
	}
}

// Validate checks if the configuration has valid values.
func (c Config) Validate() error {
	if !c.EnableSemantic && !c.EnableDependency && !c.EnableComponent {
		return fmt.Errorf("at least one detector must be enabled")
	}
	for name, v := range map[string]float64{
		"semantic_threshold":    c.SemanticThreshold,
		"keyword_confidence":    c.KeywordConfidence,
		"id_mention_bonus":      c.IDMentionBonus,
		"min_keyword_overlap":   c.MinKeywordOverlap,
		"unrefined_penalty":     c.UnrefinedPenalty,
		"min_component_overlap": c.MinComponentOverlap,
		"component_scale":       c.ComponentScale,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be between 0.0 and 1.0 (got %.2f)", name, v)
		}
	}
	return nil
}

// ConfigFromEnv creates a Config from environment variables, falling back
// to defaults.
//
// Environment variables:
//   - TRIAGE_LINK_SEMANTIC: enable semantic detector (default: true)
//   - TRIAGE_LINK_DEPENDENCY: enable dependency detector (default: true)
//   - TRIAGE_LINK_COMPONENT: enable component detector (default: true)
//   - TRIAGE_LINK_SEMANTIC_THRESHOLD: semantic cosine cut point (default: 0.75)
//   - TRIAGE_LINK_MIN_COMPONENT_OVERLAP: label Jaccard cut point (default: 0.25)
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if err := envconfig.ParseBool("TRIAGE_LINK_SEMANTIC", &cfg.EnableSemantic); err != nil {
		return cfg, err
	}
	if err := envconfig.ParseBool("TRIAGE_LINK_DEPENDENCY", &cfg.EnableDependency); err != nil {
		return cfg, err
	}
	if err := envconfig.ParseBool("TRIAGE_LINK_COMPONENT", &cfg.EnableComponent); err != nil {
		return cfg, err
	}
	if err := envconfig.ParseFloat("TRIAGE_LINK_SEMANTIC_THRESHOLD", &cfg.SemanticThreshold); err != nil {
		return cfg, err
	}
	if err := envconfig.ParseFloat("TRIAGE_LINK_MIN_COMPONENT_OVERLAP", &cfg.MinComponentOverlap); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration from environment: %w", err)
	}
	return cfg, nil
}
