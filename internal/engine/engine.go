// Package engine assembles the issue-intelligence services behind one
// facade. It owns the shared embedding cache, builds the AI providers from
// the environment when credentials exist, and degrades each service to its
// deterministic path when they do not.
package engine

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/glintlock/triage/internal/ai"
	"github.com/glintlock/triage/internal/dedup"
	"github.com/glintlock/triage/internal/embedding"
	"github.com/glintlock/triage/internal/enrich"
	"github.com/glintlock/triage/internal/labels"
	"github.com/glintlock/triage/internal/linking"
	"github.com/glintlock/triage/internal/types"
)

// Config aggregates per-service configuration.
type Config struct {
	Cache   embedding.CacheConfig
	Dedup   dedup.Config
	Linking linking.Config
	Labels  labels.Config
	Enrich  enrich.Config
}

// DefaultConfig returns defaults for every service.
func DefaultConfig() Config {
	return Config{
		Cache:   embedding.DefaultCacheConfig(),
		Dedup:   dedup.DefaultConfig(),
		Linking: linking.DefaultConfig(),
		Labels:  labels.DefaultConfig(),
		Enrich:  enrich.DefaultConfig(),
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back to
// defaults per service.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	cacheCfg, err := embedding.CacheConfigFromEnv()
	if err != nil {
		return cfg, err
	}
	dedupCfg, err := dedup.ConfigFromEnv()
	if err != nil {
		return cfg, err
	}
	linkCfg, err := linking.ConfigFromEnv()
	if err != nil {
		return cfg, err
	}
	labelCfg, err := labels.ConfigFromEnv()
	if err != nil {
		return cfg, err
	}
	enrichCfg, err := enrich.ConfigFromEnv()
	if err != nil {
		return cfg, err
	}

	cfg.Cache = cacheCfg
	cfg.Dedup = dedupCfg
	cfg.Linking = linkCfg
	cfg.Labels = labelCfg
	cfg.Enrich = enrichCfg
	return cfg, nil
}

// Providers holds the AI backends. Either may be nil; nil routes the
// dependent services to their deterministic fallbacks.
type Providers struct {
	Embedder  ai.Embedder
	Generator ai.Generator
}

// ProvidersFromEnv constructs whichever providers have credentials in the
// environment. A missing key disables that provider with a log line rather
// than failing: the services are specified to work without AI.
func ProvidersFromEnv() Providers {
	var p Providers

	if os.Getenv("OPENAI_API_KEY") != "" {
		embedder, err := ai.NewOpenAIEmbedder(ai.EmbedderConfig{})
		if err != nil {
			log.Printf("[AI] embedder unavailable: %v", err)
		} else {
			p.Embedder = embedder
		}
	} else {
		log.Printf("[AI] OPENAI_API_KEY not set, embedding paths disabled")
	}

	if os.Getenv("ANTHROPIC_API_KEY") != "" {
		generator, err := ai.NewAnthropicGenerator(ai.GeneratorConfig{})
		if err != nil {
			log.Printf("[AI] generator unavailable: %v", err)
		} else {
			p.Generator = generator
		}
	} else {
		log.Printf("[AI] ANTHROPIC_API_KEY not set, generation paths disabled")
	}

	return p
}

// Engine is the facade over the four issue-intelligence services. All
// embedding consumers share one cache so a vector computed for duplicate
// detection is reused by the semantic linker.
type Engine struct {
	cache     *embedding.Cache
	detector  *dedup.Detector
	linker    *linking.Linker
	suggester *labels.Suggester
	enricher  *enrich.Enricher
}

// New assembles an engine from providers and configuration.
func New(providers Providers, config Config) (*Engine, error) {
	cache, err := embedding.NewCache(config.Cache)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}

	detector, err := dedup.NewDetector(providers.Embedder, cache, config.Dedup)
	if err != nil {
		return nil, fmt.Errorf("duplicate detector: %w", err)
	}

	linker, err := linking.NewLinker(providers.Embedder, providers.Generator, cache, config.Linking)
	if err != nil {
		return nil, fmt.Errorf("linker: %w", err)
	}

	suggester, err := labels.NewSuggester(providers.Generator, config.Labels)
	if err != nil {
		return nil, fmt.Errorf("label suggester: %w", err)
	}

	enricher, err := enrich.NewEnricher(providers.Generator, config.Enrich)
	if err != nil {
		return nil, fmt.Errorf("enricher: %w", err)
	}

	return &Engine{
		cache:     cache,
		detector:  detector,
		linker:    linker,
		suggester: suggester,
		enricher:  enricher,
	}, nil
}

// Cache exposes the shared embedding cache for snapshot persistence.
func (e *Engine) Cache() *embedding.Cache {
	return e.cache
}

// DetectDuplicates finds likely duplicates of candidate within corpus.
// thresholds optionally overrides the configured embedding-path cut points
// for this call; nil uses the configuration.
func (e *Engine) DetectDuplicates(ctx context.Context, candidate types.IssueContent, corpus []types.IssueContent, thresholds *dedup.Thresholds) (*dedup.Result, error) {
	return e.detector.DetectWithThresholds(ctx, candidate, corpus, thresholds)
}

// FindRelatedIssues finds relationships between source and the corpus.
func (e *Engine) FindRelatedIssues(ctx context.Context, source types.IssueContent, corpus []types.IssueContent) ([]linking.Relationship, error) {
	return e.linker.FindRelated(ctx, source, corpus)
}

// SuggestLabels recommends labels for the issue from the existing catalog.
func (e *Engine) SuggestLabels(ctx context.Context, issue types.IssueContent, existing []types.RepositoryLabel, history []types.IssueContent) (*labels.Result, error) {
	return e.suggester.Suggest(ctx, issue, existing, history)
}

// EnrichIssue restructures the issue into problem, solution, context,
// impact, and acceptance-criteria sections. extraContext is optional
// caller-supplied background for the generation prompt.
func (e *Engine) EnrichIssue(ctx context.Context, issue types.IssueContent, extraContext string) (*enrich.EnrichedIssue, error) {
	return e.enricher.Enrich(ctx, issue, extraContext)
}
