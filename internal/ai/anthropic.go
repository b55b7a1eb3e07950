package ai

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Model constants for the tiered model strategy: the default model handles
// reasoning-heavy generation (enrichment, label analysis), the simple-task
// model handles cheap classification (dependency subtypes).
//
// Environment variable overrides:
//   - TRIAGE_MODEL_DEFAULT: Override default model
//   - TRIAGE_MODEL_SIMPLE: Override model for simple tasks
const (
	// ModelSonnet is the high-end model for complex reasoning tasks
	ModelSonnet = "claude-sonnet-4-5-20250929"

	// ModelHaiku is the cost-efficient model for simple tasks
	ModelHaiku = "claude-3-5-haiku-20241022"
)

// GetDefaultModel returns the default model, checking TRIAGE_MODEL_DEFAULT first.
func GetDefaultModel() string {
	if model := os.Getenv("TRIAGE_MODEL_DEFAULT"); model != "" {
		return model
	}
	return ModelSonnet
}

// GetSimpleTaskModel returns the model for simple tasks, checking TRIAGE_MODEL_SIMPLE first.
func GetSimpleTaskModel() string {
	if model := os.Getenv("TRIAGE_MODEL_SIMPLE"); model != "" {
		return model
	}
	return ModelHaiku
}

// AnthropicGenerator implements Generator using the Anthropic Messages API.
type AnthropicGenerator struct {
	client *anthropic.Client
	model  string
	caller *Caller
}

// Compile-time check that AnthropicGenerator implements Generator
var _ Generator = (*AnthropicGenerator)(nil)

// GeneratorConfig holds Anthropic generator configuration.
type GeneratorConfig struct {
	APIKey string      // Anthropic API key (if empty, reads ANTHROPIC_API_KEY)
	Model  string      // Model to use (default: GetDefaultModel())
	Retry  RetryConfig // Resilience policy (defaults if zero)
}

// NewAnthropicGenerator creates a Generator backed by the Anthropic API.
func NewAnthropicGenerator(cfg GeneratorConfig) (*AnthropicGenerator, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
		}
	}

	model := cfg.Model
	if model == "" {
		model = GetDefaultModel()
	}

	retry := cfg.Retry
	if retry.MaxRetries == 0 {
		retry = DefaultRetryConfig()
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	return &AnthropicGenerator{
		client: &client,
		model:  model,
		caller: NewCaller(retry),
	}, nil
}

// GenerateStructured sends a system+user prompt pair and returns the raw
// model text. Callers are expected to parse it with Parse[T].
func (g *AnthropicGenerator) GenerateStructured(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	startTime := time.Now()

	if maxTokens == 0 {
		maxTokens = 4096
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemPrompt}}
	}

	var response *anthropic.Message
	err := g.caller.Call(ctx, "generate_structured", func(attemptCtx context.Context) error {
		resp, apiErr := g.client.Messages.New(attemptCtx, params)
		if apiErr != nil {
			return apiErr
		}
		response = resp
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API call failed: %w", err)
	}

	var responseText string
	for _, block := range response.Content {
		if block.Type == "text" {
			responseText += block.Text
		}
	}

	log.Printf("[AI] generate_structured: input=%d tokens, output=%d tokens, duration=%v",
		response.Usage.InputTokens, response.Usage.OutputTokens, time.Since(startTime))

	return responseText, nil
}
