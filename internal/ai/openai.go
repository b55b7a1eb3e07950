package ai

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultEmbeddingModel balances quality against cost for issue-sized texts.
const DefaultEmbeddingModel = openai.EmbeddingModelTextEmbedding3Small

// OpenAIEmbedder implements Embedder using the OpenAI Embeddings API.
type OpenAIEmbedder struct {
	client openai.Client
	model  openai.EmbeddingModel
	caller *Caller
}

// Compile-time check that OpenAIEmbedder implements Embedder
var _ Embedder = (*OpenAIEmbedder)(nil)

// EmbedderConfig holds OpenAI embedder configuration.
type EmbedderConfig struct {
	APIKey  string      // OpenAI API key (if empty, reads OPENAI_API_KEY)
	BaseURL string      // Optional API base URL override
	Model   string      // Embedding model (default: text-embedding-3-small)
	Retry   RetryConfig // Resilience policy (defaults if zero)
}

// NewOpenAIEmbedder creates an Embedder backed by the OpenAI API.
func NewOpenAIEmbedder(cfg EmbedderConfig) (*OpenAIEmbedder, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY not set")
		}
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := DefaultEmbeddingModel
	if cfg.Model != "" {
		model = openai.EmbeddingModel(cfg.Model)
	}

	retry := cfg.Retry
	if retry.MaxRetries == 0 {
		retry = DefaultRetryConfig()
	}

	return &OpenAIEmbedder{
		client: openai.NewClient(opts...),
		model:  model,
		caller: NewCaller(retry),
	}, nil
}

// Embed returns the embedding vector for a single text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch embeds all texts in a single API request. The response is
// order-preserving and the same length as the input.
func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	startTime := time.Now()

	var response *openai.CreateEmbeddingResponse
	err := e.caller.Call(ctx, "embed_batch", func(attemptCtx context.Context) error {
		resp, apiErr := e.client.Embeddings.New(attemptCtx, openai.EmbeddingNewParams{
			Model: e.model,
			Input: openai.EmbeddingNewParamsInputUnion{
				OfArrayOfStrings: texts,
			},
		})
		if apiErr != nil {
			return apiErr
		}
		response = resp
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings call failed: %w", err)
	}

	if len(response.Data) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: got %d, expected %d",
			len(response.Data), len(texts))
	}

	// The API may return data out of order; Index restores input order.
	vectors := make([][]float64, len(texts))
	for _, item := range response.Data {
		if item.Index < 0 || int(item.Index) >= len(texts) {
			return nil, fmt.Errorf("embedding index out of range: %d", item.Index)
		}
		vectors[item.Index] = item.Embedding
	}
	for i, vec := range vectors {
		if vec == nil {
			return nil, fmt.Errorf("no embedding returned for input %d", i)
		}
	}

	log.Printf("[AI] embed_batch: %d texts, %d tokens, duration=%v",
		len(texts), response.Usage.TotalTokens, time.Since(startTime))

	return vectors, nil
}
