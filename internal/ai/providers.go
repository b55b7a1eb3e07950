// Package ai provides the external provider surface for the
// issue-intelligence engine: the Embedder and Generator interfaces the
// services consume, concrete Anthropic/OpenAI implementations, the
// resilience wrapper around outbound calls, and resilient parsing of model
// JSON output.
//
// A nil provider means "not configured". Services check availability once at
// the top of each operation and route to their deterministic fallback; they
// never surface provider absence or failure as an error.
package ai

import (
	"context"
	"math"
)

// Embedder turns text into fixed-length numeric vectors.
type Embedder interface {
	// Embed returns the embedding vector for a single text.
	Embed(ctx context.Context, text string) ([]float64, error)

	// EmbedBatch returns one vector per input text, order-preserving and
	// the same length as the input. Corpus embedding goes through this to
	// bound concurrency against the provider.
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// Generator produces structured output from a prompt pair. The returned
// string is the raw model text; callers parse it with Parse[T], which
// tolerates the usual LLM formatting quirks.
type Generator interface {
	GenerateStructured(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error)
}

// CosineSimilarity computes the cosine of the angle between two vectors,
// in [-1, 1]. Mismatched or empty vectors score 0: that happens only when a
// provider misbehaves, and a zero score keeps the pair out of every tier.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
