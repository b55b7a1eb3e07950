package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCosineSimilarity tests the similarity computation and its degenerate
// inputs
func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a        []float64
		b        []float64
		expected float64
	}{
		{name: "identical vectors", a: []float64{1, 2, 3}, b: []float64{1, 2, 3}, expected: 1.0},
		{name: "opposite vectors", a: []float64{1, 0}, b: []float64{-1, 0}, expected: -1.0},
		{name: "orthogonal vectors", a: []float64{1, 0}, b: []float64{0, 1}, expected: 0.0},
		{name: "scaled vectors still parallel", a: []float64{1, 1}, b: []float64{5, 5}, expected: 1.0},
		{name: "empty vectors", a: []float64{}, b: []float64{}, expected: 0.0},
		{name: "length mismatch", a: []float64{1, 2}, b: []float64{1, 2, 3}, expected: 0.0},
		{name: "zero vector", a: []float64{0, 0}, b: []float64{1, 2}, expected: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, CosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}
