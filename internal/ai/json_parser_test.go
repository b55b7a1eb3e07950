package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type testPayload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TestParseStrategies tests the fallback strategy sequence against the
// formatting quirks models actually produce
func TestParseStrategies(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantSuccess bool
		wantName    string
		wantCount   int
	}{
		{
			name:        "clean JSON",
			input:       `{"name": "auth", "count": 3}`,
			wantSuccess: true,
			wantName:    "auth",
			wantCount:   3,
		},
		{
			name:        "json code fence",
			input:       "```json\n{\"name\": \"auth\", \"count\": 3}\n```",
			wantSuccess: true,
			wantName:    "auth",
			wantCount:   3,
		},
		{
			name:        "bare code fence",
			input:       "```\n{\"name\": \"auth\", \"count\": 3}\n```",
			wantSuccess: true,
			wantName:    "auth",
			wantCount:   3,
		},
		{
			name:        "trailing comma",
			input:       `{"name": "auth", "count": 3,}`,
			wantSuccess: true,
			wantName:    "auth",
			wantCount:   3,
		},
		{
			name:        "unquoted keys",
			input:       `{name: "auth", count: 3}`,
			wantSuccess: true,
			wantName:    "auth",
			wantCount:   3,
		},
		{
			name:        "prose around payload",
			input:       `Here is the result you asked for: {"name": "auth", "count": 3} Let me know if you need anything else.`,
			wantSuccess: true,
			wantName:    "auth",
			wantCount:   3,
		},
		{
			name:        "comments in JSON",
			input:       "{\n  \"name\": \"auth\", // the subsystem\n  \"count\": 3\n}",
			wantSuccess: true,
			wantName:    "auth",
			wantCount:   3,
		},
		{
			name:        "empty input",
			input:       "",
			wantSuccess: false,
		},
		{
			name:        "no JSON at all",
			input:       "I cannot produce a structured answer for this.",
			wantSuccess: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Parse[testPayload](tt.input, "test")
			assert.Equal(t, tt.wantSuccess, result.Success, "error: %s", result.Error)
			if tt.wantSuccess {
				assert.Equal(t, tt.wantName, result.Data.Name)
				assert.Equal(t, tt.wantCount, result.Data.Count)
			} else {
				assert.NotEmpty(t, result.Error)
			}
		})
	}
}

// TestParseArray tests parsing a top-level array payload
func TestParseArray(t *testing.T) {
	result := Parse[[]testPayload]("```json\n[{\"name\": \"a\", \"count\": 1}, {\"name\": \"b\", \"count\": 2}]\n```", "test")
	assert.True(t, result.Success, "error: %s", result.Error)
	assert.Len(t, result.Data, 2)
	assert.Equal(t, "b", result.Data[1].Name)
}

// TestParsePreservesOriginalText tests that failures carry the input for
// error reporting
func TestParsePreservesOriginalText(t *testing.T) {
	input := "not json"
	result := Parse[testPayload](input, "label response")
	assert.False(t, result.Success)
	assert.Equal(t, input, result.OriginalText)
	assert.Contains(t, result.Error, "label response")
}

// TestParseApostrophesSurvive tests that single quotes inside strings are
// not mangled by cleanup
func TestParseApostrophesSurvive(t *testing.T) {
	result := Parse[testPayload](`{"name": "user's session", "count": 1}`, "test")
	assert.True(t, result.Success)
	assert.Equal(t, "user's session", result.Data.Name)
}
