package enrich

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/glintlock/triage/internal/confidence"
	"github.com/glintlock/triage/internal/types"
)

// stubGenerator returns canned text, or an error, and captures the prompt.
type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubGenerator) GenerateStructured(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	s.lastPrompt = userPrompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

const fullResponse = `{
	"problem": {"content": "Login fails on mobile Safari.", "confidence": 0.9},
	"solution": {"content": "Handle the cookie SameSite attribute.", "confidence": 0.7},
	"context": {"content": "Reported by three users since the last release.", "confidence": 0.8},
	"impact": {"content": "Mobile users cannot sign in.", "confidence": 0.85},
	"acceptance_criteria": {"content": "Login succeeds on iOS Safari 17.", "confidence": 0.75},
	"suggested_labels": ["bug", "mobile"],
	"uncertain_areas": []
}`

func newTestEnricher(t *testing.T, generator *stubGenerator) *Enricher {
	t.Helper()
	var enricher *Enricher
	var err error
	if generator == nil {
		enricher, err = NewEnricher(nil, DefaultConfig())
	} else {
		enricher, err = NewEnricher(generator, DefaultConfig())
	}
	if err != nil {
		t.Fatal(err)
	}
	return enricher
}

func TestEnrichShortBodyRestructures(t *testing.T) {
	generator := &stubGenerator{response: fullResponse}
	enricher := newTestEnricher(t, generator)

	issue := types.IssueContent{ID: "iss-1", Title: "Login broken", Body: "fix it"}
	result, err := enricher.Enrich(context.Background(), issue, "")
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}

	if result.PreserveOriginal {
		t.Error("a terse body should be fully restructured")
	}
	if len(result.Sections()) != 5 {
		t.Errorf("got %d sections, want all five", len(result.Sections()))
	}
	if result.Problem == nil || result.Problem.Content != "Login fails on mobile Safari." {
		t.Errorf("Problem = %+v", result.Problem)
	}
	if len(result.SuggestedLabels) != 2 {
		t.Errorf("SuggestedLabels = %v", result.SuggestedLabels)
	}
	if !strings.Contains(generator.lastPrompt, "terse") {
		t.Error("prompt should instruct full restructuring for short bodies")
	}
}

func TestEnrichSubstantialBodyPreserved(t *testing.T) {
	generator := &stubGenerator{response: fullResponse}
	enricher := newTestEnricher(t, generator)

	body := strings.Repeat("A detailed paragraph about the failure mode. ", 10) // ~450 chars
	issue := types.IssueContent{ID: "iss-1", Title: "Login broken", Body: body}

	result, err := enricher.Enrich(context.Background(), issue, "")
	if err != nil {
		t.Fatal(err)
	}

	if !result.PreserveOriginal {
		t.Error("a substantial body should be preserved")
	}
	if !strings.Contains(generator.lastPrompt, "ADDITIVE") {
		t.Error("prompt should instruct additive sections for substantial bodies")
	}
}

func TestEnrichCallerContextReachesPrompt(t *testing.T) {
	generator := &stubGenerator{response: fullResponse}
	enricher := newTestEnricher(t, generator)

	issue := types.IssueContent{ID: "iss-1", Title: "Login broken", Body: "fix it"}
	background := "Regression started after the 2.3 release."

	if _, err := enricher.Enrich(context.Background(), issue, background); err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if !strings.Contains(generator.lastPrompt, background) {
		t.Error("caller-supplied context should reach the prompt")
	}

	if _, err := enricher.Enrich(context.Background(), issue, ""); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(generator.lastPrompt, "ADDITIONAL CONTEXT") {
		t.Error("empty context should add nothing to the prompt")
	}
}

func TestEnrichSectionConfidence(t *testing.T) {
	generator := &stubGenerator{response: `{
		"problem": {"content": "Clear problem.", "confidence": 1.0},
		"solution": {"content": "Guessed solution.", "confidence": 1.0},
		"uncertain_areas": ["solution"]
	}`}
	enricher := newTestEnricher(t, generator)

	body := strings.Repeat("context ", 60) // saturates input completeness
	issue := types.IssueContent{ID: "iss-1", Title: "Something", Body: body}

	result, err := enricher.Enrich(context.Background(), issue, "")
	if err != nil {
		t.Fatal(err)
	}

	if result.Problem == nil || result.Solution == nil {
		t.Fatalf("sections missing: %+v", result)
	}
	if result.Problem.Confidence.Score <= result.Solution.Confidence.Score {
		t.Errorf("uncertain section should score lower: problem=%d solution=%d",
			result.Problem.Confidence.Score, result.Solution.Confidence.Score)
	}
	// Sections absent from the response stay nil.
	if result.Impact != nil || result.Context != nil || result.AcceptanceCriteria != nil {
		t.Error("unreturned sections should be nil")
	}
}

func TestEnrichEmptySectionContentOmitted(t *testing.T) {
	generator := &stubGenerator{response: `{
		"problem": {"content": "Real content.", "confidence": 0.8},
		"solution": {"content": "   ", "confidence": 0.8}
	}`}
	enricher := newTestEnricher(t, generator)

	result, err := enricher.Enrich(context.Background(), types.IssueContent{ID: "iss-1", Title: "Something", Body: "short"}, "")
	if err != nil {
		t.Fatal(err)
	}
	if result.Solution != nil {
		t.Errorf("whitespace-only content should become a nil section: %+v", result.Solution)
	}
	if result.Problem == nil {
		t.Error("non-empty section should survive")
	}
}

func TestEnrichFallbackWithoutGenerator(t *testing.T) {
	enricher := newTestEnricher(t, nil)

	issue := types.IssueContent{ID: "iss-1", Title: "Login broken", Body: "It crashes on submit."}
	result, err := enricher.Enrich(context.Background(), issue, "")
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}

	if result.Problem == nil || result.Problem.Content != issue.Body {
		t.Errorf("fallback should pass the body through as the problem: %+v", result.Problem)
	}
	if result.Solution != nil || result.Context != nil || result.Impact != nil || result.AcceptanceCriteria != nil {
		t.Error("fallback generates no other sections")
	}
	if result.OverallConfidence.Score != DefaultConfig().FallbackScore {
		t.Errorf("Score = %d, want the fixed fallback score", result.OverallConfidence.Score)
	}
	if result.OverallConfidence.Tier != confidence.TierLow {
		t.Errorf("Tier = %s, want low", result.OverallConfidence.Tier)
	}
	if !result.OverallConfidence.NeedsReview {
		t.Error("fallback output is always flagged for review")
	}
}

func TestEnrichFallbackOnGeneratorError(t *testing.T) {
	generator := &stubGenerator{err: fmt.Errorf("provider down")}
	enricher := newTestEnricher(t, generator)

	result, err := enricher.Enrich(context.Background(), types.IssueContent{ID: "iss-1", Title: "Broken", Body: "details"}, "")
	if err != nil {
		t.Fatalf("provider failure must not surface as an error: %v", err)
	}
	if result.Problem == nil || result.Problem.Content != "details" {
		t.Errorf("fallback should preserve the original content: %+v", result.Problem)
	}
}

func TestEnrichFallbackTitleOnly(t *testing.T) {
	enricher := newTestEnricher(t, nil)

	result, err := enricher.Enrich(context.Background(), types.IssueContent{ID: "iss-1", Title: "Only a title"}, "")
	if err != nil {
		t.Fatal(err)
	}
	if result.Problem == nil || result.Problem.Content != "Only a title" {
		t.Errorf("title should stand in for an empty body: %+v", result.Problem)
	}
}

func TestEnrichInvalidIssue(t *testing.T) {
	enricher := newTestEnricher(t, nil)
	if _, err := enricher.Enrich(context.Background(), types.IssueContent{}, ""); err == nil {
		t.Error("invalid issue should error")
	}
}
