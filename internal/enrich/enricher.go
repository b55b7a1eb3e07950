// Package enrich restructures sparse issue reports into well-formed issues
// with problem statement, proposed solution, context, impact, and acceptance
// criteria sections. Substantial original bodies are preserved and the
// generated sections are additive; short bodies are fully restructured.
// When the generation provider is absent or fails, the original content
// passes through untouched with a fixed low confidence.
package enrich

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/glintlock/triage/internal/ai"
	"github.com/glintlock/triage/internal/confidence"
	"github.com/glintlock/triage/internal/types"
)

// EnrichedSection is one generated section with its own confidence
// judgment, so callers can accept strong sections and review weak ones
// independently.
type EnrichedSection struct {
	Content    string                       `json:"content"`
	Confidence confidence.SectionConfidence `json:"confidence"`
}

// EnrichedIssue is the full output of one enrichment call. Sections are
// nil when the model produced nothing for them; an absent section and a
// failed section are indistinguishable by design, only the confidence
// tells them apart.
type EnrichedIssue struct {
	IssueID          string `json:"issue_id"`
	PreserveOriginal bool   `json:"preserve_original"`

	Problem            *EnrichedSection `json:"problem,omitempty"`
	Solution           *EnrichedSection `json:"solution,omitempty"`
	Context            *EnrichedSection `json:"context,omitempty"`
	Impact             *EnrichedSection `json:"impact,omitempty"`
	AcceptanceCriteria *EnrichedSection `json:"acceptance_criteria,omitempty"`

	SuggestedLabels   []string                     `json:"suggested_labels"`
	OverallConfidence confidence.SectionConfidence `json:"overall_confidence"`
}

// Sections returns the non-nil sections keyed by name, for rendering.
func (e *EnrichedIssue) Sections() map[string]*EnrichedSection {
	out := make(map[string]*EnrichedSection, 5)
	for name, section := range map[string]*EnrichedSection{
		"problem":             e.Problem,
		"solution":            e.Solution,
		"context":             e.Context,
		"impact":              e.Impact,
		"acceptance_criteria": e.AcceptanceCriteria,
	} {
		if section != nil {
			out[name] = section
		}
	}
	return out
}

// Enricher restructures issue content.
type Enricher struct {
	generator ai.Generator
	config    Config
	cutoffs   confidence.Cutoffs
}

// NewEnricher creates an issue enricher. The generator may be nil, in
// which case every call takes the pass-through fallback path.
func NewEnricher(generator ai.Generator, config Config) (*Enricher, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Enricher{
		generator: generator,
		config:    config,
		cutoffs:   confidence.DefaultCutoffs(),
	}, nil
}

// Enrich restructures the issue. Bodies longer than the substantial
// threshold keep their original text and get additive sections; shorter
// bodies are fully rewritten into the five-section structure. extraContext
// is optional caller-supplied background; when non-empty it is handed to
// the model alongside the issue text. The fallback path has no use for it.
//
// Provider absence or failure routes to the fallback silently; only input
// errors propagate.
func (e *Enricher) Enrich(ctx context.Context, issue types.IssueContent, extraContext string) (*EnrichedIssue, error) {
	if err := issue.Validate(); err != nil {
		return nil, fmt.Errorf("invalid issue: %w", err)
	}

	preserve := len(issue.Body) > e.config.SubstantialBodyChars

	if e.generator == nil {
		return e.enrichFallback(issue, preserve), nil
	}

	result, err := e.enrichByAI(ctx, issue, extraContext, preserve)
	if err != nil {
		log.Printf("[ENRICH] AI path failed for %s: %v (passing original through)", issue.ID, err)
		return e.enrichFallback(issue, preserve), nil
	}
	return result, nil
}

// aiSection mirrors one section in the generation response.
type aiSection struct {
	Content    string  `json:"content"`
	Confidence float64 `json:"confidence"` // model self-assessment, 0.0-1.0
}

type aiEnrichResponse struct {
	Problem            *aiSection `json:"problem"`
	Solution           *aiSection `json:"solution"`
	Context            *aiSection `json:"context"`
	Impact             *aiSection `json:"impact"`
	AcceptanceCriteria *aiSection `json:"acceptance_criteria"`
	SuggestedLabels    []string   `json:"suggested_labels"`
	UncertainAreas     []string   `json:"uncertain_areas"`
}

// enrichByAI makes one structured-generation call for all five sections.
func (e *Enricher) enrichByAI(ctx context.Context, issue types.IssueContent, extraContext string, preserve bool) (*EnrichedIssue, error) {
	prompt := e.buildEnrichmentPrompt(issue, extraContext, preserve)

	responseText, err := e.generator.GenerateStructured(ctx, enrichSystemPrompt, prompt, 4000)
	if err != nil {
		return nil, fmt.Errorf("AI enrichment failed: %w", err)
	}

	parseResult := ai.Parse[aiEnrichResponse](responseText, "enrichment response")
	if !parseResult.Success {
		return nil, fmt.Errorf("failed to parse enrichment: %s", parseResult.Error)
	}
	resp := parseResult.Data

	completeness := e.inputCompleteness(issue)
	uncertain := make(map[string]bool, len(resp.UncertainAreas))
	for _, area := range resp.UncertainAreas {
		uncertain[strings.ToLower(strings.TrimSpace(area))] = true
	}

	result := &EnrichedIssue{
		IssueID:          issue.ID,
		PreserveOriginal: preserve,
		SuggestedLabels:  resp.SuggestedLabels,
	}
	if result.SuggestedLabels == nil {
		result.SuggestedLabels = []string{}
	}

	result.Problem = e.buildSection(resp.Problem, "problem", completeness, uncertain)
	result.Solution = e.buildSection(resp.Solution, "solution", completeness, uncertain)
	result.Context = e.buildSection(resp.Context, "context", completeness, uncertain)
	result.Impact = e.buildSection(resp.Impact, "impact", completeness, uncertain)
	result.AcceptanceCriteria = e.buildSection(resp.AcceptanceCriteria, "acceptance_criteria", completeness, uncertain)

	result.OverallConfidence = e.overallConfidence(result)
	return result, nil
}

// buildSection converts one response section into an EnrichedSection with
// a computed confidence. Empty sections become nil.
func (e *Enricher) buildSection(raw *aiSection, name string, completeness float64, uncertain map[string]bool) *EnrichedSection {
	if raw == nil || strings.TrimSpace(raw.Content) == "" {
		return nil
	}

	certainty := 1.0
	if uncertain[name] {
		certainty = 0.4
	}

	conf := confidence.Score(
		map[string]float64{
			"self_assessment":    types.Clamp01(raw.Confidence),
			"input_completeness": completeness,
			"certainty":          certainty,
		},
		map[string]float64{
			"self_assessment":    e.config.SelfAssessmentWeight,
			"input_completeness": e.config.CompletenessWeight,
			"certainty":          e.config.CertaintyWeight,
		},
		e.cutoffs,
	)

	return &EnrichedSection{
		Content:    strings.TrimSpace(raw.Content),
		Confidence: conf,
	}
}

// overallConfidence averages the per-section scores. Missing sections do
// not count against the result; a two-section enrichment of a terse bug
// report can still be confident about what it produced.
func (e *Enricher) overallConfidence(result *EnrichedIssue) confidence.SectionConfidence {
	sections := result.Sections()
	if len(sections) == 0 {
		return confidence.Fixed(e.config.FallbackScore, "no sections generated", e.cutoffs)
	}

	sum := 0
	needsReview := false
	for _, section := range sections {
		sum += section.Confidence.Score
		if section.Confidence.NeedsReview {
			needsReview = true
		}
	}
	score := sum / len(sections)
	tier := e.cutoffs.TierForScore(score)

	return confidence.SectionConfidence{
		Score:       score,
		Tier:        tier,
		Factors:     map[string]float64{},
		Reasoning:   fmt.Sprintf("mean of %d section scores", len(sections)),
		NeedsReview: needsReview || tier == confidence.TierLow,
	}
}

// inputCompleteness estimates how much raw material the issue gives the
// model to work with, saturating at the configured target length.
func (e *Enricher) inputCompleteness(issue types.IssueContent) float64 {
	return types.Clamp01(float64(len(issue.Body)) / float64(e.config.CompletenessTargetChars))
}

// enrichFallback passes the original content through untouched: the body
// becomes the problem statement, every other section stays empty, and the
// fixed fallback score flags the result for review.
func (e *Enricher) enrichFallback(issue types.IssueContent, preserve bool) *EnrichedIssue {
	problem := issue.Body
	if strings.TrimSpace(problem) == "" {
		problem = issue.Title
	}

	fallback := confidence.Fixed(e.config.FallbackScore, "generation unavailable, original content preserved", e.cutoffs)
	fallback.NeedsReview = true

	return &EnrichedIssue{
		IssueID:          issue.ID,
		PreserveOriginal: preserve,
		Problem: &EnrichedSection{
			Content:    problem,
			Confidence: fallback,
		},
		SuggestedLabels:   []string{},
		OverallConfidence: fallback,
	}
}

const enrichSystemPrompt = `You restructure software issue reports into well-formed issues. Respond with ONLY raw JSON. Do NOT wrap it in markdown code fences.`

// buildEnrichmentPrompt builds the AI prompt for issue enrichment.
func (e *Enricher) buildEnrichmentPrompt(issue types.IssueContent, extraContext string, preserve bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `You are restructuring a raw issue report into a well-formed issue.

ISSUE:
ID: %s
Title: %s
Body: %s
`, issue.ID, issue.Title, issue.Body)

	if len(issue.Labels) > 0 {
		fmt.Fprintf(&sb, "Labels: %s\n", strings.Join(issue.Labels, ", "))
	}

	if extra := strings.TrimSpace(extraContext); extra != "" {
		fmt.Fprintf(&sb, `
ADDITIONAL CONTEXT FROM THE CALLER:
%s
`, extra)
	}

	sb.WriteString(`
TASK:
Produce five sections: problem statement, proposed solution, context,
impact, and acceptance criteria.
`)

	if preserve {
		sb.WriteString(`
The original body is substantial. Do NOT rewrite or summarize it away;
your sections are ADDITIVE structure layered on top of the author's text.
Quote or reference the original where it already answers a section.
`)
	} else {
		sb.WriteString(`
The original body is terse. Expand it into the full structure, inferring
reasonable detail from the title and body.
`)
	}

	sb.WriteString(`
IMPORTANT GUIDELINES:
1. Never invent specifics the text does not support - leave a section empty ("") rather than fabricate
2. Acceptance criteria must be concrete and testable
3. Per-section confidence reflects how directly the original text supports that section
4. List section names you are uncertain about in "uncertain_areas"

OUTPUT FORMAT (JSON only, no markdown):
{
  "problem": {"content": "...", "confidence": float (0.0-1.0)},
  "solution": {"content": "...", "confidence": float},
  "context": {"content": "...", "confidence": float},
  "impact": {"content": "...", "confidence": float},
  "acceptance_criteria": {"content": "...", "confidence": float},
  "suggested_labels": ["label", ...],
  "uncertain_areas": ["section name", ...]
}

Use an empty string for content you cannot support from the input.`)

	return sb.String()
}
