// Package labels ranks existing repository labels for an issue and proposes
// new ones, using issue history as a weak learning signal. The AI path asks
// the generation provider for ranked suggestions with rationale; the
// fallback matches keywords against the existing label catalog and never
// proposes new labels.
package labels

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/glintlock/triage/internal/ai"
	"github.com/glintlock/triage/internal/confidence"
	"github.com/glintlock/triage/internal/types"
)

// Methodology records which path produced a suggestion result.
type Methodology string

const (
	MethodologyAI              Methodology = "ai"
	MethodologyKeywordFallback Methodology = "keyword-fallback"
)

// Suggestion is one label recommendation.
type Suggestion struct {
	Label      string          `json:"label"`
	IsExisting bool            `json:"is_existing"`
	Confidence float64         `json:"confidence"`
	Rationale  string          `json:"rationale"`
	Tier       confidence.Tier `json:"tier"`
}

// NewLabelProposal recommends creating a label that doesn't exist yet.
// Proposals are kept separate from the tier grouping.
type NewLabelProposal struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Rationale   string `json:"rationale"`
}

// Result is the full output of one suggestion call.
type Result struct {
	High         []Suggestion       `json:"high"`
	Medium       []Suggestion       `json:"medium"`
	Low          []Suggestion       `json:"low"`
	NewProposals []NewLabelProposal `json:"new_label_proposals"`
	Methodology  Methodology        `json:"methodology"`
}

// Suggester recommends labels for an issue.
type Suggester struct {
	generator ai.Generator
	config    Config
}

// NewSuggester creates a label suggester. The generator may be nil, in
// which case every call takes the keyword fallback path.
func NewSuggester(generator ai.Generator, config Config) (*Suggester, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Suggester{generator: generator, config: config}, nil
}

// Suggest recommends labels for the issue from the existing catalog, plus
// new-label proposals when no existing label fits. History, when supplied,
// teaches the provider project-specific labeling conventions.
//
// Provider absence or failure routes to the fallback silently; only input
// errors propagate.
func (s *Suggester) Suggest(ctx context.Context, issue types.IssueContent, existing []types.RepositoryLabel, history []types.IssueContent) (*Result, error) {
	if err := issue.Validate(); err != nil {
		return nil, fmt.Errorf("invalid issue: %w", err)
	}

	if s.generator == nil {
		return s.suggestByKeywords(issue, existing), nil
	}

	result, err := s.suggestByAI(ctx, issue, existing, history)
	if err != nil {
		log.Printf("[LABELS] AI path failed for %s: %v (falling back to keywords)", issue.ID, err)
		return s.suggestByKeywords(issue, existing), nil
	}
	return result, nil
}

// aiSuggestion mirrors the generation response shape.
type aiSuggestion struct {
	Label      string  `json:"label"`
	IsExisting bool    `json:"is_existing"`
	Confidence float64 `json:"confidence"`
	Rationale  string  `json:"rationale"`
}

type aiNewLabel struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Rationale   string `json:"rationale"`
}

type aiLabelResponse struct {
	Suggestions []aiSuggestion `json:"suggestions"`
	NewLabels   []aiNewLabel   `json:"new_labels"`
}

// suggestByAI makes one structured-generation call over the full catalog.
func (s *Suggester) suggestByAI(ctx context.Context, issue types.IssueContent, existing []types.RepositoryLabel, history []types.IssueContent) (*Result, error) {
	prompt := s.buildSuggestionPrompt(issue, existing, history)

	maxTokens := len(existing)*100 + 500
	if maxTokens < 1000 {
		maxTokens = 1000
	}
	if maxTokens > 4000 {
		maxTokens = 4000
	}

	responseText, err := s.generator.GenerateStructured(ctx, labelSystemPrompt, prompt, maxTokens)
	if err != nil {
		return nil, fmt.Errorf("AI label suggestion failed: %w", err)
	}

	parseResult := ai.Parse[aiLabelResponse](responseText, "label suggestion response")
	if !parseResult.Success {
		return nil, fmt.Errorf("failed to parse label suggestions: %s", parseResult.Error)
	}

	catalog := make(map[string]struct{}, len(existing))
	for _, label := range existing {
		catalog[strings.ToLower(label.Name)] = struct{}{}
	}

	result := s.emptyResult(MethodologyAI)
	for _, raw := range parseResult.Data.Suggestions {
		name := strings.TrimSpace(raw.Label)
		if name == "" {
			continue
		}
		_, inCatalog := catalog[strings.ToLower(name)]
		if raw.IsExisting && !inCatalog {
			// The model hallucinated a catalog entry; dropping it beats
			// recommending a label that doesn't exist.
			log.Printf("[LABELS] dropping suggestion %q: marked existing but not in catalog", name)
			continue
		}
		s.addTiered(result, Suggestion{
			Label:      name,
			IsExisting: inCatalog,
			Confidence: types.Clamp01(raw.Confidence),
			Rationale:  raw.Rationale,
		})
	}

	for _, raw := range parseResult.Data.NewLabels {
		name := strings.TrimSpace(raw.Name)
		if name == "" {
			continue
		}
		if _, inCatalog := catalog[strings.ToLower(name)]; inCatalog {
			// Existing labels are always preferred over proposing new
			// ones; a proposal shadowing a catalog entry is a model error.
			continue
		}
		result.NewProposals = append(result.NewProposals, NewLabelProposal{
			Name:        name,
			Description: raw.Description,
			Color:       raw.Color,
			Rationale:   raw.Rationale,
		})
	}

	return result, nil
}

// addTiered places a suggestion in the tier its confidence warrants.
// Tiers are a strict partition; each suggestion lands in exactly one.
func (s *Suggester) addTiered(result *Result, suggestion Suggestion) {
	switch {
	case suggestion.Confidence >= s.config.HighThreshold:
		suggestion.Tier = confidence.TierHigh
		result.High = append(result.High, suggestion)
	case suggestion.Confidence >= s.config.MediumThreshold:
		suggestion.Tier = confidence.TierMedium
		result.Medium = append(result.Medium, suggestion)
	default:
		suggestion.Tier = confidence.TierLow
		result.Low = append(result.Low, suggestion)
	}
}

func (s *Suggester) emptyResult(methodology Methodology) *Result {
	return &Result{
		High:         []Suggestion{},
		Medium:       []Suggestion{},
		Low:          []Suggestion{},
		NewProposals: []NewLabelProposal{},
		Methodology:  methodology,
	}
}

const labelSystemPrompt = `You label software issues for a project tracker. Respond with ONLY raw JSON. Do NOT wrap it in markdown code fences.`

// buildSuggestionPrompt builds the AI prompt for label suggestion.
func (s *Suggester) buildSuggestionPrompt(issue types.IssueContent, existing []types.RepositoryLabel, history []types.IssueContent) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `You are suggesting labels for an issue.

ISSUE:
ID: %s
Title: %s
Body: %s

EXISTING LABELS:
`, issue.ID, issue.Title, issue.Body)

	if len(existing) == 0 {
		sb.WriteString("(none defined yet)\n")
	}
	for _, label := range existing {
		if label.Description != "" {
			fmt.Fprintf(&sb, "- %s: %s\n", label.Name, label.Description)
		} else {
			fmt.Fprintf(&sb, "- %s\n", label.Name)
		}
	}

	if len(history) > 0 {
		samples := history
		if len(samples) > s.config.MaxHistorySamples {
			samples = samples[:s.config.MaxHistorySamples]
		}
		sb.WriteString("\nRECENTLY LABELED ISSUES (project conventions):\n")
		for _, h := range samples {
			fmt.Fprintf(&sb, "- %q -> [%s]\n", h.Title, strings.Join(h.Labels, ", "))
		}
	}

	sb.WriteString(`
TASK:
Suggest labels for the issue.

IMPORTANT GUIDELINES:
1. STRONGLY PREFER existing labels over proposing new ones - propose a new label only when nothing in the catalog fits
2. Follow the project's labeling conventions visible in the history sample
3. Confidence reflects how clearly the issue text supports the label
4. Suggest only labels supported by the issue content, not speculative ones

OUTPUT FORMAT (JSON only, no markdown):
{
  "suggestions": [
    {
      "label": "existing-label-name",
      "is_existing": true,
      "confidence": float (0.0-1.0),
      "rationale": "Brief explanation"
    }
  ],
  "new_labels": [
    {
      "name": "proposed-name",
      "description": "What the label covers",
      "color": "hex color without #",
      "rationale": "Why no existing label fits"
    }
  ]
}

Use an empty "new_labels" array when existing labels cover the issue.`)

	return sb.String()
}
