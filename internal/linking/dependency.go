package linking

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/glintlock/triage/internal/ai"
	"github.com/glintlock/triage/internal/lexical"
	"github.com/glintlock/triage/internal/types"
)

// Directional cue phrases, keyed by the subtype they suggest from the
// perspective of the issue whose text contains them.
var (
	blockedByCues = []string{
		"blocked by", "depends on", "requires", "waiting on",
		"waiting for", "needs", "can't start until", "cannot start until",
	}
	blocksCues = []string{
		"blocks", "enables", "required by", "prerequisite for",
		"must land before", "unblocks",
	}
)

// dependencyCandidate is a keyword-stage detection awaiting AI refinement.
type dependencyCandidate struct {
	target     types.IssueContent
	subType    DependencySubType
	confidence float64
	cue        string
}

// dependencyClassification is the AI's refinement of one candidate pair.
type dependencyClassification struct {
	TargetID   string  `json:"target_id"`
	SubType    string  `json:"sub_type"`   // blocks | blocked_by | related_to
	Confidence float64 `json:"confidence"` // 0.0-1.0
	Reasoning  string  `json:"reasoning"`
}

type dependencyClassificationResponse struct {
	Results []dependencyClassification `json:"results"`
}

// detectDependencies runs the two-stage dependency detector: a fast cue
// phrase scan proposes candidate pairs, then one AI call classifies their
// precise subtype and confidence. When the generator is absent or fails,
// keyword-stage results are kept with reduced confidence; this detector
// never errors.
func (l *Linker) detectDependencies(ctx context.Context, source types.IssueContent, corpus []types.IssueContent) []Relationship {
	candidates := l.scanDependencyCues(source, corpus)
	if len(candidates) == 0 {
		return nil
	}

	if l.generator == nil {
		return l.unrefinedEdges(source, candidates, "no generation provider configured")
	}

	refined, err := l.classifyDependencies(ctx, source, candidates)
	if err != nil {
		log.Printf("[LINK] dependency classification failed for %s: %v (keeping keyword-stage results)", source.ID, err)
		return l.unrefinedEdges(source, candidates, "classification unavailable")
	}
	return refined
}

// scanDependencyCues is the keyword stage. A cue phrase in either issue's
// text plus lexical overlap between the pair (or an explicit ID mention)
// produces a low-confidence candidate. A cue found in a target's text is
// read from the target's perspective and inverted to keep the edge
// source-oriented.
func (l *Linker) scanDependencyCues(source types.IssueContent, corpus []types.IssueContent) []dependencyCandidate {
	sourceText := strings.ToLower(source.Text())
	sourceKeywords := lexical.Keywords(source.Text())
	sourceCue, sourceSubType := matchCue(sourceText)

	var candidates []dependencyCandidate
	for _, other := range corpus {
		cue, subType := sourceCue, sourceSubType
		cueText, mentionID := sourceText, other.ID
		if cue == "" {
			otherText := strings.ToLower(other.Text())
			targetCue, targetSubType := matchCue(otherText)
			if targetCue == "" {
				continue
			}
			cue, subType = targetCue, invertSubType(targetSubType)
			cueText, mentionID = otherText, source.ID
		}

		conf := l.config.KeywordConfidence

		mentioned := mentionID != "" && strings.Contains(cueText, strings.ToLower(mentionID))
		if mentioned {
			conf = types.Clamp01(conf + l.config.IDMentionBonus)
		} else {
			overlap := lexical.Jaccard(sourceKeywords, lexical.Keywords(other.Text()))
			if overlap < l.config.MinKeywordOverlap {
				continue
			}
		}

		candidates = append(candidates, dependencyCandidate{
			target:     other,
			subType:    subType,
			confidence: conf,
			cue:        cue,
		})
	}
	return candidates
}

// invertSubType flips a directional subtype to the other endpoint's
// perspective.
func invertSubType(s DependencySubType) DependencySubType {
	switch s {
	case SubTypeBlocks:
		return SubTypeBlockedBy
	case SubTypeBlockedBy:
		return SubTypeBlocks
	default:
		return s
	}
}

// matchCue returns the first directional cue phrase found in text and the
// subtype it suggests.
func matchCue(text string) (string, DependencySubType) {
	for _, cue := range blockedByCues {
		if strings.Contains(text, cue) {
			return cue, SubTypeBlockedBy
		}
	}
	for _, cue := range blocksCues {
		if strings.Contains(text, cue) {
			return cue, SubTypeBlocks
		}
	}
	return "", ""
}

// unrefinedEdges converts keyword-stage candidates to relationships with
// the unrefined-confidence penalty applied.
func (l *Linker) unrefinedEdges(source types.IssueContent, candidates []dependencyCandidate, reason string) []Relationship {
	edges := make([]Relationship, 0, len(candidates))
	for _, c := range candidates {
		edges = append(edges, Relationship{
			SourceID:   source.ID,
			TargetID:   c.target.ID,
			Type:       TypeDependency,
			SubType:    c.subType,
			Confidence: types.Clamp01(c.confidence * l.config.UnrefinedPenalty),
			Reasoning:  fmt.Sprintf("cue phrase %q (%s)", c.cue, reason),
		})
	}
	return edges
}

// classifyDependencies is the AI stage: one generation call classifies all
// candidate pairs at once.
func (l *Linker) classifyDependencies(ctx context.Context, source types.IssueContent, candidates []dependencyCandidate) ([]Relationship, error) {
	prompt := l.buildClassificationPrompt(source, candidates)

	// Each result needs ~100 tokens, plus overhead.
	maxTokens := len(candidates)*150 + 200
	if maxTokens < 1000 {
		maxTokens = 1000
	}
	if maxTokens > 4000 {
		maxTokens = 4000
	}

	responseText, err := l.generator.GenerateStructured(ctx, dependencySystemPrompt, prompt, maxTokens)
	if err != nil {
		return nil, fmt.Errorf("AI dependency classification failed: %w", err)
	}

	parseResult := ai.Parse[dependencyClassificationResponse](responseText, "dependency classification response")
	if !parseResult.Success {
		return nil, fmt.Errorf("failed to parse dependency classification: %s", parseResult.Error)
	}

	byTarget := make(map[string]dependencyClassification, len(parseResult.Data.Results))
	for _, r := range parseResult.Data.Results {
		byTarget[r.TargetID] = r
	}

	edges := make([]Relationship, 0, len(candidates))
	for _, c := range candidates {
		refined, ok := byTarget[c.target.ID]
		if !ok {
			// Missing from the response: keep the keyword-stage result.
			edges = append(edges, l.unrefinedEdges(source, []dependencyCandidate{c}, "not classified")...)
			continue
		}

		subType := parseSubType(refined.SubType)
		if subType == "" {
			subType = c.subType
		}
		edges = append(edges, Relationship{
			SourceID:   source.ID,
			TargetID:   c.target.ID,
			Type:       TypeDependency,
			SubType:    subType,
			Confidence: types.Clamp01(refined.Confidence),
			Reasoning:  refined.Reasoning,
		})
	}
	return edges, nil
}

func parseSubType(s string) DependencySubType {
	switch DependencySubType(strings.TrimSpace(strings.ToLower(s))) {
	case SubTypeBlocks:
		return SubTypeBlocks
	case SubTypeBlockedBy:
		return SubTypeBlockedBy
	case SubTypeRelatedTo:
		return SubTypeRelatedTo
	default:
		return ""
	}
}

const dependencySystemPrompt = `You classify dependency relationships between software issues. Respond with ONLY raw JSON. Do NOT wrap it in markdown code fences.`

// buildClassificationPrompt builds the AI prompt for dependency subtype
// classification across all candidate pairs.
func (l *Linker) buildClassificationPrompt(source types.IssueContent, candidates []dependencyCandidate) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `You are classifying the dependency relationship between a SOURCE issue and several TARGET issues.

SOURCE ISSUE:
ID: %s
Title: %s
Body: %s

TARGET ISSUES:
`, source.ID, source.Title, source.Body)

	for i, c := range candidates {
		fmt.Fprintf(&sb, `
[%d] ID: %s
    Title: %s
    Body: %s
    Cue found: %q (suggests %s)
`, i+1, c.target.ID, c.target.Title, c.target.Body, c.cue, c.subType)
	}

	sb.WriteString(`
TASK:
For EACH target issue, determine the dependency relationship from the SOURCE's perspective:
- "blocks": the SOURCE must be completed before the TARGET can proceed
- "blocked_by": the TARGET must be completed before the SOURCE can proceed
- "related_to": the issues are connected but neither strictly gates the other

GUIDELINES:
1. The cue phrase is a hint from keyword scanning, not ground truth - override it when the text says otherwise
2. Explicit references ("blocked by #42", "requires the auth migration") are strong evidence
3. Shared topic alone is "related_to", not a blocking relationship
4. Confidence reflects how clearly the text states the dependency, not how similar the issues are

OUTPUT FORMAT (JSON only, no markdown):
{
  "results": [
    {
      "target_id": "issue_id",
      "sub_type": "blocks" | "blocked_by" | "related_to",
      "confidence": float (0.0-1.0),
      "reasoning": "Brief explanation"
    }
  ]
}

Include exactly one result per target issue, in the order listed.`)

	return sb.String()
}
