package labels

import (
	"fmt"

	"github.com/glintlock/triage/internal/lexical"
	"github.com/glintlock/triage/internal/types"
)

// Fallback match confidences, before the cap. A direct name mention is
// strong evidence; description keyword overlap is circumstantial.
const (
	nameMatchConfidence       = 0.75
	descriptionMatchBase      = 0.35
	descriptionMatchPerToken  = 0.1
	descriptionMatchMaxTokens = 3
)

// suggestByKeywords is the fallback path: substring/fuzzy matching against
// existing label names and descriptions. Confidence is capped so fallback
// suggestions can never outrank a genuine AI high-confidence suggestion,
// and no new labels are ever proposed - keyword matching only operates
// over known labels.
func (s *Suggester) suggestByKeywords(issue types.IssueContent, existing []types.RepositoryLabel) *Result {
	result := s.emptyResult(MethodologyKeywordFallback)

	issueText := issue.Text()
	issueKeywords := lexical.Keywords(issueText)

	for _, label := range existing {
		conf, rationale := s.matchLabel(label, issueText, issueKeywords)
		if conf <= 0 {
			continue
		}
		if conf > s.config.FallbackConfidenceCap {
			conf = s.config.FallbackConfidenceCap
		}
		s.addTiered(result, Suggestion{
			Label:      label.Name,
			IsExisting: true,
			Confidence: conf,
			Rationale:  rationale,
		})
	}

	return result
}

// matchLabel scores one catalog label against the issue text. Returns zero
// when nothing matches.
func (s *Suggester) matchLabel(label types.RepositoryLabel, issueText string, issueKeywords map[string]struct{}) (float64, string) {
	if lexical.FuzzyContains(issueText, label.Name) {
		return nameMatchConfidence, fmt.Sprintf("issue text mentions %q", label.Name)
	}

	if label.Description == "" {
		return 0, ""
	}

	matched := 0
	for keyword := range lexical.Keywords(label.Description) {
		if _, ok := issueKeywords[keyword]; ok {
			matched++
			if matched == descriptionMatchMaxTokens {
				break
			}
		}
	}
	if matched == 0 {
		return 0, ""
	}

	conf := descriptionMatchBase + float64(matched-1)*descriptionMatchPerToken
	return conf, fmt.Sprintf("%d keyword(s) overlap with label description", matched)
}
