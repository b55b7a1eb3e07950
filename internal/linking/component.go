package linking

import (
	"fmt"
	"strings"

	"github.com/glintlock/triage/internal/lexical"
	"github.com/glintlock/triage/internal/types"
)

// detectComponents scores label-set overlap between the source and each
// corpus issue. Purely local computation: no provider calls, always
// available regardless of AI configuration.
func (l *Linker) detectComponents(source types.IssueContent, corpus []types.IssueContent) []Relationship {
	sourceLabels := lexical.Set(source.Labels)
	if len(sourceLabels) == 0 {
		return nil
	}

	var edges []Relationship
	for _, other := range corpus {
		otherLabels := lexical.Set(other.Labels)
		if len(otherLabels) == 0 {
			continue
		}

		overlap := lexical.Jaccard(sourceLabels, otherLabels)
		if overlap < l.config.MinComponentOverlap {
			continue
		}

		shared := make([]string, 0, len(sourceLabels))
		for label := range sourceLabels {
			if _, ok := otherLabels[label]; ok {
				shared = append(shared, label)
			}
		}

		edges = append(edges, Relationship{
			SourceID:   source.ID,
			TargetID:   other.ID,
			Type:       TypeComponent,
			Confidence: types.Clamp01(overlap * l.config.ComponentScale),
			Reasoning: fmt.Sprintf("label overlap %.2f (shared: %s)",
				overlap, strings.Join(shared, ", ")),
		})
	}
	return edges
}
