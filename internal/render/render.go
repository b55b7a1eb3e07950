// Package render formats service results for terminal output, shared by
// the CLI commands and the REPL.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/glintlock/triage/internal/confidence"
	"github.com/glintlock/triage/internal/dedup"
	"github.com/glintlock/triage/internal/enrich"
	"github.com/glintlock/triage/internal/labels"
	"github.com/glintlock/triage/internal/linking"
)

var (
	heading = color.New(color.FgCyan, color.Bold).SprintFunc()
	green   = color.New(color.FgGreen).SprintFunc()
	yellow  = color.New(color.FgYellow).SprintFunc()
	gray    = color.New(color.FgHiBlack).SprintFunc()
)

// tierColor maps a confidence tier to its display color.
func tierColor(tier confidence.Tier) func(a ...interface{}) string {
	switch tier {
	case confidence.TierHigh:
		return green
	case confidence.TierMedium:
		return yellow
	default:
		return gray
	}
}

// Duplicates renders a duplicate detection result.
func Duplicates(w io.Writer, result *dedup.Result) {
	fmt.Fprintf(w, "\n%s\n", heading("=== Duplicate Candidates ==="))
	fmt.Fprintf(w, "Methodology: %s\n\n", methodologyNote(string(result.Methodology)))

	if len(result.HighConfidence) == 0 && len(result.MediumConfidence) == 0 {
		fmt.Fprintf(w, "  %s\n\n", gray("No likely duplicates found"))
		return
	}

	printCandidates(w, "High confidence (likely duplicates):", result.HighConfidence)
	printCandidates(w, "Medium confidence (worth reviewing):", result.MediumConfidence)
	fmt.Fprintln(w)
}

func printCandidates(w io.Writer, title string, candidates []dedup.Candidate) {
	if len(candidates) == 0 {
		return
	}
	fmt.Fprintf(w, "%s\n", yellow(title))
	for _, c := range candidates {
		colored := tierColor(c.Tier)
		fmt.Fprintf(w, "  %s %s (similarity %.2f)\n", colored("●"), c.IssueID, c.Similarity)
	}
	fmt.Fprintln(w)
}

// Relationships renders related-issue results.
func Relationships(w io.Writer, relationships []linking.Relationship) {
	fmt.Fprintf(w, "\n%s\n\n", heading("=== Related Issues ==="))

	if len(relationships) == 0 {
		fmt.Fprintf(w, "  %s\n\n", gray("No relationships found"))
		return
	}

	for _, rel := range relationships {
		kind := string(rel.Type)
		if rel.SubType != "" {
			kind = fmt.Sprintf("%s/%s", rel.Type, rel.SubType)
		}
		fmt.Fprintf(w, "  %s %s (%s, confidence %.2f)\n", green("→"), rel.TargetID, kind, rel.Confidence)
		if rel.Reasoning != "" {
			fmt.Fprintf(w, "    %s\n", gray(rel.Reasoning))
		}
	}
	fmt.Fprintln(w)
}

// Labels renders a label suggestion result.
func Labels(w io.Writer, result *labels.Result) {
	fmt.Fprintf(w, "\n%s\n", heading("=== Label Suggestions ==="))
	fmt.Fprintf(w, "Methodology: %s\n\n", methodologyNote(string(result.Methodology)))

	printSuggestions(w, "High confidence:", result.High)
	printSuggestions(w, "Medium confidence:", result.Medium)
	printSuggestions(w, "Low confidence:", result.Low)

	if len(result.NewProposals) > 0 {
		fmt.Fprintf(w, "%s\n", yellow("Proposed new labels:"))
		for _, p := range result.NewProposals {
			fmt.Fprintf(w, "  %s %s", green("+"), p.Name)
			if p.Description != "" {
				fmt.Fprintf(w, " (%s)", p.Description)
			}
			fmt.Fprintln(w)
			if p.Rationale != "" {
				fmt.Fprintf(w, "    %s\n", gray(p.Rationale))
			}
		}
		fmt.Fprintln(w)
	}

	if len(result.High) == 0 && len(result.Medium) == 0 && len(result.Low) == 0 && len(result.NewProposals) == 0 {
		fmt.Fprintf(w, "  %s\n\n", gray("No label suggestions"))
	}
}

func printSuggestions(w io.Writer, title string, suggestions []labels.Suggestion) {
	if len(suggestions) == 0 {
		return
	}
	fmt.Fprintf(w, "%s\n", yellow(title))
	for _, s := range suggestions {
		colored := tierColor(s.Tier)
		marker := ""
		if !s.IsExisting {
			marker = gray(" (new)")
		}
		fmt.Fprintf(w, "  %s %s%s (%.2f)\n", colored("●"), s.Label, marker, s.Confidence)
		if s.Rationale != "" {
			fmt.Fprintf(w, "    %s\n", gray(s.Rationale))
		}
	}
	fmt.Fprintln(w)
}

// Enriched renders an enrichment result.
func Enriched(w io.Writer, result *enrich.EnrichedIssue) {
	fmt.Fprintf(w, "\n%s\n", heading("=== Enriched Issue ==="))
	if result.PreserveOriginal {
		fmt.Fprintf(w, "%s\n", gray("Original body preserved; sections are additive"))
	}
	fmt.Fprintln(w)

	printSection(w, "Problem", result.Problem)
	printSection(w, "Proposed Solution", result.Solution)
	printSection(w, "Context", result.Context)
	printSection(w, "Impact", result.Impact)
	printSection(w, "Acceptance Criteria", result.AcceptanceCriteria)

	if len(result.SuggestedLabels) > 0 {
		fmt.Fprintf(w, "%s %s\n", yellow("Suggested labels:"), strings.Join(result.SuggestedLabels, ", "))
	}

	overall := result.OverallConfidence
	colored := tierColor(overall.Tier)
	fmt.Fprintf(w, "%s %s\n", yellow("Overall confidence:"), colored(fmt.Sprintf("%d (%s)", overall.Score, overall.Tier)))
	if overall.NeedsReview {
		fmt.Fprintf(w, "%s\n", yellow("⚠ flagged for human review"))
	}
	fmt.Fprintln(w)
}

func printSection(w io.Writer, title string, section *enrich.EnrichedSection) {
	if section == nil {
		return
	}
	colored := tierColor(section.Confidence.Tier)
	fmt.Fprintf(w, "%s %s\n", yellow(title+":"), colored(fmt.Sprintf("[%d %s]", section.Confidence.Score, section.Confidence.Tier)))
	for _, line := range strings.Split(section.Content, "\n") {
		fmt.Fprintf(w, "  %s\n", line)
	}
	fmt.Fprintln(w)
}

func methodologyNote(methodology string) string {
	if strings.Contains(methodology, "fallback") {
		return yellow(methodology + " (AI unavailable, discount confidence)")
	}
	return green(methodology)
}
