// Package types defines the shared data model for the issue-intelligence
// engine: the issue content supplied by callers, repository labels, and the
// validation rules that separate caller contract violations from runtime
// conditions.
package types

import (
	"fmt"
	"strings"
)

// IssueContent is the caller-supplied view of an issue. It is never
// persisted by this engine; every operation receives fresh content.
type IssueContent struct {
	ID     string   `json:"id" yaml:"id"`
	Title  string   `json:"title" yaml:"title"`
	Body   string   `json:"body" yaml:"body"`
	Labels []string `json:"labels,omitempty" yaml:"labels,omitempty"`
}

// Validate checks the caller contract for an issue. A violation here is an
// input error and propagates to the caller; it never triggers a fallback
// path.
func (i *IssueContent) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("issue id is required")
	}
	if strings.TrimSpace(i.Title) == "" && strings.TrimSpace(i.Body) == "" {
		return fmt.Errorf("issue %s has neither title nor body", i.ID)
	}
	return nil
}

// Text returns the canonical title+body concatenation used for embedding
// and hashing. Same content always yields the same text regardless of how
// the issue was constructed.
func (i *IssueContent) Text() string {
	return i.Title + "\n" + i.Body
}

// RepositoryLabel is one label defined in the backing repository.
type RepositoryLabel struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Color       string `json:"color,omitempty" yaml:"color,omitempty"`
}

// ValidateCorpus checks a comparison corpus. An empty corpus is a caller
// contract violation for the operations that require one.
func ValidateCorpus(corpus []IssueContent) error {
	if len(corpus) == 0 {
		return fmt.Errorf("corpus cannot be empty")
	}
	for idx := range corpus {
		if err := corpus[idx].Validate(); err != nil {
			return fmt.Errorf("corpus entry %d: %w", idx, err)
		}
	}
	return nil
}

// Clamp01 clamps a similarity or confidence value into [0, 1] before it is
// surfaced to callers.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
