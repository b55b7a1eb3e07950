// Package issuefile loads issues and label catalogs from YAML files for
// the CLI and REPL surfaces.
package issuefile

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/glintlock/triage/internal/types"
)

type fileIssue struct {
	ID     string   `yaml:"id"`
	Title  string   `yaml:"title"`
	Body   string   `yaml:"body"`
	Labels []string `yaml:"labels"`
}

type fileLabel struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Color       string `yaml:"color"`
}

// LoadIssue reads a single issue from a YAML file. A missing ID gets a
// generated one so ad-hoc files work without bookkeeping.
func LoadIssue(path string) (types.IssueContent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.IssueContent{}, fmt.Errorf("failed to read issue file: %w", err)
	}

	var raw fileIssue
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return types.IssueContent{}, fmt.Errorf("failed to parse issue file %s: %w", path, err)
	}

	issue := toContent(raw)
	if err := issue.Validate(); err != nil {
		return types.IssueContent{}, fmt.Errorf("invalid issue in %s: %w", path, err)
	}
	return issue, nil
}

// LoadCorpus reads a YAML list of issues. IDs are generated where absent;
// duplicate explicit IDs are an error since every downstream result is
// keyed by issue ID.
func LoadCorpus(path string) ([]types.IssueContent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus file: %w", err)
	}

	var raw []fileIssue
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse corpus file %s: %w", path, err)
	}

	seen := make(map[string]bool, len(raw))
	corpus := make([]types.IssueContent, 0, len(raw))
	for i, r := range raw {
		issue := toContent(r)
		if err := issue.Validate(); err != nil {
			return nil, fmt.Errorf("invalid issue at index %d in %s: %w", i, path, err)
		}
		if seen[issue.ID] {
			return nil, fmt.Errorf("duplicate issue ID %q in %s", issue.ID, path)
		}
		seen[issue.ID] = true
		corpus = append(corpus, issue)
	}
	return corpus, nil
}

// LoadLabels reads a YAML list of repository labels.
func LoadLabels(path string) ([]types.RepositoryLabel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read labels file: %w", err)
	}

	var raw []fileLabel
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse labels file %s: %w", path, err)
	}

	catalog := make([]types.RepositoryLabel, 0, len(raw))
	for i, r := range raw {
		if r.Name == "" {
			return nil, fmt.Errorf("label at index %d in %s has no name", i, path)
		}
		catalog = append(catalog, types.RepositoryLabel{
			Name:        r.Name,
			Description: r.Description,
			Color:       r.Color,
		})
	}
	return catalog, nil
}

func toContent(raw fileIssue) types.IssueContent {
	id := raw.ID
	if id == "" {
		id = uuid.NewString()
	}
	return types.IssueContent{
		ID:     id,
		Title:  raw.Title,
		Body:   raw.Body,
		Labels: raw.Labels,
	}
}
