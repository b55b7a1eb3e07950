package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/glintlock/triage/internal/dedup"
	"github.com/glintlock/triage/internal/engine"
	"github.com/glintlock/triage/internal/types"
)

// IssueTools holds references needed by the issue-intelligence tool
// handlers.
type IssueTools struct {
	Engine *engine.Engine
}

// --- Input types ---

type IssueInput struct {
	ID     string   `json:"id" jsonschema:"Stable issue identifier"`
	Title  string   `json:"title,omitempty" jsonschema:"Issue title"`
	Body   string   `json:"body,omitempty" jsonschema:"Issue body text"`
	Labels []string `json:"labels,omitempty" jsonschema:"Labels currently on the issue"`
}

type LabelInput struct {
	Name        string `json:"name" jsonschema:"Label name"`
	Description string `json:"description,omitempty" jsonschema:"What the label covers"`
	Color       string `json:"color,omitempty" jsonschema:"Hex color without #"`
}

type ThresholdsInput struct {
	High   float64 `json:"high" jsonschema:"High-confidence similarity cut point, 0.0-1.0"`
	Medium float64 `json:"medium" jsonschema:"Medium-confidence similarity cut point, 0.0-1.0"`
}

type DetectDuplicatesInput struct {
	Issue      IssueInput       `json:"issue" jsonschema:"The issue to check"`
	Corpus     []IssueInput     `json:"corpus" jsonschema:"Existing issues to compare against"`
	Thresholds *ThresholdsInput `json:"thresholds,omitempty" jsonschema:"Optional per-call cut points for the embedding path"`
}

type FindRelatedInput struct {
	Issue  IssueInput   `json:"issue" jsonschema:"The source issue"`
	Corpus []IssueInput `json:"corpus" jsonschema:"Existing issues to link against"`
}

type SuggestLabelsInput struct {
	Issue   IssueInput   `json:"issue" jsonschema:"The issue to label"`
	Labels  []LabelInput `json:"labels,omitempty" jsonschema:"Existing label catalog"`
	History []IssueInput `json:"history,omitempty" jsonschema:"Recently labeled issues, as a conventions sample"`
}

type EnrichIssueInput struct {
	Issue   IssueInput `json:"issue" jsonschema:"The issue to enrich"`
	Context string     `json:"context,omitempty" jsonschema:"Optional background handed to the enrichment prompt"`
}

func (in IssueInput) toContent() types.IssueContent {
	return types.IssueContent{
		ID:     in.ID,
		Title:  in.Title,
		Body:   in.Body,
		Labels: in.Labels,
	}
}

func toCorpus(inputs []IssueInput) []types.IssueContent {
	corpus := make([]types.IssueContent, len(inputs))
	for i, in := range inputs {
		corpus[i] = in.toContent()
	}
	return corpus
}

func toCatalog(inputs []LabelInput) []types.RepositoryLabel {
	catalog := make([]types.RepositoryLabel, len(inputs))
	for i, in := range inputs {
		catalog[i] = types.RepositoryLabel{
			Name:        in.Name,
			Description: in.Description,
			Color:       in.Color,
		}
	}
	return catalog
}

// --- Handlers ---

func (t *IssueTools) DetectDuplicates(ctx context.Context, _ *mcp.CallToolRequest, input DetectDuplicatesInput) (*mcp.CallToolResult, any, error) {
	var thresholds *dedup.Thresholds
	if input.Thresholds != nil {
		thresholds = &dedup.Thresholds{
			High:   input.Thresholds.High,
			Medium: input.Thresholds.Medium,
		}
	}
	result, err := t.Engine.DetectDuplicates(ctx, input.Issue.toContent(), toCorpus(input.Corpus), thresholds)
	if err != nil {
		return toolError("Duplicate detection failed: %v", err), nil, nil
	}
	return toolJSON(result)
}

func (t *IssueTools) FindRelatedIssues(ctx context.Context, _ *mcp.CallToolRequest, input FindRelatedInput) (*mcp.CallToolResult, any, error) {
	relationships, err := t.Engine.FindRelatedIssues(ctx, input.Issue.toContent(), toCorpus(input.Corpus))
	if err != nil {
		return toolError("Related-issue search failed: %v", err), nil, nil
	}
	return toolJSON(relationships)
}

func (t *IssueTools) SuggestLabels(ctx context.Context, _ *mcp.CallToolRequest, input SuggestLabelsInput) (*mcp.CallToolResult, any, error) {
	result, err := t.Engine.SuggestLabels(ctx, input.Issue.toContent(), toCatalog(input.Labels), toCorpus(input.History))
	if err != nil {
		return toolError("Label suggestion failed: %v", err), nil, nil
	}
	return toolJSON(result)
}

func (t *IssueTools) EnrichIssue(ctx context.Context, _ *mcp.CallToolRequest, input EnrichIssueInput) (*mcp.CallToolResult, any, error) {
	result, err := t.Engine.EnrichIssue(ctx, input.Issue.toContent(), input.Context)
	if err != nil {
		return toolError("Enrichment failed: %v", err), nil, nil
	}
	return toolJSON(result)
}

func toolError(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

func toolJSON(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError("Failed to marshal result: %v", err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}
