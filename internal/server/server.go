// Package server exposes the issue-intelligence engine over the Model
// Context Protocol, so agent frontends can call duplicate detection,
// related-issue linking, label suggestion, and enrichment as tools.
package server

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/glintlock/triage/internal/engine"
)

// New creates a fully configured MCP server with all tools registered.
func New(eng *engine.Engine) *mcp.Server {
	it := &IssueTools{Engine: eng}

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "triage",
		Version: "0.1.0",
	}, nil)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "detect_duplicates",
		Description: "Find likely duplicates of an issue within a corpus, grouped into high and medium confidence tiers",
	}, it.DetectDuplicates)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "find_related_issues",
		Description: "Find semantic, dependency, and component relationships between an issue and a corpus",
	}, it.FindRelatedIssues)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "suggest_labels",
		Description: "Suggest labels for an issue from the existing catalog, with new-label proposals when nothing fits",
	}, it.SuggestLabels)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "enrich_issue",
		Description: "Restructure a raw issue into problem, solution, context, impact, and acceptance-criteria sections",
	}, it.EnrichIssue)

	return srv
}
