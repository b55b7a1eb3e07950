package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/glintlock/triage/internal/issuefile"
	"github.com/glintlock/triage/internal/render"
)

var enrichContext string

var enrichCmd = &cobra.Command{
	Use:   "enrich <issue.yaml>",
	Short: "Restructure an issue into well-formed sections",
	Long: `Restructure a raw issue report into problem, solution, context,
impact, and acceptance-criteria sections with per-section confidence.
Substantial bodies are preserved; sections are layered on top. Without
ANTHROPIC_API_KEY the original content passes through untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		issue, err := issuefile.LoadIssue(args[0])
		if err != nil {
			return err
		}

		result, err := eng.EnrichIssue(cmd.Context(), issue, enrichContext)
		if err != nil {
			return err
		}
		render.Enriched(os.Stdout, result)
		return nil
	},
}

func init() {
	enrichCmd.Flags().StringVar(&enrichContext, "context", "",
		"additional background handed to the enrichment prompt")
	rootCmd.AddCommand(enrichCmd)
}
