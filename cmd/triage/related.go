package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/glintlock/triage/internal/issuefile"
	"github.com/glintlock/triage/internal/render"
)

var relatedCorpusPath string

var relatedCmd = &cobra.Command{
	Use:   "related <issue.yaml>",
	Short: "Find issues related to an issue",
	Long: `Find semantic, dependency, and component relationships between an
issue and a corpus. Semantic links need OPENAI_API_KEY; dependency
classification is sharper with ANTHROPIC_API_KEY but works without it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		issue, err := issuefile.LoadIssue(args[0])
		if err != nil {
			return err
		}
		corpus, err := issuefile.LoadCorpus(relatedCorpusPath)
		if err != nil {
			return err
		}

		relationships, err := eng.FindRelatedIssues(cmd.Context(), issue, corpus)
		if err != nil {
			return err
		}
		render.Relationships(os.Stdout, relationships)
		return nil
	},
}

func init() {
	relatedCmd.Flags().StringVar(&relatedCorpusPath, "corpus", "", "YAML file with existing issues (required)")
	if err := relatedCmd.MarkFlagRequired("corpus"); err != nil {
		panic(fmt.Sprintf("failed to mark corpus flag required: %v", err))
	}
	rootCmd.AddCommand(relatedCmd)
}
