package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/glintlock/triage/internal/issuefile"
	"github.com/glintlock/triage/internal/render"
)

var detectCorpusPath string

var detectCmd = &cobra.Command{
	Use:   "detect <issue.yaml>",
	Short: "Find likely duplicates of an issue",
	Long: `Compare an issue against a corpus and report likely duplicates in
high and medium confidence tiers. Uses embedding similarity when
OPENAI_API_KEY is set, keyword similarity otherwise.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		issue, err := issuefile.LoadIssue(args[0])
		if err != nil {
			return err
		}
		corpus, err := issuefile.LoadCorpus(detectCorpusPath)
		if err != nil {
			return err
		}

		result, err := eng.DetectDuplicates(cmd.Context(), issue, corpus, nil)
		if err != nil {
			return err
		}
		render.Duplicates(os.Stdout, result)
		return nil
	},
}

func init() {
	detectCmd.Flags().StringVar(&detectCorpusPath, "corpus", "", "YAML file with existing issues (required)")
	if err := detectCmd.MarkFlagRequired("corpus"); err != nil {
		panic(fmt.Sprintf("failed to mark corpus flag required: %v", err))
	}
	rootCmd.AddCommand(detectCmd)
}
