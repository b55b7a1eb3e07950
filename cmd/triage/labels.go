package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/glintlock/triage/internal/issuefile"
	"github.com/glintlock/triage/internal/render"
	"github.com/glintlock/triage/internal/types"
)

var (
	labelsCatalogPath string
	labelsHistoryPath string
)

var labelsCmd = &cobra.Command{
	Use:   "labels <issue.yaml>",
	Short: "Suggest labels for an issue",
	Long: `Suggest labels from the existing catalog, grouped by confidence,
with new-label proposals when nothing in the catalog fits. A history file
of recently labeled issues teaches the model project conventions.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		issue, err := issuefile.LoadIssue(args[0])
		if err != nil {
			return err
		}

		var catalog []types.RepositoryLabel
		if labelsCatalogPath != "" {
			catalog, err = issuefile.LoadLabels(labelsCatalogPath)
			if err != nil {
				return err
			}
		}

		var history []types.IssueContent
		if labelsHistoryPath != "" {
			history, err = issuefile.LoadCorpus(labelsHistoryPath)
			if err != nil {
				return err
			}
		}

		result, err := eng.SuggestLabels(cmd.Context(), issue, catalog, history)
		if err != nil {
			return err
		}
		render.Labels(os.Stdout, result)
		return nil
	},
}

func init() {
	labelsCmd.Flags().StringVar(&labelsCatalogPath, "catalog", "", "YAML file with the repository label catalog")
	labelsCmd.Flags().StringVar(&labelsHistoryPath, "history", "", "YAML file with recently labeled issues")
	rootCmd.AddCommand(labelsCmd)
}
