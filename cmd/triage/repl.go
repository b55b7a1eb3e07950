package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glintlock/triage/internal/repl"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start interactive shell",
	Long: `Start an interactive shell for the issue-intelligence services.

Load a corpus and label catalog once, then run detect, related, labels,
and enrich against them without restarting. The embedding cache is shared
across commands, so repeated analyses reuse computed vectors.

Type 'help' in the shell for available commands.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := repl.New(&repl.Config{Engine: eng})
		if err != nil {
			return fmt.Errorf("failed to create shell: %w", err)
		}
		return r.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
