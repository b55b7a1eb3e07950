// Command triage runs the issue-intelligence services from the terminal:
// duplicate detection, related-issue linking, label suggestion, and issue
// enrichment, plus an MCP server and an interactive shell.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/glintlock/triage/internal/embedding"
	"github.com/glintlock/triage/internal/engine"
)

var (
	snapshotPath string

	eng      *engine.Engine
	snapshot *embedding.SnapshotStore
)

var rootCmd = &cobra.Command{
	Use:   "triage",
	Short: "Issue intelligence: duplicates, relationships, labels, enrichment",
	Long: `Triage analyzes issue content with AI assistance and deterministic
fallbacks. Every operation works without API keys, at reduced confidence.

Set ANTHROPIC_API_KEY to enable generation (enrichment, labels, dependency
classification) and OPENAI_API_KEY to enable embeddings (duplicates,
semantic links).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := engine.ConfigFromEnv()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		eng, err = engine.New(engine.ProvidersFromEnv(), cfg)
		if err != nil {
			return fmt.Errorf("failed to build engine: %w", err)
		}

		if snapshotPath != "" {
			snapshot, err = embedding.OpenSnapshotStore(snapshotPath)
			if err != nil {
				return fmt.Errorf("failed to open snapshot: %w", err)
			}
			loaded, err := snapshot.Load(eng.Cache())
			if err != nil {
				return fmt.Errorf("failed to load snapshot: %w", err)
			}
			if loaded > 0 {
				log.Printf("loaded %d cached embeddings from %s", loaded, snapshotPath)
			}
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if snapshot == nil {
			return nil
		}
		defer snapshot.Close()
		if err := snapshot.Save(eng.Cache()); err != nil {
			return fmt.Errorf("failed to save snapshot: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&snapshotPath, "snapshot", "",
		"SQLite file for persisting the embedding cache across runs")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
