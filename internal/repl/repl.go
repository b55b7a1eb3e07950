// Package repl provides an interactive shell over the issue-intelligence
// engine: load a corpus and label catalog once, then run duplicate
// detection, linking, label suggestion, and enrichment against them
// without restarting the process.
package repl

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/glintlock/triage/internal/engine"
	"github.com/glintlock/triage/internal/issuefile"
	"github.com/glintlock/triage/internal/render"
	"github.com/glintlock/triage/internal/types"
)

// REPL represents the interactive shell
type REPL struct {
	engine   *engine.Engine
	rl       *readline.Instance
	ctx      context.Context
	commands map[string]CommandHandler

	corpus  []types.IssueContent
	catalog []types.RepositoryLabel
}

// CommandHandler handles a specific command
type CommandHandler func(args []string) error

// Config holds REPL configuration
type Config struct {
	Engine *engine.Engine
}

// New creates a new REPL instance
func New(cfg *Config) (*REPL, error) {
	if cfg.Engine == nil {
		return nil, fmt.Errorf("engine is required")
	}

	r := &REPL{
		engine:   cfg.Engine,
		commands: make(map[string]CommandHandler),
	}

	// Register built-in commands
	r.registerCommands()

	return r, nil
}

// Run starts the REPL loop
func (r *REPL) Run(ctx context.Context) error {
	r.ctx = ctx

	cyan := color.New(color.FgCyan).SprintFunc()
	prompt := cyan("triage> ")

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            prompt,
		HistoryFile:       "",
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	r.rl = rl

	r.printWelcome()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			} else if err == io.EOF {
				fmt.Println("\nGoodbye!")
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if err := r.processInput(line); err != nil {
			if err == io.EOF {
				return nil
			}
			red := color.New(color.FgRed).SprintFunc()
			fmt.Printf("%s %v\n", red("Error:"), err)
		}
	}
}

// processInput processes a single line of input
func (r *REPL) processInput(line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}

	command := parts[0]
	args := parts[1:]

	handler, ok := r.commands[command]
	if !ok {
		yellow := color.New(color.FgYellow).SprintFunc()
		fmt.Printf("%s Unknown command %q. Use 'help' for available commands.\n", yellow("Note:"), command)
		return nil
	}
	return handler(args)
}

// registerCommands registers all built-in commands
func (r *REPL) registerCommands() {
	r.commands["help"] = r.cmdHelp
	r.commands["?"] = r.cmdHelp
	r.commands["exit"] = r.cmdExit
	r.commands["quit"] = r.cmdExit
	r.commands["load"] = r.cmdLoad
	r.commands["catalog"] = r.cmdCatalog
	r.commands["detect"] = r.cmdDetect
	r.commands["related"] = r.cmdRelated
	r.commands["labels"] = r.cmdLabels
	r.commands["enrich"] = r.cmdEnrich
	r.commands["cache"] = r.cmdCache
}

// printWelcome prints the welcome message
func (r *REPL) printWelcome() {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Printf("\n%s\n", cyan("Triage - issue intelligence shell"))
	fmt.Println("Load a corpus, then run detectors against it")
	fmt.Println()
	fmt.Println("Type 'help' for available commands, 'exit' to quit")
	fmt.Println()
}

// cmdHelp shows help information
func (r *REPL) cmdHelp(args []string) error {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("\n%s\n\n", cyan("Available Commands:"))

	commands := []struct {
		name string
		desc string
	}{
		{"load <corpus.yaml>", "Load the issue corpus to compare against"},
		{"catalog <labels.yaml>", "Load the repository label catalog"},
		{"detect <issue.yaml>", "Find likely duplicates of an issue"},
		{"related <issue.yaml>", "Find related issues"},
		{"labels <issue.yaml>", "Suggest labels for an issue"},
		{"enrich <issue.yaml> [context...]", "Restructure an issue into sections"},
		{"cache", "Show embedding cache statistics"},
		{"help, ?", "Show this help message"},
		{"exit, quit", "Exit the shell"},
	}
	for _, cmd := range commands {
		fmt.Printf("  %s  %s\n", green(fmt.Sprintf("%-32s", cmd.name)), cmd.desc)
	}
	fmt.Println()
	return nil
}

// cmdExit exits the REPL
func (r *REPL) cmdExit(args []string) error {
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("\n%s Goodbye!\n", green("✓"))
	r.rl.Close()
	return io.EOF
}

func (r *REPL) cmdLoad(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: load <corpus.yaml>")
	}
	corpus, err := issuefile.LoadCorpus(args[0])
	if err != nil {
		return err
	}
	r.corpus = corpus
	fmt.Printf("Loaded %d issues\n", len(corpus))
	return nil
}

func (r *REPL) cmdCatalog(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: catalog <labels.yaml>")
	}
	catalog, err := issuefile.LoadLabels(args[0])
	if err != nil {
		return err
	}
	r.catalog = catalog
	fmt.Printf("Loaded %d labels\n", len(catalog))
	return nil
}

func (r *REPL) requireCorpus() error {
	if len(r.corpus) == 0 {
		return fmt.Errorf("no corpus loaded; use 'load <corpus.yaml>' first")
	}
	return nil
}

func (r *REPL) cmdDetect(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: detect <issue.yaml>")
	}
	if err := r.requireCorpus(); err != nil {
		return err
	}
	issue, err := issuefile.LoadIssue(args[0])
	if err != nil {
		return err
	}
	result, err := r.engine.DetectDuplicates(r.ctx, issue, r.corpus, nil)
	if err != nil {
		return err
	}
	render.Duplicates(os.Stdout, result)
	return nil
}

func (r *REPL) cmdRelated(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: related <issue.yaml>")
	}
	if err := r.requireCorpus(); err != nil {
		return err
	}
	issue, err := issuefile.LoadIssue(args[0])
	if err != nil {
		return err
	}
	relationships, err := r.engine.FindRelatedIssues(r.ctx, issue, r.corpus)
	if err != nil {
		return err
	}
	render.Relationships(os.Stdout, relationships)
	return nil
}

func (r *REPL) cmdLabels(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: labels <issue.yaml>")
	}
	issue, err := issuefile.LoadIssue(args[0])
	if err != nil {
		return err
	}
	// History reuses the loaded corpus: its labeled issues are the best
	// available sample of project conventions.
	result, err := r.engine.SuggestLabels(r.ctx, issue, r.catalog, labeledOnly(r.corpus))
	if err != nil {
		return err
	}
	render.Labels(os.Stdout, result)
	return nil
}

func (r *REPL) cmdEnrich(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: enrich <issue.yaml> [context...]")
	}
	issue, err := issuefile.LoadIssue(args[0])
	if err != nil {
		return err
	}
	result, err := r.engine.EnrichIssue(r.ctx, issue, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	render.Enriched(os.Stdout, result)
	return nil
}

func (r *REPL) cmdCache(args []string) error {
	fmt.Printf("Embedding cache: %d entries\n", r.engine.Cache().Len())
	return nil
}

// labeledOnly filters the corpus to issues that carry labels.
func labeledOnly(corpus []types.IssueContent) []types.IssueContent {
	var labeled []types.IssueContent
	for _, issue := range corpus {
		if len(issue.Labels) > 0 {
			labeled = append(labeled, issue)
		}
	}
	return labeled
}
