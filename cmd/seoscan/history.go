package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/audiencelab/seoscan/internal/config"
	"github.com/audiencelab/seoscan/internal/database"
	"github.com/audiencelab/seoscan/internal/model"
	"github.com/audiencelab/seoscan/internal/report"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [target-website]",
		Short: "Show past research runs for a target website",
		Long: `History lists the research runs recorded in the local database.

Without arguments it lists all researched target websites. With a
target it prints a summary of each recorded run, newest first.

Examples:
  # List all researched targets
  seoscan history

  # Show run history for a target
  seoscan history example.com

  # Show the full latest report for a target
  seoscan history --latest example.com

  # Output JSON
  seoscan history --json example.com`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("json", "j", false, "Output JSON")
	cmd.Flags().Bool("latest", false, "Show only the most recent run, as a full report")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	jsonOut, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	latestOnly, err := cmd.Flags().GetBool("latest")
	if err != nil {
		return err
	}

	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	db, err := database.Open(config.XDGDataDir(), database.Options{
		CreateIfNotExists: false,
		EnableWAL:         true,
	})
	if err != nil {
		return fmt.Errorf("no research history found (run 'seoscan research' first): %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if len(args) == 0 {
		return listTargets(ctx, db, jsonOut)
	}

	_, display, err := model.NormalizeTarget(args[0])
	if err != nil {
		return fmt.Errorf("invalid target website %q: %w", args[0], err)
	}

	if latestOnly {
		return showLatestRun(ctx, db, display, jsonOut)
	}

	return showRunHistory(ctx, db, display, jsonOut)
}

// listTargets prints all target websites with recorded runs.
func listTargets(ctx context.Context, db *database.ResearchDB, jsonOut bool) error {
	targets, err := db.ListTargets(ctx)
	if err != nil {
		return fmt.Errorf("failed to list targets: %w", err)
	}

	if jsonOut {
		w := report.NewJSONWriter(os.Stdout, report.WithPrettyPrint())
		return w.WriteValue(targets)
	}

	if len(targets) == 0 {
		fmt.Println("No research runs recorded yet.")
		return nil
	}

	fmt.Printf("Researched targets (%d):\n", len(targets))
	for _, t := range targets {
		fmt.Printf("  %s\n", t)
	}
	return nil
}

// showRunHistory prints a summary of each recorded run for a target.
func showRunHistory(ctx context.Context, db *database.ResearchDB, target string, jsonOut bool) error {
	runs, err := db.GetRunHistory(ctx, target)
	if err != nil {
		if errors.Is(err, database.ErrNoRuns) {
			return fmt.Errorf("no runs recorded for %s", target)
		}
		return fmt.Errorf("failed to load run history: %w", err)
	}

	summaries := make([]*model.RunSummary, 0, len(runs))
	for _, r := range runs {
		summaries = append(summaries, model.NewRunSummary(r))
	}

	if jsonOut {
		w := report.NewJSONWriter(os.Stdout, report.WithPrettyPrint())
		return w.WriteValue(summaries)
	}

	fmt.Printf("Run history for %s (%d runs, newest first):\n\n", target, len(runs))
	w := report.NewSimpleWriter(os.Stdout)
	for _, s := range summaries {
		if _, err := w.WriteSummary(s); err != nil {
			return err
		}
		fmt.Println()
	}
	return nil
}

// showLatestRun prints the full report of the most recent run.
func showLatestRun(ctx context.Context, db *database.ResearchDB, target string, jsonOut bool) error {
	run, err := db.GetLatestRun(ctx, target)
	if err != nil {
		if errors.Is(err, database.ErrNoRuns) {
			return fmt.Errorf("no runs recorded for %s", target)
		}
		return fmt.Errorf("failed to load latest run: %w", err)
	}

	var w report.Writer
	if jsonOut {
		w = report.NewJSONWriter(os.Stdout, report.WithPrettyPrint())
	} else {
		w = report.NewSimpleWriter(os.Stdout, report.WithVerbose(true))
	}

	_, err = w.Write(run)
	return err
}
