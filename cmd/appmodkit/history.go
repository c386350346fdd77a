package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/appmodkit/internal/history"
	"github.com/nao1215/appmodkit/internal/model"
	"github.com/nao1215/appmodkit/internal/report"
)

// noFindingsMessage is shown for runs without reported severities.
const noFindingsMessage = "No findings"

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded assess runs",
		Long: `History lists the latest assess runs recorded in the history database,
newest first.

Each run shows its result, the assessed folder, the summary format and the
number of distinct rules per severity (M: mandatory, P: potential,
O: optional).

Examples:
  # Show the last 20 runs
  appmodkit history

  # Show the last 5 runs as JSON
  appmodkit history -n 5 --json`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 0,
		"Number of runs to show (default: 20 or history.limit from the config file)")
	cmd.Flags().BoolP("json", "j", false,
		"Output runs as indented JSON")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildBaseConfig(cmd)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("limit") {
		cfg.HistoryLimit, err = cmd.Flags().GetInt("limit")
		if err != nil {
			return err
		}
	}
	cfg.JSONOutput, err = cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	if err := cfg.ValidateHistory(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd, cfg.Verbose)

	ctx, cancel := signalContext(cmd.Context(), logger)
	defer cancel()

	var entries []history.Entry

	// A missing database only means nothing was recorded yet.
	opts := history.DefaultOptions()
	opts.CreateIfNotExists = false
	store, err := history.Open(cfg.DatabasePath(), opts)
	switch {
	case errors.Is(err, history.ErrDatabaseNotFound):
		logger.Debug("history database not found", "db", cfg.DatabasePath())
	case err != nil:
		return fmt.Errorf("failed to open history database: %w", err)
	default:
		defer store.Close()
		entries, err = store.List(ctx, cfg.HistoryLimit)
		if err != nil {
			return err
		}
	}

	if cfg.JSONOutput {
		if entries == nil {
			entries = []history.Entry{}
		}
		_, err := report.NewJSONWriter(cmd.OutOrStdout(), report.WithPrettyPrint()).Write(entries)
		return err
	}
	return printHistory(cmd.OutOrStdout(), entries)
}

// printHistory prints runs as a text table.
func printHistory(w io.Writer, entries []history.Entry) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No assessment runs recorded yet.")
		fmt.Fprintln(w, "\nUse 'appmodkit assess -o <dir>' to assess an application.")
		return nil
	}

	fmt.Fprintf(w, "Assessment runs (%d):\n\n", len(entries))
	fmt.Fprintf(w, "  %-20s  %-8s  %-12s  %-16s  %s\n", "Date", "Result", "Source", "Findings", "Output Path")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 80))

	for _, e := range entries {
		fmt.Fprintf(w, "  %-20s  %-8s  %-12s  %-16s  %s\n",
			e.StartedAt.Local().Format("2006-01-02 15:04:05"),
			e.Result,
			e.IssueSource,
			formatSeveritySummary(e.Severity),
			e.OutputPath,
		)
	}
	return nil
}

// formatSeveritySummary formats reported severity counts as "M:1 P:2 O:3".
func formatSeveritySummary(c model.SeverityCounts) string {
	var parts []string
	if c.Mandatory > 0 {
		parts = append(parts, fmt.Sprintf("M:%d", c.Mandatory))
	}
	if c.Potential > 0 {
		parts = append(parts, fmt.Sprintf("P:%d", c.Potential))
	}
	if c.Optional > 0 {
		parts = append(parts, fmt.Sprintf("O:%d", c.Optional))
	}

	if len(parts) == 0 {
		return noFindingsMessage
	}
	return strings.Join(parts, " ")
}
