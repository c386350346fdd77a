package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nao1215/appmodkit/internal/config"
	"github.com/nao1215/appmodkit/internal/history"
	"github.com/nao1215/appmodkit/internal/model"
	"github.com/nao1215/appmodkit/internal/pipeline"
	"github.com/nao1215/appmodkit/internal/report"
)

// assessResult is the JSON output of the assess command.
type assessResult struct {
	AppCatResult string `json:"AppCatResult"`
}

// NewAssessCmd creates the assess command.
func NewAssessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Summarize an AppCat assessment report",
		Long: `Assess reads report.json from the output folder and writes summary.md
next to it.

Two summary formats are available:
- other (default): per-application statistics, profiles and key findings
- azuremigrate: one table row per target service, severity and effort

The command always exits successfully and reports the outcome as
APPCAT_RESULT: success or APPCAT_RESULT: failure. When the report has
nothing to summarize, no file is written and a warning is printed.

Examples:
  # Summarize ./appcat/report.json into ./appcat/summary.md
  appmodkit assess -o ./appcat

  # Target-service table for Azure migration
  appmodkit assess -o ./appcat -s azuremigrate

  # JSON status output
  appmodkit assess -o ./appcat --json`,
		Args: cobra.NoArgs,
		RunE: runAssessCmd,
	}

	cmd.Flags().StringP("output-path", "o", "",
		"Folder containing report.json (summary.md is written there)")
	cmd.Flags().StringP("issue-source", "s", config.DefaultIssueSource,
		"Summary format: azuremigrate or other")
	cmd.Flags().BoolP("json", "j", false,
		"Output the result as JSON")
	cmd.Flags().Bool("chart", false,
		"Add a severity pie chart to the general summary")
	cmd.Flags().Bool("no-history", false,
		"Do not record this run in the history database")

	_ = cmd.MarkFlagRequired("output-path") //nolint:errcheck // flag is defined above

	return cmd
}

// runAssessCmd executes the assess command.
// Only invalid flag values are returned as errors. A broken configuration
// file is reported as a failed run like every other assessment failure.
func runAssessCmd(cmd *cobra.Command, _ []string) error {
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("issue-source") {
		source, err := cmd.Flags().GetString("issue-source")
		if err != nil {
			return err
		}
		if err := config.ValidateIssueSource(source); err != nil {
			return fmt.Errorf("invalid --issue-source %q: %w", source, err)
		}
	}

	cfg, err := buildAssessConfig(cmd)
	if err == nil {
		if verr := cfg.ValidateAssess(); verr != nil {
			err = fmt.Errorf("configuration error: %w", verr)
		}
	}
	if err != nil {
		return printAssessSetupFailure(cmd, err, jsonOutput)
	}

	logger := setupLogger(cmd, cfg.Verbose)

	ctx, cancel := signalContext(cmd.Context(), logger)
	defer cancel()

	run, runErr := runAssessment(ctx, cfg, logger)

	if cfg.RecordHistory {
		recordHistory(ctx, cfg, run, logger)
	}

	return printAssessResult(cmd.OutOrStdout(), cmd.ErrOrStderr(), run, runErr, cfg.JSONOutput)
}

// buildAssessConfig creates a Config from the config file and assess flags.
func buildAssessConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := buildBaseConfig(cmd)
	if err != nil {
		return nil, err
	}

	cfg.OutputPath, err = cmd.Flags().GetString("output-path")
	if err != nil {
		return nil, err
	}

	// The config file default only applies when the flag is not given.
	if cmd.Flags().Changed("issue-source") {
		cfg.IssueSource, err = cmd.Flags().GetString("issue-source")
		if err != nil {
			return nil, err
		}
	}

	cfg.JSONOutput, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("chart") {
		cfg.SeverityChart, err = cmd.Flags().GetBool("chart")
		if err != nil {
			return nil, err
		}
	}

	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return nil, err
	}
	if noHistory {
		cfg.RecordHistory = false
	}

	return cfg, nil
}

// runAssessment runs the load, render and write pipeline.
// The returned run carries the result; the error is the pipeline failure.
func runAssessment(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*model.AssessmentRun, error) {
	run := model.NewAssessmentRun(uuid.NewString(), cfg.OutputPath, cfg.IssueSource)

	p := pipeline.DefaultAssessPipeline(
		[]pipeline.Option{pipeline.WithLogger(logger)},
		report.WithSeverityChart(cfg.SeverityChart),
	)

	logger.Info("starting assessment",
		"runID", run.ID,
		"outputPath", cfg.OutputPath,
		"issueSource", cfg.IssueSource,
	)

	return run, p.Execute(ctx, run)
}

// recordHistory stores the run. Errors are logged and never change the
// assessment result.
func recordHistory(ctx context.Context, cfg *config.Config, run *model.AssessmentRun, logger *slog.Logger) {
	store, err := history.Open(cfg.DatabasePath(), history.DefaultOptions())
	if err != nil {
		logger.Warn("failed to open history database", "db", cfg.DatabasePath(), "error", err)
		return
	}
	defer store.Close()

	if err := store.Record(ctx, run); err != nil {
		logger.Warn("failed to record assessment run", "runID", run.ID, "error", err)
		return
	}
	logger.Debug("recorded assessment run", "runID", run.ID, "db", store.Path())
}

// printAssessSetupFailure reports a run that failed before the pipeline
// started. Nothing is recorded in the history database.
func printAssessSetupFailure(cmd *cobra.Command, setupErr error, jsonOutput bool) error {
	outputPath, _ := cmd.Flags().GetString("output-path")   //nolint:errcheck // flag is defined in NewAssessCmd
	issueSource, _ := cmd.Flags().GetString("issue-source") //nolint:errcheck // flag is defined in NewAssessCmd

	run := model.NewAssessmentRun(uuid.NewString(), outputPath, issueSource)
	run.Fail(setupErr)
	return printAssessResult(cmd.OutOrStdout(), cmd.ErrOrStderr(), run, setupErr, jsonOutput)
}

// printAssessResult prints warnings and the APPCAT_RESULT status.
// A missing report.json only reports failure; other errors are also
// printed to stderr.
func printAssessResult(stdout, stderr io.Writer, run *model.AssessmentRun, runErr error, jsonOutput bool) error {
	if runErr != nil && !errors.Is(runErr, pipeline.ErrReportNotFound) {
		fmt.Fprintf(stderr, "Warning: Failed to generate assessment summary: %v\n", runErr)
	}
	for _, w := range run.Warnings {
		fmt.Fprintf(stdout, "Warning: %s\n", w)
	}

	if jsonOutput {
		_, err := report.NewJSONWriter(stdout).Write(assessResult{AppCatResult: run.Result})
		return err
	}

	_, err := fmt.Fprintf(stdout, "APPCAT_RESULT: %s\n", run.Result)
	return err
}
