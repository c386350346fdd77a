package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nao1215/appmodkit/internal/plan"
	"github.com/nao1215/appmodkit/internal/report"
)

// runPlanResult is the JSON output of the run-plan command.
// Absent values are omitted, so an empty result prints {}.
type runPlanResult struct {
	GitHubIssueURI string `json:"GitHubIssueURI,omitempty"`
	PlanLocation   string `json:"PlanLocation,omitempty"`
}

// NewRunPlanCmd creates the run-plan command.
func NewRunPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run-plan",
		Short: "Locate the latest modernization plan",
		Long: `Run-plan prints the plan.md of the highest-numbered plan folder under
.github/modernization/ that has one, and the GitHub issue URI when known.

It also makes sure .github/modernization/.gitignore ignores progress notes.
Nothing is printed for values that are not available.

Examples:
  appmodkit run-plan
  appmodkit run-plan -g https://github.com/org/repo/issues/1 --json`,
		Args: cobra.NoArgs,
		RunE: runRunPlanCmd,
	}

	cmd.Flags().StringP("github-issue", "g", "",
		"GitHub issue URI (default: $GITHUB_ISSUE_URI)")
	cmd.Flags().BoolP("json", "j", false,
		"Output the result as JSON")

	return cmd
}

// runRunPlanCmd executes the run-plan command.
func runRunPlanCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildBaseConfig(cmd)
	if err != nil {
		return err
	}

	issueFlag, err := cmd.Flags().GetString("github-issue")
	if err != nil {
		return err
	}
	cfg.JSONOutput, err = cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	logger := setupLogger(cmd, cfg.Verbose)

	root, err := repoRoot(cfg)
	if err != nil {
		return err
	}

	location, err := plan.NewWorkspace(root).Latest()
	if err != nil {
		if !errors.Is(err, plan.ErrNoPlan) {
			return fmt.Errorf("failed to find the latest plan: %w", err)
		}
		logger.Debug("no plan found", "root", root)
	}

	return printRunPlanResult(cmd.OutOrStdout(), runPlanResult{
		GitHubIssueURI: issueURI(issueFlag),
		PlanLocation:   location,
	}, cfg.JSONOutput)
}

// printRunPlanResult prints the present values as KEY: value lines or JSON.
func printRunPlanResult(w io.Writer, res runPlanResult, jsonOutput bool) error {
	if jsonOutput {
		_, err := report.NewJSONWriter(w).Write(res)
		return err
	}

	if res.GitHubIssueURI != "" {
		if _, err := fmt.Fprintf(w, "GITHUB_ISSUE_URI: %s\n", res.GitHubIssueURI); err != nil {
			return err
		}
	}
	if res.PlanLocation != "" {
		if _, err := fmt.Fprintf(w, "PLAN_LOCATION: %s\n", res.PlanLocation); err != nil {
			return err
		}
	}
	return nil
}
