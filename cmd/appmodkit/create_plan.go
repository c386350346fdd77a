package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nao1215/appmodkit/internal/plan"
	"github.com/nao1215/appmodkit/internal/report"
	"github.com/nao1215/appmodkit/internal/vcs"
)

// shortNameHint explains what a short name should look like.
const shortNameHint = "A concise short name (5-10 words) that describes the modernization intent, " +
	"e.g., 'modernize-complete-application'"

// createPlanResult is the JSON output of the create-plan command.
type createPlanResult struct {
	BranchName     string `json:"BranchName"`
	PlanFolderName string `json:"PlanFolderName"`
	GitHubIssueURI string `json:"GitHubIssueURI,omitempty"`
}

// branchOpener returns the BranchCreator of the repository at root.
type branchOpener func(root string) (vcs.BranchCreator, error)

// openGitBranchCreator opens the git repository containing root.
func openGitBranchCreator(root string) (vcs.BranchCreator, error) {
	repo, err := vcs.OpenGitRepository(root)
	if err != nil {
		return nil, err
	}
	return repo, nil
}

// NewCreatePlanCmd creates the create-plan command.
func NewCreatePlanCmd() *cobra.Command {
	return newCreatePlanCmd(openGitBranchCreator)
}

// newCreatePlanCmd creates the create-plan command with the given branch
// backend.
func newCreatePlanCmd(openBranches branchOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-plan",
		Short: "Create a numbered modernization plan and its branch",
		Long: `Create-plan creates the next numbered plan folder under
.github/modernization/ and checks out a git branch of the same name.

The branch name is <number>-<short-name>, where the number is one more than
the highest existing plan and the short name is lowercased with every other
character replaced by a hyphen. Names are truncated to GitHub's 244-byte
limit. A failure to create the branch is reported as a warning and the plan
folder is still created.

The GitHub issue URI defaults to the GITHUB_ISSUE_URI environment variable.

Examples:
  # Create .github/modernization/001-upgrade-to-java-21 and its branch
  appmodkit create-plan -s "Upgrade to Java 21"

  # Attach a GitHub issue and print JSON
  appmodkit create-plan -s "Upgrade to Java 21" -g https://github.com/org/repo/issues/1 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCreatePlan(cmd, openBranches)
		},
	}

	cmd.Flags().StringP("short-name", "s", "",
		"Short name describing the modernization intent")
	cmd.Flags().StringP("github-issue-uri", "g", "",
		"GitHub issue URI (default: $GITHUB_ISSUE_URI)")
	cmd.Flags().BoolP("json", "j", false,
		"Output the result as JSON")

	_ = cmd.MarkFlagRequired("short-name") //nolint:errcheck // flag is defined above

	return cmd
}

// runCreatePlan executes the create-plan command.
func runCreatePlan(cmd *cobra.Command, openBranches branchOpener) error {
	cfg, err := buildBaseConfig(cmd)
	if err != nil {
		return err
	}

	shortName, err := cmd.Flags().GetString("short-name")
	if err != nil {
		return err
	}
	issueFlag, err := cmd.Flags().GetString("github-issue-uri")
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

	ws := plan.NewWorkspace(root)
	p, err := ws.Create(shortName)
	if err != nil {
		if errors.Is(err, plan.ErrShortNameRequired) {
			return fmt.Errorf("%w.\n%s", err, shortNameHint)
		}
		return err
	}

	stderr := cmd.ErrOrStderr()
	if p.Branch.Truncated() {
		printTruncation(stderr, p.Branch)
	}

	branches, err := openBranches(root)
	if err == nil {
		err = branches.CreateBranch(p.Branch.Name)
	}
	if err != nil {
		logger.Debug("branch creation failed", "branch", p.Branch.Name, "error", err)
		fmt.Fprintf(stderr, "Warning: Failed to create git branch: %s\n", p.Branch.Name)
	}

	return printCreatePlanResult(cmd.OutOrStdout(), createPlanResult{
		BranchName:     p.Branch.Name,
		PlanFolderName: p.Folder,
		GitHubIssueURI: issueURI(issueFlag),
	}, cfg.JSONOutput)
}

// printTruncation reports a branch name shortened to the GitHub limit.
func printTruncation(w io.Writer, b plan.Branch) {
	fmt.Fprintf(w, "Warning: Branch name exceeded GitHub's %d-byte limit\n", plan.MaxBranchNameLength)
	fmt.Fprintf(w, "Original: %s (%d bytes)\n", b.Original, len(b.Original))
	fmt.Fprintf(w, "Truncated to: %s (%d bytes)\n", b.Name, len(b.Name))
}

// printCreatePlanResult prints the plan as KEY: value lines or JSON.
func printCreatePlanResult(w io.Writer, res createPlanResult, jsonOutput bool) error {
	if jsonOutput {
		_, err := report.NewJSONWriter(w).Write(res)
		return err
	}

	if res.GitHubIssueURI != "" {
		fmt.Fprintf(w, "GITHUB_ISSUE_URI: %s\n", res.GitHubIssueURI)
	}
	fmt.Fprintf(w, "BRANCH_NAME: %s\n", res.BranchName)
	_, err := fmt.Fprintf(w, "PLAN_FOLDER_NAME: %s\n", res.PlanFolderName)
	return err
}
