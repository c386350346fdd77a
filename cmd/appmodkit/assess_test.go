package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/appmodkit/internal/config"
	"github.com/nao1215/appmodkit/internal/model"
	"github.com/nao1215/appmodkit/internal/pipeline"
)

const testReport = `{
  "metadata": {
    "targetDisplayNames": ["Azure App Service"],
    "targetIds": ["azure-appservice"]
  },
  "rules": {
    "R1": {"severity": "mandatory", "title": "Fix X", "effort": 2,
      "links": [{"title": "Doc", "url": "https://example.com/x"}]}
  },
  "projects": [
    {
      "properties": {"appName": "svc1", "jdkVersion": "17"},
      "incidents": [
        {"ruleId": "R1", "labels": [], "targets": {"azure-appservice": {}}}
      ]
    }
  ]
}`

// filteredReport has a supported target but no qualifying incident.
const filteredReport = `{
  "metadata": {"targetIds": ["azure-appservice"]},
  "rules": {"R1": {"severity": "mandatory"}},
  "projects": [
    {
      "properties": {"appName": "svc1"},
      "incidents": [
        {"ruleId": "R1", "labels": ["type=info"], "targets": {"azure-appservice": {}}}
      ]
    }
  ]
}`

// writeReport creates an output folder containing report.json.
func writeReport(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, pipeline.ReportFileName), []byte(content), 0600); err != nil {
		t.Fatalf("failed to write report: %v", err)
	}
	return dir
}

func TestNewAssessCmd(t *testing.T) {
	t.Parallel()

	cmd := NewAssessCmd()

	tests := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{"output-path", "o", ""},
		{"issue-source", "s", "other"},
		{"json", "j", "false"},
		{"chart", "", "false"},
		{"no-history", "", "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			flag := cmd.Flags().Lookup(tt.name)
			if flag == nil {
				t.Fatalf("expected %s flag", tt.name)
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("expected shorthand %q, got %q", tt.shorthand, flag.Shorthand)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("expected default %q, got %q", tt.defValue, flag.DefValue)
			}
		})
	}
}

func TestRunAssessCmd(t *testing.T) {
	t.Parallel()

	t.Run("general summary", func(t *testing.T) {
		t.Parallel()

		dir := writeReport(t, testReport)
		stdout, stderr, err := executeCmd(t, t.TempDir(), "assess", "-o", dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stdout != "APPCAT_RESULT: success\n" {
			t.Errorf("unexpected stdout %q (stderr %q)", stdout, stderr)
		}

		summary, err := os.ReadFile(filepath.Join(dir, pipeline.SummaryFileName))
		if err != nil {
			t.Fatalf("summary.md not written: %v", err)
		}
		if !strings.HasPrefix(string(summary), "# App Modernization Assessment Summary") {
			t.Errorf("unexpected summary:\n%s", summary)
		}
	})

	t.Run("azuremigrate table with json output", func(t *testing.T) {
		t.Parallel()

		dir := writeReport(t, testReport)
		stdout, _, err := executeCmd(t, t.TempDir(), "assess", "-o", dir, "-s", "azuremigrate", "--json")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stdout != `{"AppCatResult":"success"}`+"\n" {
			t.Errorf("unexpected stdout %q", stdout)
		}

		summary, err := os.ReadFile(filepath.Join(dir, pipeline.SummaryFileName))
		if err != nil {
			t.Fatalf("summary.md not written: %v", err)
		}
		if !strings.Contains(string(summary), "| 1 | svc1 | azure-appservice | R1 | Fix X | mandatory | 2 | [Doc](https://example.com/x) | 1 |") {
			t.Errorf("unexpected summary:\n%s", summary)
		}
	})

	t.Run("missing report is a failure", func(t *testing.T) {
		t.Parallel()

		stdout, stderr, err := executeCmd(t, t.TempDir(), "assess", "-o", t.TempDir())
		if err != nil {
			t.Fatalf("assess must not return an error: %v", err)
		}
		if stdout != "APPCAT_RESULT: failure\n" {
			t.Errorf("unexpected stdout %q", stdout)
		}
		if strings.Contains(stderr, "Failed to generate assessment summary") {
			t.Errorf("missing report should not print a summary warning: %q", stderr)
		}
	})

	t.Run("empty document is a failure with warning", func(t *testing.T) {
		t.Parallel()

		dir := writeReport(t, "{}")
		stdout, stderr, err := executeCmd(t, t.TempDir(), "assess", "-o", dir)
		if err != nil {
			t.Fatalf("assess must not return an error: %v", err)
		}
		if stdout != "APPCAT_RESULT: failure\n" {
			t.Errorf("unexpected stdout %q", stdout)
		}
		if !strings.Contains(stderr, "Warning: Failed to generate assessment summary: ") {
			t.Errorf("expected summary warning on stderr, got %q", stderr)
		}
	})

	t.Run("unsupported targets is a failure", func(t *testing.T) {
		t.Parallel()

		dir := writeReport(t, strings.ReplaceAll(testReport, "azure-appservice", "openshift"))
		stdout, stderr, err := executeCmd(t, t.TempDir(), "assess", "-o", dir, "-s", "azuremigrate")
		if err != nil {
			t.Fatalf("assess must not return an error: %v", err)
		}
		if stdout != "APPCAT_RESULT: failure\n" {
			t.Errorf("unexpected stdout %q", stdout)
		}
		if !strings.Contains(stderr, "no target Azure services specified") {
			t.Errorf("expected target error on stderr, got %q", stderr)
		}
	})

	t.Run("nothing to summarize warns and succeeds", func(t *testing.T) {
		t.Parallel()

		dir := writeReport(t, filteredReport)
		stdout, _, err := executeCmd(t, t.TempDir(), "assess", "-o", dir, "-s", "azuremigrate")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := "Warning: No issues found in the assessment report.\nAPPCAT_RESULT: success\n"
		if stdout != want {
			t.Errorf("expected %q, got %q", want, stdout)
		}
		if _, err := os.Stat(filepath.Join(dir, pipeline.SummaryFileName)); !os.IsNotExist(err) {
			t.Error("summary.md must not be written")
		}
	})

	t.Run("invalid issue source is rejected", func(t *testing.T) {
		t.Parallel()

		_, _, err := executeCmd(t, t.TempDir(), "assess", "-o", t.TempDir(), "-s", "gcp")
		if err == nil {
			t.Error("expected error for invalid issue source")
		}
	})

	t.Run("output path is required", func(t *testing.T) {
		t.Parallel()

		if _, _, err := executeCmd(t, t.TempDir(), "assess"); err == nil {
			t.Error("expected error without --output-path")
		}
	})
}

func TestPrintAssessResult(t *testing.T) {
	t.Parallel()

	run := model.NewAssessmentRun("id", "/tmp", "other")
	run.Fail(errors.New("boom"))

	var stdout, stderr bytes.Buffer
	if err := printAssessResult(&stdout, &stderr, run, errors.New("boom"), true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout.String() != `{"AppCatResult":"failure"}`+"\n" {
		t.Errorf("unexpected stdout %q", stdout.String())
	}
	if stderr.String() != "Warning: Failed to generate assessment summary: boom\n" {
		t.Errorf("unexpected stderr %q", stderr.String())
	}
}

// executeWithHomeConfig runs the root command without --config so that
// .appmodkit is looked up in a temporary home directory holding content.
func executeWithHomeConfig(t *testing.T, content string, args ...string) (string, string, error) {
	t.Helper()

	home := t.TempDir()
	if err := os.WriteFile(filepath.Join(home, config.DefaultConfigFile), []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args, "--data-dir", t.TempDir(), "--no-history"))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// TestAssessWithBrokenHomeConfig uses t.Setenv and t.Chdir, so it cannot
// run in parallel.
func TestAssessWithBrokenHomeConfig(t *testing.T) {
	t.Run("history limit does not affect assess", func(t *testing.T) {
		dir := writeReport(t, testReport)
		stdout, stderr, err := executeWithHomeConfig(t, "history:\n  limit: -1\n", "assess", "-o", dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stdout != "APPCAT_RESULT: success\n" {
			t.Errorf("unexpected stdout %q (stderr %q)", stdout, stderr)
		}
		if _, err := os.Stat(filepath.Join(dir, pipeline.SummaryFileName)); err != nil {
			t.Errorf("summary.md not written: %v", err)
		}
	})

	t.Run("malformed yaml reports failure", func(t *testing.T) {
		dir := writeReport(t, testReport)
		stdout, stderr, err := executeWithHomeConfig(t, "assess: [\n", "assess", "-o", dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stdout != "APPCAT_RESULT: failure\n" {
			t.Errorf("unexpected stdout %q", stdout)
		}
		if !strings.Contains(stderr, "Warning: Failed to generate assessment summary: failed to load config file") {
			t.Errorf("expected config diagnostic, got %q", stderr)
		}
		if _, err := os.Stat(filepath.Join(dir, pipeline.SummaryFileName)); !os.IsNotExist(err) {
			t.Error("summary.md must not be written")
		}
	})

	t.Run("malformed yaml reports failure as json", func(t *testing.T) {
		stdout, _, err := executeWithHomeConfig(t, "assess: [\n", "assess", "-o", writeReport(t, testReport), "--json")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stdout != `{"AppCatResult":"failure"}`+"\n" {
			t.Errorf("unexpected stdout %q", stdout)
		}
	})

	t.Run("invalid issue source in config file reports failure", func(t *testing.T) {
		stdout, stderr, err := executeWithHomeConfig(t, "assess:\n  issueSource: gcp\n", "assess", "-o", writeReport(t, testReport))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stdout != "APPCAT_RESULT: failure\n" {
			t.Errorf("unexpected stdout %q", stdout)
		}
		if !strings.Contains(stderr, config.ErrInvalidIssueSource.Error()) {
			t.Errorf("expected issue source diagnostic, got %q", stderr)
		}
	})

	t.Run("flag overrides invalid issue source in config file", func(t *testing.T) {
		stdout, _, err := executeWithHomeConfig(t, "assess:\n  issueSource: gcp\n", "assess", "-o", writeReport(t, testReport), "-s", "other")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stdout != "APPCAT_RESULT: success\n" {
			t.Errorf("unexpected stdout %q", stdout)
		}
	})
}
