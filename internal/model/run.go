package model

import "time"

// Assessment results reported by the assess command.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// AssessmentRun is the state of one assess invocation.
// Pipeline steps fill it in order: load, render, write.
type AssessmentRun struct {
	// ID uniquely identifies the run in the history store.
	ID string `json:"id"`

	// OutputPath is the folder containing report.json and summary.md.
	OutputPath string `json:"output_path"`

	// IssueSource selects the summary format ("azuremigrate" or "other").
	IssueSource string `json:"issue_source"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// Document is the parsed report.json. Nil until the load step succeeds.
	Document *AssessmentDocument `json:"-"`

	// Markdown is the rendered summary. Empty when nothing qualified.
	Markdown string `json:"-"`

	// SummaryPath is the file written by the write step, if any.
	SummaryPath string `json:"summary_path,omitempty"`

	// Warnings are non-fatal conditions to surface to the user.
	Warnings []string `json:"warnings,omitempty"`

	// Stats summarizes the document for the history store.
	Stats RunStats `json:"stats"`

	// Result is ResultSuccess or ResultFailure.
	Result string `json:"result"`

	// ErrorMessage holds the failure reason when Result is ResultFailure.
	ErrorMessage string `json:"error,omitempty"`

	// CompletedSteps lists the pipeline steps that finished, in order.
	CompletedSteps []string `json:"-"`
}

// RunStats aggregates what a run found.
type RunStats struct {
	// Applications is the number of application groups in the summary.
	Applications int `json:"applications"`

	// Severity counts distinct rules per severity across all applications.
	Severity SeverityCounts `json:"severity"`

	// Issues is the number of rows in the target-service table.
	Issues int `json:"issues"`
}

// NewAssessmentRun creates a run for the given folder and issue source.
func NewAssessmentRun(id, outputPath, issueSource string) *AssessmentRun {
	return &AssessmentRun{
		ID:          id,
		OutputPath:  outputPath,
		IssueSource: issueSource,
		StartedAt:   time.Now(),
		Result:      ResultSuccess,
	}
}

// AddWarning records a non-fatal condition.
func (r *AssessmentRun) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Fail marks the run as failed with the given error.
func (r *AssessmentRun) Fail(err error) {
	r.Result = ResultFailure
	if err != nil {
		r.ErrorMessage = err.Error()
	}
}
