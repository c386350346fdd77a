package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nao1215/appmodkit/internal/model"
	"github.com/nao1215/appmodkit/internal/report"
)

const (
	// ReportFileName is the assessment report read from the output folder.
	ReportFileName = "report.json"

	// SummaryFileName is the summary written to the output folder.
	SummaryFileName = "summary.md"

	// NoIssuesWarning is recorded when the summary has nothing to report.
	NoIssuesWarning = "No issues found in the assessment report."
)

// LoadStep reads and parses report.json from the run's output folder.
type LoadStep struct {
	logger *slog.Logger
}

// LoadStepOption configures a LoadStep.
type LoadStepOption func(*LoadStep)

// WithLoadLogger sets a custom logger for the load step.
func WithLoadLogger(logger *slog.Logger) LoadStepOption {
	return func(s *LoadStep) {
		s.logger = logger
	}
}

// NewLoadStep creates a new load step.
func NewLoadStep(opts ...LoadStepOption) *LoadStep {
	s := &LoadStep{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *LoadStep) Name() string {
	return "load"
}

// Do reads <output>/report.json into run.Document.
// A missing file returns ErrReportNotFound and an empty document returns
// model.ErrEmptyDocument.
func (s *LoadStep) Do(_ context.Context, run *model.AssessmentRun) error {
	path := filepath.Join(run.OutputPath, ReportFileName)

	data, err := os.ReadFile(path) //nolint:gosec // path comes from --output-path
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrReportNotFound, path)
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	doc, err := model.ParseAssessmentDocument(data)
	if err != nil {
		return err
	}

	s.logger.Debug("loaded assessment report",
		"path", path,
		"projects", len(doc.Projects),
		"rules", len(doc.Rules),
	)
	run.Document = doc
	return nil
}

// RenderStep renders the summary markdown for the run's issue source.
type RenderStep struct {
	logger     *slog.Logger
	renderOpts []report.Option
}

// RenderStepOption configures a RenderStep.
type RenderStepOption func(*RenderStep)

// WithRenderLogger sets a custom logger for the render step.
func WithRenderLogger(logger *slog.Logger) RenderStepOption {
	return func(s *RenderStep) {
		s.logger = logger
	}
}

// WithRenderOptions passes options to report.Render.
func WithRenderOptions(opts ...report.Option) RenderStepOption {
	return func(s *RenderStep) {
		s.renderOpts = append(s.renderOpts, opts...)
	}
}

// NewRenderStep creates a new render step.
func NewRenderStep(opts ...RenderStepOption) *RenderStep {
	s := &RenderStep{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *RenderStep) Name() string {
	return "render"
}

// Do renders run.Document into run.Markdown and fills run.Stats.
// The markdown is empty when the issue table has no rows.
func (s *RenderStep) Do(_ context.Context, run *model.AssessmentRun) error {
	if run.Document == nil {
		return model.ErrEmptyDocument
	}

	mode := report.ParseMode(run.IssueSource)
	md, err := report.Render(run.Document, mode, s.renderOpts...)
	if err != nil {
		return err
	}

	apps := report.Summarize(run.Document)
	run.Stats = model.RunStats{Applications: len(apps)}
	for _, app := range apps {
		run.Stats.Severity.Merge(app.Severity)
	}
	if mode == report.ModeAzureMigrate {
		issues, err := report.Issues(run.Document)
		if err != nil {
			return err
		}
		run.Stats.Issues = len(issues)
	}

	s.logger.Debug("rendered summary",
		"mode", mode.String(),
		"applications", run.Stats.Applications,
		"issues", run.Stats.Issues,
		"bytes", len(md),
	)
	run.Markdown = md
	return nil
}

// WriteStep writes the rendered markdown to summary.md.
type WriteStep struct {
	logger *slog.Logger
}

// WriteStepOption configures a WriteStep.
type WriteStepOption func(*WriteStep)

// WithWriteLogger sets a custom logger for the write step.
func WithWriteLogger(logger *slog.Logger) WriteStepOption {
	return func(s *WriteStep) {
		s.logger = logger
	}
}

// NewWriteStep creates a new write step.
func NewWriteStep(opts ...WriteStepOption) *WriteStep {
	s := &WriteStep{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *WriteStep) Name() string {
	return "write"
}

// Do writes run.Markdown to <output>/summary.md.
// When there is nothing to report it records NoIssuesWarning and leaves any
// existing summary.md untouched.
func (s *WriteStep) Do(_ context.Context, run *model.AssessmentRun) error {
	if run.Markdown == "" {
		run.AddWarning(NoIssuesWarning)
		return nil
	}

	path := filepath.Join(run.OutputPath, SummaryFileName)
	if err := os.WriteFile(path, []byte(run.Markdown), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	s.logger.Debug("wrote summary", "path", path)
	run.SummaryPath = path
	return nil
}

// DefaultAssessPipeline creates the load, render and write pipeline used
// by the assess command. The pipeline's logger is shared with every step.
func DefaultAssessPipeline(pipelineOpts []Option, renderOpts ...report.Option) *Pipeline {
	p := New(pipelineOpts...)
	logger := p.Logger()

	p.AddSteps(
		NewLoadStep(WithLoadLogger(logger)),
		NewRenderStep(WithRenderLogger(logger), WithRenderOptions(renderOpts...)),
		NewWriteStep(WithWriteLogger(logger)),
	)
	return p
}
