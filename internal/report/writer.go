package report

import (
	"bytes"
	"io"
	"strings"

	"github.com/nao1215/appmodkit/internal/model"
)

// IssueSourceAzureMigrate is the issue source that selects ModeAzureMigrate.
const IssueSourceAzureMigrate = "azuremigrate"

// Mode selects the summary format.
type Mode int

const (
	// ModeGeneral renders the general assessment summary.
	ModeGeneral Mode = iota

	// ModeAzureMigrate renders the target-service issue table.
	ModeAzureMigrate
)

// String returns the issue source name of the mode.
func (m Mode) String() string {
	if m == ModeAzureMigrate {
		return IssueSourceAzureMigrate
	}
	return "other"
}

// ParseMode maps an issue source to a Mode.
// "azuremigrate" (any case) selects ModeAzureMigrate; everything else
// selects ModeGeneral.
func ParseMode(issueSource string) Mode {
	if strings.EqualFold(strings.TrimSpace(issueSource), IssueSourceAzureMigrate) {
		return ModeAzureMigrate
	}
	return ModeGeneral
}

// Writer defines the interface for summary output.
// Implementations render an assessment document in one format.
type Writer interface {
	// Write renders the document to the configured destination.
	// Returns the number of bytes written and any error encountered.
	// Writing zero bytes with a nil error means there was nothing to report.
	Write(doc *model.AssessmentDocument) (int, error)
}

// Option configures rendering.
type Option func(*options)

// options holds settings shared by all writers.
type options struct {
	// severityChart appends a mermaid pie chart to the general summary.
	severityChart bool
}

// WithSeverityChart enables the severity distribution pie chart in the
// general summary. It has no effect on the issue table.
func WithSeverityChart(enabled bool) Option {
	return func(o *options) {
		o.severityChart = enabled
	}
}

// newOptions applies opts over the defaults.
func newOptions(opts ...Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewWriter returns the Writer for the given mode.
func NewWriter(output io.Writer, mode Mode, opts ...Option) Writer {
	if mode == ModeAzureMigrate {
		return NewIssueTableWriter(output)
	}
	return NewSummaryWriter(output, opts...)
}

// Render renders doc in the given mode and returns the markdown.
//
// ModeGeneral always returns a document. ModeAzureMigrate returns an empty
// string when no issue qualifies, and ErrNoRecognizedTarget when none of the
// document's targets is supported.
func Render(doc *model.AssessmentDocument, mode Mode, opts ...Option) (string, error) {
	var buf bytes.Buffer
	if _, err := NewWriter(&buf, mode, opts...).Write(doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
