package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/appmodkit/internal/model"
	"github.com/nao1215/markdown"
)

// issueTableTitle is the H1 of the target-service issue table.
const issueTableTitle = "Assessment Report - Issues Summary"

// issueTableHeader is the column header of the issue table.
var issueTableHeader = []string{
	"#", "Web-app name", "Target Ids", "Issue Id", "Issue Title",
	"Criticality", "Effort", "Links", "Incident Number",
}

// IssueTableWriter outputs the target-service issue table in Markdown.
// It writes nothing when no issue qualifies.
type IssueTableWriter struct {
	baseWriter
}

// NewIssueTableWriter creates an IssueTableWriter that outputs to the given writer.
func NewIssueTableWriter(output io.Writer) *IssueTableWriter {
	return &IssueTableWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the issue table.
// It returns ErrNoRecognizedTarget when the document has no supported target.
func (w *IssueTableWriter) Write(doc *model.AssessmentDocument) (int, error) {
	issues, err := Issues(doc)
	if err != nil {
		return 0, err
	}
	if len(issues) == 0 {
		return 0, nil
	}

	rows := make([][]string, 0, len(issues))
	for _, issue := range issues {
		rows = append(rows, []string{
			strconv.Itoa(issue.Index),
			escapeCell(issue.AppName),
			escapeCell(strings.Join(issue.TargetServices, ",")),
			escapeCell(issue.RuleID),
			escapeCell(issue.Title),
			escapeCell(issue.Criticality),
			strconv.Itoa(issue.Effort),
			escapeCell(issue.Links),
			strconv.Itoa(issue.IncidentNumber),
		})
	}

	md := markdown.NewMarkdown(w.output)
	md.H1(issueTableTitle)
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: issueTableHeader,
		Rows:   rows,
	})

	return len(md.String()), md.Build()
}

// escapeCell keeps a pipe inside a value from splitting the table cell.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
