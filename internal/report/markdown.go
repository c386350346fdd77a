package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/appmodkit/internal/model"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// summaryTitle is the H1 of the general summary.
	summaryTitle = "App Modernization Assessment Summary"

	// guidanceTitle and guidanceURL form the link of the Next Steps section.
	guidanceTitle = "GitHub Copilot App Modernization"
	guidanceURL   = "https://aka.ms/ghcp-appmod"
)

// severityLegend explains each reported severity, in display order.
// Information severity is not documented by the analyzer and is not shown.
var severityLegend = []struct {
	severity    model.Severity
	explanation string
}{
	{model.SeverityMandatory, "The issue has to be resolved for the migration to be successful."},
	{model.SeverityPotential, "This issue may be blocking in some situations but not in others. These issues should be reviewed to determine whether a change is required or not."},
	{model.SeverityOptional, "The issue discovered is real issue fixing which could improve the app after migration, however it is not blocking."},
}

// SummaryWriter outputs the general assessment summary in Markdown.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation and build the whole document before writing, so a failed
// render never leaves a half-written summary behind.
type SummaryWriter struct {
	baseWriter
	opts options
}

// NewSummaryWriter creates a SummaryWriter that outputs to the given writer.
func NewSummaryWriter(output io.Writer, opts ...Option) *SummaryWriter {
	return &SummaryWriter{
		baseWriter: newBaseWriter(output),
		opts:       newOptions(opts...),
	}
}

// Write outputs the general summary. It always writes a document, even
// for an assessment without projects.
func (w *SummaryWriter) Write(doc *model.AssessmentDocument) (int, error) {
	apps := Summarize(doc)
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, doc)
	w.writeStatistics(md, apps)
	w.writeLegend(md)
	w.writeProfiles(md, apps)
	w.writeNextSteps(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the title and target services.
func (w *SummaryWriter) writeHeader(md *markdown.Markdown, doc *model.AssessmentDocument) {
	md.H1(summaryTitle)
	md.PlainText("")
	md.PlainTextf("%s: %s", markdown.Bold("Target Azure Services"), strings.Join(doc.Metadata.TargetDisplayNames, ", "))
	md.PlainText("")
}

// writeStatistics writes the application count and distinct rule counts.
func (w *SummaryWriter) writeStatistics(md *markdown.Markdown, apps []AppSummary) {
	md.H2("Overall Statistics")
	md.PlainText("")
	md.PlainTextf("%s: %d", markdown.Bold("Total Applications"), len(apps))
	md.PlainText("")

	var total model.SeverityCounts
	for _, app := range apps {
		md.PlainText(markdown.Bold("Name: " + app.Name))
		for _, s := range model.ReportedSeverities {
			md.BulletList(fmt.Sprintf("%s: %d issues", capitalize(s), app.Severity.Get(s)))
		}
		md.PlainText("")
		total.Merge(app.Severity)
	}

	if w.opts.severityChart && total.Reported() > 0 {
		w.writePieChart(md, total)
	}
}

// writePieChart writes a mermaid pie chart of distinct rules per severity.
func (w *SummaryWriter) writePieChart(md *markdown.Markdown, total model.SeverityCounts) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Issue Severity Distribution"),
		piechart.WithShowData(true),
	)
	for _, s := range model.ReportedSeverities {
		if n := total.Get(s); n > 0 {
			chart.LabelAndIntValue(capitalize(s), uint64(n)) //nolint:gosec // n is positive
		}
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeLegend writes the severity explanation block.
func (w *SummaryWriter) writeLegend(md *markdown.Markdown) {
	md.Blockquote(markdown.Bold("Severity Levels Explained:"))
	for _, l := range severityLegend {
		md.Blockquote(fmt.Sprintf("- %s: %s", markdown.Bold(capitalize(l.severity)), l.explanation))
	}
	md.PlainText("")
}

// writeProfiles writes the technology profile and key findings per app.
func (w *SummaryWriter) writeProfiles(md *markdown.Markdown, apps []AppSummary) {
	md.H2("Applications Profile")
	md.PlainText("")

	for _, app := range apps {
		md.H3("Name: " + app.Name)
		md.BulletList(
			fmt.Sprintf("%s: %s", markdown.Bold("JDK Version"), orNotAvailable(app.Profile.JDKVersion)),
			fmt.Sprintf("%s: %s", markdown.Bold("Frameworks"), joinOrNotAvailable(app.Profile.Frameworks)),
			fmt.Sprintf("%s: %s", markdown.Bold("Languages"), joinOrNotAvailable(app.Profile.Languages)),
			fmt.Sprintf("%s: %s", markdown.Bold("Build Tools"), joinOrNotAvailable(app.Profile.BuildTools)),
		)
		md.PlainText("")
		w.writeKeyFindings(md, app)
		md.PlainText("")
	}
}

// writeKeyFindings writes the incident counts per rule, grouped by severity.
// Severities without findings are omitted.
func (w *SummaryWriter) writeKeyFindings(md *markdown.Markdown, app AppSummary) {
	md.PlainText(markdown.Bold("Key Findings") + ":")
	for _, s := range model.ReportedSeverities {
		findings := app.FindingsBySeverity(s)
		if len(findings) == 0 {
			continue
		}

		total := 0
		for _, f := range findings {
			total += f.Count
		}
		md.BulletList(fmt.Sprintf("%s:", markdown.Bold(fmt.Sprintf("%s Issues (%d locations)", capitalize(s), total))))
		for _, f := range findings {
			md.PlainTextf("  - <!--ruleid=%s-->%s (%s found)", f.RuleID, f.Title, locations(f.Count))
		}
	}
}

// writeNextSteps writes the static guidance section.
func (w *SummaryWriter) writeNextSteps(md *markdown.Markdown) {
	md.H2("Next Steps")
	md.PlainText("")
	md.PlainText("For comprehensive migration guidance and best practices, visit:")
	md.BulletList(markdown.Link(guidanceTitle, guidanceURL))
	md.PlainText("")
}

// capitalize returns the display form of a severity, e.g. "Mandatory".
func capitalize(s model.Severity) string {
	return cases.Title(language.English).String(s.String())
}

// locations returns "1 location" or "N locations".
func locations(n int) string {
	if n == 1 {
		return "1 location"
	}
	return fmt.Sprintf("%d locations", n)
}
