package report

import (
	"strings"

	"github.com/nao1215/appmodkit/internal/model"
)

// notAvailable is printed for empty profile fields.
const notAvailable = "N/A"

// AppSummary is the aggregated view of one application group.
type AppSummary struct {
	// Name is the appName shared by the group, or model.OthersAppName.
	Name string `json:"name"`

	// Profile is taken from the first project of the group.
	Profile Profile `json:"profile"`

	// Severity counts distinct rules per severity, not incidents.
	Severity model.SeverityCounts `json:"severity"`

	// Findings are the per-rule incident counts in first-seen order.
	Findings []RuleFinding `json:"findings,omitempty"`
}

// FindingsBySeverity returns the findings of one severity in order.
func (a AppSummary) FindingsBySeverity(s model.Severity) []RuleFinding {
	var out []RuleFinding
	for _, f := range a.Findings {
		if f.Severity == s {
			out = append(out, f)
		}
	}
	return out
}

// Profile is the technology profile of an application.
// Empty fields are rendered as "N/A".
type Profile struct {
	JDKVersion string   `json:"jdkVersion,omitempty"`
	Frameworks []string `json:"frameworks,omitempty"`
	Languages  []string `json:"languages,omitempty"`
	BuildTools []string `json:"buildTools,omitempty"`
}

// RuleFinding is the number of qualifying incidents of one rule.
type RuleFinding struct {
	RuleID   string         `json:"ruleId"`
	Title    string         `json:"title"`
	Severity model.Severity `json:"severity"`
	Count    int            `json:"count"`
}

// appGroup accumulates the projects of one application.
type appGroup struct {
	name     string
	projects []model.Project
}

// groupByApp groups projects by appName in first-seen order.
// Projects without an appName are grouped under model.OthersAppName.
func groupByApp(projects []model.Project) []*appGroup {
	var groups []*appGroup
	index := make(map[string]*appGroup)
	for _, p := range projects {
		name := p.AppName()
		if name == "" {
			name = model.OthersAppName
		}
		g, ok := index[name]
		if !ok {
			g = &appGroup{name: name}
			index[name] = g
			groups = append(groups, g)
		}
		g.projects = append(g.projects, p)
	}
	return groups
}

// Summarize aggregates the document per application for the general summary.
//
// Two different counts are produced for each application. Severity counts
// the distinct rules seen in the group, while Findings counts every
// qualifying incident per rule. Incidents that do not qualify and incidents
// without a rule id are ignored by both; rule ids missing from doc.Rules are
// skipped.
func Summarize(doc *model.AssessmentDocument) []AppSummary {
	groups := groupByApp(doc.Projects)
	summaries := make([]AppSummary, 0, len(groups))
	for _, g := range groups {
		summaries = append(summaries, summarizeGroup(doc.Rules, g))
	}
	return summaries
}

// summarizeGroup builds the AppSummary of one application group.
func summarizeGroup(rules map[string]model.Rule, g *appGroup) AppSummary {
	summary := AppSummary{
		Name:    g.name,
		Profile: newProfile(g.projects[0].Properties),
	}

	var order []string
	counts := make(map[string]int)
	for _, p := range g.projects {
		for _, incident := range p.Incidents {
			if incident.RuleID == "" || !incident.Qualifies() {
				continue
			}
			if _, seen := counts[incident.RuleID]; !seen {
				order = append(order, incident.RuleID)
			}
			counts[incident.RuleID]++
		}
	}

	for _, ruleID := range order {
		rule, ok := rules[ruleID]
		if !ok {
			continue
		}
		level := rule.Level()
		summary.Severity.Add(level, 1)
		summary.Findings = append(summary.Findings, RuleFinding{
			RuleID:   ruleID,
			Title:    rule.DisplayTitle(ruleID),
			Severity: level,
			Count:    counts[ruleID],
		})
	}
	return summary
}

// newProfile copies the technology profile out of project properties.
func newProfile(props model.ProjectProperties) Profile {
	return Profile{
		JDKVersion: strings.TrimSpace(props.JDKVersion.String()),
		Frameworks: props.Frameworks,
		Languages:  props.Languages,
		BuildTools: props.Tools,
	}
}

// orNotAvailable returns s, or "N/A" when s is empty.
func orNotAvailable(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}

// joinOrNotAvailable joins values with ", ", or returns "N/A" when the
// result is empty.
func joinOrNotAvailable(values []string) string {
	return orNotAvailable(strings.Join(values, ", "))
}
