package report

import (
	"strings"

	"github.com/nao1215/appmodkit/internal/model"
)

// Issue is one row of the target-service issue table: a rule of one
// application, for the targets that share the same severity and effort.
type Issue struct {
	// Index is the 1-based row number across the whole table.
	Index int `json:"index"`

	// AppName is the application the incidents belong to.
	AppName string `json:"appName"`

	// TargetServices are the supported target ids of the group, in
	// metadata.targetIds order.
	TargetServices []string `json:"targetServices"`

	RuleID      string `json:"ruleId"`
	Title       string `json:"title"`
	Criticality string `json:"criticality"`
	Effort      int    `json:"effort"`

	// Links is the comma-joined markdown link list of the rule.
	Links string `json:"links"`

	// IncidentNumber is the number of qualifying incidents of the rule in
	// the project, shared by every group of the rule.
	IncidentNumber int `json:"incidentNumber"`
}

// issueGroup is the grouping key of targets within one rule.
type issueGroup struct {
	severity string
	effort   int
}

// ruleIncidents accumulates the qualifying incidents of one rule.
type ruleIncidents struct {
	count   int
	targets map[string]model.TargetOverride
}

// Issues aggregates the document into target-service issue rows.
//
// It returns ErrNoRecognizedTarget when none of metadata.targetIds is a
// supported target. Projects without an appName are skipped. For each rule,
// the targets mapping of the last qualifying incident is used.
func Issues(doc *model.AssessmentDocument) ([]Issue, error) {
	targets := model.FilterSupportedTargets(doc.Metadata.TargetIDs)
	if len(targets) == 0 {
		return nil, ErrNoRecognizedTarget
	}

	var issues []Issue
	for _, project := range doc.Projects {
		appName := project.AppName()
		if appName == "" {
			continue
		}

		order, incidents := collectIncidents(project.Incidents)
		for _, ruleID := range order {
			rule, ok := doc.Rules[ruleID]
			if !ok {
				continue
			}
			acc := incidents[ruleID]
			links := FormatLinks(rule.Links)

			groups, members := groupTargets(rule, acc.targets, targets)
			for _, g := range groups {
				issues = append(issues, Issue{
					Index:          len(issues) + 1,
					AppName:        appName,
					TargetServices: members[g],
					RuleID:         ruleID,
					Title:          rule.DisplayTitle(ruleID),
					Criticality:    g.severity,
					Effort:         g.effort,
					Links:          links,
					IncidentNumber: acc.count,
				})
			}
		}
	}
	return issues, nil
}

// collectIncidents counts qualifying incidents per rule in first-seen order.
// Each later incident of a rule replaces the stored targets mapping.
func collectIncidents(incidents []model.Incident) ([]string, map[string]*ruleIncidents) {
	var order []string
	byRule := make(map[string]*ruleIncidents)
	for _, incident := range incidents {
		if incident.RuleID == "" || !incident.Qualifies() {
			continue
		}
		acc, ok := byRule[incident.RuleID]
		if !ok {
			acc = &ruleIncidents{}
			byRule[incident.RuleID] = acc
			order = append(order, incident.RuleID)
		}
		acc.count++
		acc.targets = incident.Targets
	}
	return order, byRule
}

// groupTargets groups the supported targets of a rule by effective severity
// and effort. Target overrides win over rule values; a zero override effort
// falls back to the rule effort.
func groupTargets(rule model.Rule, overrides map[string]model.TargetOverride, supported []string) ([]issueGroup, map[issueGroup][]string) {
	var groups []issueGroup
	members := make(map[issueGroup][]string)
	for _, target := range supported {
		override, ok := overrides[target]
		if !ok {
			continue
		}

		severity := override.Severity
		if severity == "" {
			severity = rule.Severity
		}
		effort := override.Effort.Int()
		if effort == 0 {
			effort = rule.Effort.Int()
		}

		key := issueGroup{
			severity: strings.ToLower(strings.TrimSpace(severity)),
			effort:   effort,
		}
		if _, seen := members[key]; !seen {
			groups = append(groups, key)
		}
		members[key] = append(members[key], target)
	}
	return groups, members
}

// FormatLinks renders rule links as a comma-joined markdown link list.
// Links without a url are skipped; links without a title are labelled "Link".
func FormatLinks(links []model.Link) string {
	parts := make([]string, 0, len(links))
	for _, l := range links {
		if l.URL == "" {
			continue
		}
		title := l.Title
		if title == "" {
			title = "Link"
		}
		parts = append(parts, "["+title+"]("+l.URL+")")
	}
	return strings.Join(parts, ",")
}
