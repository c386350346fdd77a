package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

// ViolationLabel is the incident label that marks a real rule violation.
// Java reports tag every incident with labels; only incidents carrying this
// label are counted. Reports without labels (e.g. .NET) are counted as-is.
const ViolationLabel = "type=violation"

// OthersAppName is the group name used for projects without an appName
// in the general summary.
const OthersAppName = "Others"

// ErrEmptyDocument is returned when report.json parses to an empty value
// such as null, {} or [].
var ErrEmptyDocument = errors.New("no assessment data found, please assess your application first")

// AssessmentDocument is the parsed report.json of an assessment.
type AssessmentDocument struct {
	// Metadata describes the assessment targets.
	Metadata Metadata `json:"metadata"`

	// Rules maps a rule identifier to its metadata.
	Rules map[string]Rule `json:"rules"`

	// Projects are the assessed projects in report order.
	Projects []Project `json:"projects"`
}

// Metadata holds the assessment-wide target information.
type Metadata struct {
	// TargetDisplayNames are the human-readable target names.
	TargetDisplayNames []string `json:"targetDisplayNames"`

	// TargetIDs are the machine identifiers of the targets.
	TargetIDs []string `json:"targetIds"`
}

// Rule is a named migration concern.
type Rule struct {
	// Severity is one of mandatory, potential, optional or information.
	// It may be empty; use Level for the normalized value.
	Severity string `json:"severity"`

	// Title is the human-readable rule title.
	Title string `json:"title"`

	// Effort is the estimated remediation effort.
	Effort Effort `json:"effort"`

	// Links point to documentation about the rule.
	Links []Link `json:"links"`
}

// Level returns the normalized severity of the rule.
func (r Rule) Level() Severity {
	return ParseSeverity(r.Severity)
}

// DisplayTitle returns the title, or ruleID when the rule has none.
func (r Rule) DisplayTitle(ruleID string) string {
	if r.Title == "" {
		return ruleID
	}
	return r.Title
}

// Link is a reference attached to a rule.
type Link struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Project is one assessed project (module) of an application.
type Project struct {
	Properties ProjectProperties `json:"properties"`
	Incidents  []Incident        `json:"incidents"`
}

// AppName returns the application name of the project.
func (p Project) AppName() string {
	return p.Properties.AppName
}

// ProjectProperties describes the technology profile of a project.
type ProjectProperties struct {
	AppName    string     `json:"appName"`
	JDKVersion FlexString `json:"jdkVersion"`
	Frameworks []string   `json:"frameworks"`
	Languages  []string   `json:"languages"`
	Tools      []string   `json:"tools"`
}

// Incident is one occurrence of a rule violation.
type Incident struct {
	RuleID  string                    `json:"ruleId"`
	Labels  []string                  `json:"labels"`
	Targets map[string]TargetOverride `json:"targets"`
}

// Qualifies reports whether the incident counts toward rule statistics.
// Incidents without labels always qualify; labelled incidents qualify only
// when they carry ViolationLabel.
func (i Incident) Qualifies() bool {
	if len(i.Labels) == 0 {
		return true
	}
	return slices.Contains(i.Labels, ViolationLabel)
}

// TargetOverride carries per-target severity and effort for an incident.
// Zero values mean "use the rule's value".
type TargetOverride struct {
	Severity string `json:"severity"`
	Effort   Effort `json:"effort"`
}

// ParseAssessmentDocument decodes report.json content.
// It returns ErrEmptyDocument when the JSON value is empty or falsy.
func ParseAssessmentDocument(data []byte) (*AssessmentDocument, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse assessment report: %w", err)
	}
	if isFalsy(raw) {
		return nil, ErrEmptyDocument
	}

	var doc AssessmentDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode assessment report: %w", err)
	}
	return &doc, nil
}

// isFalsy reports whether a decoded JSON value is empty.
func isFalsy(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case bool:
		return !val
	case float64:
		return val == 0
	case string:
		return val == ""
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	default:
		return false
	}
}
