package model

import "strings"

// Severity represents how blocking a migration issue is.
// Values are the lowercase strings used by the assessment report.
type Severity string

const (
	// SeverityMandatory means the issue has to be resolved for the migration to succeed.
	SeverityMandatory Severity = "mandatory"

	// SeverityPotential means the issue may be blocking in some situations.
	SeverityPotential Severity = "potential"

	// SeverityOptional means fixing the issue improves the app but is not blocking.
	SeverityOptional Severity = "optional"

	// SeverityInformation is informational only. It is counted but never rendered.
	SeverityInformation Severity = "information"
)

// ReportedSeverities lists the severities rendered in summaries, in display order.
var ReportedSeverities = []Severity{
	SeverityMandatory,
	SeverityPotential,
	SeverityOptional,
}

// ParseSeverity normalizes a severity string from the report.
// Matching is case-insensitive and an empty value means SeverityInformation.
// Unrecognized values are returned lowercased so they never match a
// reported bucket.
func ParseSeverity(s string) Severity {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SeverityInformation
	}
	return Severity(s)
}

// String returns the severity as it appears in the report.
func (s Severity) String() string {
	return string(s)
}

// SeverityCounts holds a counter per severity level.
type SeverityCounts struct {
	Mandatory   int `json:"mandatory"`
	Potential   int `json:"potential"`
	Optional    int `json:"optional"`
	Information int `json:"information"`
}

// Add increments the counter for the given severity by n.
// Severities outside the four known levels are ignored.
func (c *SeverityCounts) Add(s Severity, n int) {
	switch s {
	case SeverityMandatory:
		c.Mandatory += n
	case SeverityPotential:
		c.Potential += n
	case SeverityOptional:
		c.Optional += n
	case SeverityInformation:
		c.Information += n
	}
}

// Get returns the counter for the given severity.
func (c SeverityCounts) Get(s Severity) int {
	switch s {
	case SeverityMandatory:
		return c.Mandatory
	case SeverityPotential:
		return c.Potential
	case SeverityOptional:
		return c.Optional
	case SeverityInformation:
		return c.Information
	default:
		return 0
	}
}

// Merge adds every counter of other into c.
func (c *SeverityCounts) Merge(other SeverityCounts) {
	c.Mandatory += other.Mandatory
	c.Potential += other.Potential
	c.Optional += other.Optional
	c.Information += other.Information
}

// Reported returns the sum of the mandatory, potential and optional counters.
func (c SeverityCounts) Reported() int {
	return c.Mandatory + c.Potential + c.Optional
}
