package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/nao1215/appmodkit/internal/model"
)

// parseDoc parses a JSON fixture or fails the test.
func parseDoc(t *testing.T, data string) *model.AssessmentDocument {
	t.Helper()

	doc, err := model.ParseAssessmentDocument([]byte(data))
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	return doc
}

// render renders doc or fails the test.
func render(t *testing.T, doc *model.AssessmentDocument, mode Mode, opts ...Option) string {
	t.Helper()

	got, err := Render(doc, mode, opts...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return got
}

const javaReport = `{
  "metadata": {
    "targetDisplayNames": ["Azure App Service", "Azure Kubernetes Service"],
    "targetIds": ["azure-appservice", "azure-aks"]
  },
  "rules": {
    "R1": {"severity": "mandatory", "title": "Fix X", "effort": 2},
    "R2": {"severity": "Potential", "effort": 1},
    "R3": {"severity": "optional", "title": "Opt", "effort": 1}
  },
  "projects": [
    {
      "properties": {
        "appName": "svc1",
        "jdkVersion": "17",
        "frameworks": ["Spring Boot"],
        "languages": ["Java"],
        "tools": ["Maven"]
      },
      "incidents": [
        {"ruleId": "R1", "labels": [], "targets": {"azure-appservice": {}}},
        {"ruleId": "R1", "labels": ["type=violation"], "targets": {"azure-appservice": {}}},
        {"ruleId": "R2", "labels": ["type=violation", "lang=java"], "targets": {"azure-aks": {}}},
        {"ruleId": "R3", "labels": ["type=info"], "targets": {"azure-aks": {}}}
      ]
    }
  ]
}`

const javaSummary = `# App Modernization Assessment Summary

**Target Azure Services**: Azure App Service, Azure Kubernetes Service

## Overall Statistics

**Total Applications**: 1

**Name: svc1**
- Mandatory: 1 issues
- Potential: 1 issues
- Optional: 0 issues

> **Severity Levels Explained:**
> - **Mandatory**: The issue has to be resolved for the migration to be successful.
> - **Potential**: This issue may be blocking in some situations but not in others. These issues should be reviewed to determine whether a change is required or not.
> - **Optional**: The issue discovered is real issue fixing which could improve the app after migration, however it is not blocking.

## Applications Profile

### Name: svc1
- **JDK Version**: 17
- **Frameworks**: Spring Boot
- **Languages**: Java
- **Build Tools**: Maven

**Key Findings**:
- **Mandatory Issues (2 locations)**:
  - <!--ruleid=R1-->Fix X (2 locations found)
- **Potential Issues (1 locations)**:
  - <!--ruleid=R2-->R2 (1 location found)

## Next Steps

For comprehensive migration guidance and best practices, visit:
- [GitHub Copilot App Modernization](https://aka.ms/ghcp-appmod)
`

func TestParseMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		source string
		want   Mode
	}{
		{"azuremigrate", ModeAzureMigrate},
		{"AzureMigrate", ModeAzureMigrate},
		{" azuremigrate ", ModeAzureMigrate},
		{"other", ModeGeneral},
		{"", ModeGeneral},
		{"azure-migrate", ModeGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			t.Parallel()

			if got := ParseMode(tt.source); got != tt.want {
				t.Errorf("ParseMode(%q) = %v, want %v", tt.source, got, tt.want)
			}
		})
	}
}

func TestSummaryWriter(t *testing.T) {
	t.Parallel()

	t.Run("renders full summary", func(t *testing.T) {
		t.Parallel()

		got := render(t, parseDoc(t, javaReport), ModeGeneral)
		if got != javaSummary {
			t.Errorf("unexpected summary:\n--- got ---\n%s\n--- want ---\n%s", got, javaSummary)
		}
	})

	t.Run("returns byte count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewSummaryWriter(&buf).Write(parseDoc(t, javaReport))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("Write returned %d, wrote %d bytes", n, buf.Len())
		}
	})

	t.Run("zero projects still renders headers and legend", func(t *testing.T) {
		t.Parallel()

		got := render(t, parseDoc(t, `{"metadata": {"targetDisplayNames": []}, "projects": []}`), ModeGeneral)
		for _, want := range []string{
			"# App Modernization Assessment Summary",
			"**Target Azure Services**: \n",
			"**Total Applications**: 0",
			"> **Severity Levels Explained:**",
			"## Applications Profile",
			"## Next Steps",
		} {
			if !strings.Contains(got, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("projects without appName are grouped under Others", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `{
			"rules": {"R1": {"severity": "mandatory"}},
			"projects": [
				{"properties": {}, "incidents": [{"ruleId": "R1"}]},
				{"properties": {"appName": ""}, "incidents": [{"ruleId": "R1"}]}
			]
		}`)
		got := render(t, doc, ModeGeneral)
		if !strings.Contains(got, "**Total Applications**: 1") {
			t.Error("expected a single application group")
		}
		if !strings.Contains(got, "**Name: Others**") || !strings.Contains(got, "### Name: Others") {
			t.Error("expected Others group")
		}
		if !strings.Contains(got, "<!--ruleid=R1-->R1 (2 locations found)") {
			t.Errorf("expected both incidents counted, got:\n%s", got)
		}
	})

	t.Run("profile uses first project and N/A defaults", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `{
			"projects": [
				{"properties": {"appName": "a", "frameworks": []}},
				{"properties": {"appName": "a", "jdkVersion": "21", "frameworks": ["Quarkus"]}}
			]
		}`)
		got := render(t, doc, ModeGeneral)
		for _, want := range []string{
			"- **JDK Version**: N/A",
			"- **Frameworks**: N/A",
			"- **Languages**: N/A",
			"- **Build Tools**: N/A",
		} {
			if !strings.Contains(got, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
		if strings.Contains(got, "Quarkus") {
			t.Error("profile must come from the first project only")
		}
	})

	t.Run("numeric jdkVersion is rendered", func(t *testing.T) {
		t.Parallel()

		got := render(t, parseDoc(t, `{"projects": [{"properties": {"appName": "a", "jdkVersion": 11}}]}`), ModeGeneral)
		if !strings.Contains(got, "- **JDK Version**: 11\n") {
			t.Errorf("expected numeric jdk version, got:\n%s", got)
		}
	})

	t.Run("information severity is counted but not rendered", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `{
			"rules": {"I1": {"title": "Info rule"}},
			"projects": [{"properties": {"appName": "a"}, "incidents": [{"ruleId": "I1"}]}]
		}`)
		got := render(t, doc, ModeGeneral)
		if strings.Contains(got, "Info rule") {
			t.Error("information findings must not be rendered")
		}
		if !strings.Contains(got, "**Key Findings**:\n\n## Next Steps") {
			t.Errorf("expected empty key findings, got:\n%s", got)
		}

		apps := Summarize(doc)
		if apps[0].Severity.Information != 1 {
			t.Errorf("Information = %d, want 1", apps[0].Severity.Information)
		}
	})

	t.Run("severity chart is opt-in", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, javaReport)
		if got := render(t, doc, ModeGeneral); strings.Contains(got, "```mermaid") {
			t.Error("chart should not be rendered by default")
		}

		got := render(t, doc, ModeGeneral, WithSeverityChart(true))
		for _, want := range []string{"```mermaid", "pie showData", `"Mandatory" : 1`, `"Potential" : 1`} {
			if !strings.Contains(got, want) {
				t.Errorf("expected chart to contain %q, got:\n%s", want, got)
			}
		}
		if strings.Contains(got, `"Optional"`) {
			t.Error("empty severities should not be charted")
		}
	})
}

func TestPluralization(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		incidents string
		want      string
	}{
		{
			name:      "one incident is singular",
			incidents: `[{"ruleId": "R1"}]`,
			want:      "<!--ruleid=R1-->T (1 location found)",
		},
		{
			name:      "two incidents are plural",
			incidents: `[{"ruleId": "R1"}, {"ruleId": "R1"}]`,
			want:      "<!--ruleid=R1-->T (2 locations found)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := parseDoc(t, `{
				"rules": {"R1": {"severity": "optional", "title": "T"}},
				"projects": [{"properties": {"appName": "a"}, "incidents": `+tt.incidents+`}]
			}`)
			got := render(t, doc, ModeGeneral)
			if !strings.Contains(got, tt.want) {
				t.Errorf("expected %q in:\n%s", tt.want, got)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	t.Run("distinct rules and incident counts are independent", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `{
			"rules": {
				"M1": {"severity": "mandatory"},
				"M2": {"severity": "MANDATORY"},
				"P1": {"severity": "potential"}
			},
			"projects": [
				{"properties": {"appName": "a"}, "incidents": [
					{"ruleId": "M1"}, {"ruleId": "M1"}, {"ruleId": "M1"},
					{"ruleId": "M2"}
				]},
				{"properties": {"appName": "a"}, "incidents": [
					{"ruleId": "M1"}, {"ruleId": "P1"}, {"ruleId": "UNKNOWN"}, {"ruleId": ""}
				]}
			]
		}`)

		apps := Summarize(doc)
		if len(apps) != 1 {
			t.Fatalf("expected 1 app, got %d", len(apps))
		}
		app := apps[0]
		if app.Severity.Mandatory != 2 || app.Severity.Potential != 1 || app.Severity.Optional != 0 {
			t.Errorf("unexpected distinct rule counts: %+v", app.Severity)
		}

		want := []RuleFinding{
			{RuleID: "M1", Title: "M1", Severity: model.SeverityMandatory, Count: 4},
			{RuleID: "M2", Title: "M2", Severity: model.SeverityMandatory, Count: 1},
			{RuleID: "P1", Title: "P1", Severity: model.SeverityPotential, Count: 1},
		}
		if len(app.Findings) != len(want) {
			t.Fatalf("expected %d findings, got %d: %+v", len(want), len(app.Findings), app.Findings)
		}
		for i := range want {
			if app.Findings[i] != want[i] {
				t.Errorf("finding %d = %+v, want %+v", i, app.Findings[i], want[i])
			}
		}

		got := render(t, doc, ModeGeneral)
		if !strings.Contains(got, "- **Mandatory Issues (5 locations)**:") {
			t.Errorf("expected mandatory total of 5 locations, got:\n%s", got)
		}
	})

	t.Run("groups keep first-seen order", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `{"projects": [
			{"properties": {"appName": "zeta"}},
			{"properties": {"appName": "alpha"}},
			{"properties": {"appName": "zeta"}}
		]}`)
		apps := Summarize(doc)
		if len(apps) != 2 || apps[0].Name != "zeta" || apps[1].Name != "alpha" {
			t.Errorf("unexpected groups: %+v", apps)
		}
	})
}

func TestIssues(t *testing.T) {
	t.Parallel()

	t.Run("single incident yields one row", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `{
			"metadata": {"targetIds": ["azure-appservice"]},
			"rules": {"R1": {"severity": "mandatory", "effort": 2, "title": "Fix X"}},
			"projects": [{"properties": {"appName": "svc1"}, "incidents": [
				{"ruleId": "R1", "labels": [], "targets": {"azure-appservice": {}}}
			]}]
		}`)

		issues, err := Issues(doc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(issues) != 1 {
			t.Fatalf("expected 1 issue, got %d", len(issues))
		}
		got := issues[0]
		if got.Index != 1 || got.AppName != "svc1" || got.RuleID != "R1" ||
			got.Title != "Fix X" || got.Criticality != "mandatory" || got.Effort != 2 ||
			got.Links != "" || got.IncidentNumber != 1 {
			t.Errorf("unexpected issue: %+v", got)
		}
		if len(got.TargetServices) != 1 || got.TargetServices[0] != "azure-appservice" {
			t.Errorf("unexpected targets: %v", got.TargetServices)
		}

		md := render(t, doc, ModeAzureMigrate)
		want := "# Assessment Report - Issues Summary\n\n" +
			"| # | Web-app name | Target Ids | Issue Id | Issue Title | Criticality | Effort | Links | Incident Number |\n" +
			"|---------|---------|---------|---------|---------|---------|---------|---------|---------|\n" +
			"| 1 | svc1 | azure-appservice | R1 | Fix X | mandatory | 2 |  | 1 |\n"
		if md != want {
			t.Errorf("unexpected table:\n--- got ---\n%s\n--- want ---\n%s", md, want)
		}
	})

	t.Run("unrecognized targets are rejected", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `{
			"metadata": {"targetIds": ["on-prem-foo"]},
			"rules": {"R1": {"severity": "mandatory"}},
			"projects": [{"properties": {"appName": "svc1"}, "incidents": [{"ruleId": "R1", "targets": {"on-prem-foo": {}}}]}]
		}`)

		if _, err := Render(doc, ModeAzureMigrate); !errors.Is(err, ErrNoRecognizedTarget) {
			t.Errorf("expected ErrNoRecognizedTarget, got %v", err)
		}
		if _, err := Render(doc, ModeGeneral); err != nil {
			t.Errorf("general summary should not check targets: %v", err)
		}
	})

	t.Run("targets are grouped by severity and effort", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `{
			"metadata": {"targetIds": ["azure-aks", "azure-appservice", "ACA", "unknown"]},
			"rules": {"R1": {"severity": "potential", "effort": 3, "title": "T",
				"links": [
					{"title": "Doc", "url": "https://example.com/doc"},
					{"url": "https://example.com/bare"},
					{"title": "No URL"},
					{}
				]}},
			"projects": [{"properties": {"appName": "svc"}, "incidents": [
				{"ruleId": "R1", "targets": {
					"ACA": {"severity": "mandatory", "effort": 5},
					"azure-appservice": {},
					"azure-aks": {"effort": 0},
					"unknown": {"severity": "optional"}
				}}
			]}]
		}`)

		issues, err := Issues(doc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(issues) != 2 {
			t.Fatalf("expected 2 issues, got %d: %+v", len(issues), issues)
		}
		if got := strings.Join(issues[0].TargetServices, ","); got != "azure-aks,azure-appservice" {
			t.Errorf("first group targets = %q", got)
		}
		if issues[0].Criticality != "potential" || issues[0].Effort != 3 || issues[0].Index != 1 {
			t.Errorf("unexpected first issue: %+v", issues[0])
		}
		if got := strings.Join(issues[1].TargetServices, ","); got != "ACA" {
			t.Errorf("second group targets = %q", got)
		}
		if issues[1].Criticality != "mandatory" || issues[1].Effort != 5 || issues[1].Index != 2 {
			t.Errorf("unexpected second issue: %+v", issues[1])
		}
		wantLinks := "[Doc](https://example.com/doc),[Link](https://example.com/bare)"
		for _, issue := range issues {
			if issue.Links != wantLinks {
				t.Errorf("Links = %q, want %q", issue.Links, wantLinks)
			}
			if issue.IncidentNumber != 1 {
				t.Errorf("IncidentNumber = %d, want 1", issue.IncidentNumber)
			}
		}
	})

	t.Run("last incident targets win and count is per rule", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `{
			"metadata": {"targetIds": ["azure-appservice", "azure-aks"]},
			"rules": {"R1": {"severity": "optional", "effort": 1}},
			"projects": [{"properties": {"appName": "svc"}, "incidents": [
				{"ruleId": "R1", "targets": {"azure-appservice": {}}},
				{"ruleId": "R1", "targets": {"azure-aks": {}}},
				{"ruleId": "R1", "labels": ["type=info"], "targets": {"azure-appservice": {}}}
			]}]
		}`)

		issues, err := Issues(doc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(issues) != 1 {
			t.Fatalf("expected 1 issue, got %d", len(issues))
		}
		if got := strings.Join(issues[0].TargetServices, ","); got != "azure-aks" {
			t.Errorf("targets = %q, want azure-aks", got)
		}
		if issues[0].IncidentNumber != 2 {
			t.Errorf("IncidentNumber = %d, want 2", issues[0].IncidentNumber)
		}
	})

	t.Run("unknown rules and missing targets produce no rows", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `{
			"metadata": {"targetIds": ["azure-appservice"]},
			"rules": {"R1": {"severity": "optional"}},
			"projects": [{"properties": {"appName": "svc"}, "incidents": [
				{"ruleId": "R1"},
				{"ruleId": "GONE", "targets": {"azure-appservice": {}}}
			]}]
		}`)

		got := render(t, doc, ModeAzureMigrate)
		if got != "" {
			t.Errorf("expected empty sentinel, got:\n%s", got)
		}
	})

	t.Run("pipes in cells are escaped", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `{
			"metadata": {"targetIds": ["ACA"]},
			"rules": {"R1": {"severity": "optional", "title": "a | b"}},
			"projects": [{"properties": {"appName": "svc"}, "incidents": [{"ruleId": "R1", "targets": {"ACA": {}}}]}]
		}`)

		got := render(t, doc, ModeAzureMigrate)
		if !strings.Contains(got, `| a \| b |`) {
			t.Errorf("expected escaped pipe, got:\n%s", got)
		}
	})
}

func TestModeAsymmetryForMissingAppName(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `{
		"metadata": {"targetDisplayNames": ["Azure App Service"], "targetIds": ["azure-appservice"]},
		"rules": {"R1": {"severity": "mandatory", "title": "Fix X", "effort": 2}},
		"projects": [
			{"properties": {}, "incidents": [{"ruleId": "R1", "targets": {"azure-appservice": {}}}]},
			{"properties": {"appName": ""}, "incidents": [{"ruleId": "R1", "targets": {"azure-appservice": {}}}]}
		]
	}`)

	general := render(t, doc, ModeGeneral)
	table := render(t, doc, ModeAzureMigrate)

	if !strings.Contains(general, "**Name: Others**") {
		t.Error("general summary should group projects under Others")
	}
	if table != "" {
		t.Errorf("issue table should drop projects without appName, got:\n%s", table)
	}
}

func TestFilteredIncidentsDoNotChangeOutput(t *testing.T) {
	t.Parallel()

	const base = `{
		"metadata": {"targetDisplayNames": ["ACA"], "targetIds": ["ACA"]},
		"rules": {
			"R1": {"severity": "mandatory", "title": "one", "effort": 1},
			"R2": {"severity": "optional", "title": "two", "effort": 2}
		},
		"projects": [{"properties": {"appName": "svc"}, "incidents": [
			{"ruleId": "R1", "labels": ["type=violation"], "targets": {"ACA": {}}}
			%s
		]}]
	}`
	const noise = `,
			{"ruleId": "R1", "labels": ["type=info"], "targets": {"ACA": {"effort": 9}}},
			{"ruleId": "R2", "labels": ["konveyor.io/source=java"], "targets": {"ACA": {}}}`

	clean := parseDoc(t, strings.Replace(base, "%s", "", 1))
	noisy := parseDoc(t, strings.Replace(base, "%s", noise, 1))

	for _, mode := range []Mode{ModeGeneral, ModeAzureMigrate} {
		if a, b := render(t, clean, mode), render(t, noisy, mode); a != b {
			t.Errorf("mode %v: filtered incidents changed the output:\n--- clean ---\n%s\n--- noisy ---\n%s", mode, a, b)
		}
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, javaReport)
	for _, mode := range []Mode{ModeGeneral, ModeAzureMigrate} {
		first := render(t, doc, mode, WithSeverityChart(true))
		for range 5 {
			if again := render(t, doc, mode, WithSeverityChart(true)); again != first {
				t.Fatalf("mode %v: output differs between runs", mode)
			}
		}
	}
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	type status struct {
		AppCatResult string `json:"AppCatResult"`
		Link         string `json:"Link,omitempty"`
	}

	t.Run("compact by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(status{AppCatResult: "success"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := buf.String(); got != "{\"AppCatResult\":\"success\"}\n" {
			t.Errorf("unexpected output: %q", got)
		}
	})

	t.Run("does not escape HTML characters", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(status{AppCatResult: "success", Link: "https://x/?a=1&b=2"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "a=1&b=2") {
			t.Errorf("unexpected output: %q", buf.String())
		}
	})

	t.Run("pretty print", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(status{AppCatResult: "failure"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := buf.String(); got != "{\n  \"AppCatResult\": \"failure\"\n}\n" {
			t.Errorf("unexpected output: %q", got)
		}
	})
}
