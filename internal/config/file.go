package config

// File represents the structure of the .appmodkit configuration file.
// Every field is optional; CLI flags always take precedence.
type File struct {
	// Assess holds defaults for the assess command.
	Assess AssessFile `yaml:"assess,omitempty"`

	// History holds defaults for the run history.
	History HistoryFile `yaml:"history,omitempty"`
}

// AssessFile holds defaults for the assess command.
type AssessFile struct {
	// IssueSource is "azuremigrate" or "other".
	IssueSource string `yaml:"issueSource,omitempty"`

	// Chart enables the severity pie chart in the general summary.
	Chart *bool `yaml:"chart,omitempty"`

	// History records assess runs in the history database.
	History *bool `yaml:"history,omitempty"`
}

// HistoryFile holds defaults for the run history.
type HistoryFile struct {
	// Limit is the number of runs listed by the history command.
	Limit int `yaml:"limit,omitempty"`

	// DataDir overrides the directory of the history database.
	DataDir string `yaml:"dataDir,omitempty"`
}

// Apply copies the values set in the file onto cfg.
// Unset fields leave cfg unchanged.
func (cf *File) Apply(cfg *Config) {
	if cf == nil {
		return
	}
	if cf.Assess.IssueSource != "" {
		cfg.IssueSource = cf.Assess.IssueSource
	}
	if cf.Assess.Chart != nil {
		cfg.SeverityChart = *cf.Assess.Chart
	}
	if cf.Assess.History != nil {
		cfg.RecordHistory = *cf.Assess.History
	}
	if cf.History.Limit != 0 {
		cfg.HistoryLimit = cf.History.Limit
	}
	if cf.History.DataDir != "" {
		cfg.DataDir = cf.History.DataDir
	}
}
