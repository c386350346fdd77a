package config

import (
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "appmodkit"

	// IssueSourceAzureMigrate selects the target-service issue table.
	IssueSourceAzureMigrate = "azuremigrate"

	// IssueSourceOther selects the general assessment summary.
	IssueSourceOther = "other"

	// DefaultIssueSource is used when --issue-source is not given.
	DefaultIssueSource = IssueSourceOther

	// DefaultHistoryLimit is the number of runs listed by the history command.
	DefaultHistoryLimit = 20

	// DatabaseFile is the file name of the run history database.
	DatabaseFile = "appmodkit.db"
)

// Config holds all configuration options for appmodkit.
// This struct is populated from the config file and CLI flags and passed
// through the application rather than kept in global state.
//
// Design decision: We use a single flat struct for every command. Each
// command reads only the fields it needs and validates only those, so a
// bad value for one command never breaks another.
type Config struct {
	// OutputPath is the folder containing report.json.
	// summary.md is written to the same folder.
	OutputPath string

	// IssueSource selects the summary format: "azuremigrate" or "other".
	IssueSource string

	// JSONOutput prints command results as compact JSON instead of
	// KEY: value lines.
	JSONOutput bool

	// SeverityChart appends a mermaid pie chart of severities to the
	// general summary.
	SeverityChart bool

	// RecordHistory stores each assess run in the history database.
	RecordHistory bool

	// HistoryLimit is the number of runs shown by the history command.
	HistoryLimit int

	// RepoDir is the repository root used by the plan commands.
	// When empty, the current directory is used.
	RepoDir string

	// DataDir is the directory holding the history database.
	// Defaults to the XDG data directory (~/.local/share/appmodkit on Linux).
	DataDir string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .appmodkit in the current directory
	// and then in the user's home directory.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because several defaults are non-zero (history on, limit,
// data directory). This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		IssueSource:   DefaultIssueSource,
		RecordHistory: true,
		HistoryLimit:  DefaultHistoryLimit,
		DataDir:       XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for appmodkit.
// On Linux: ~/.local/share/appmodkit
// On macOS: ~/Library/Application Support/appmodkit
// On Windows: %LOCALAPPDATA%\appmodkit
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for appmodkit.
// On Linux: ~/.config/appmodkit
// On macOS: ~/Library/Application Support/appmodkit
// On Windows: %APPDATA%\appmodkit
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// DatabasePath returns the path of the history database in DataDir.
func (c *Config) DatabasePath() string {
	dir := c.DataDir
	if dir == "" {
		dir = XDGDataDir()
	}
	return filepath.Join(dir, DatabaseFile)
}

// ValidateIssueSource checks that issueSource selects a known summary
// format. The comparison is case-insensitive.
func ValidateIssueSource(issueSource string) error {
	switch strings.ToLower(issueSource) {
	case IssueSourceAzureMigrate, IssueSourceOther:
		return nil
	default:
		return ErrInvalidIssueSource
	}
}

// ValidateAssess checks the options of the assess command.
// It returns a specific error describing what is invalid.
//
// We return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) ValidateAssess() error {
	if strings.TrimSpace(c.OutputPath) == "" {
		return ErrOutputPathRequired
	}
	return ValidateIssueSource(c.IssueSource)
}

// ValidateHistory checks the options of the history command.
func (c *Config) ValidateHistory() error {
	if c.HistoryLimit <= 0 {
		return ErrInvalidHistoryLimit
	}
	return nil
}
