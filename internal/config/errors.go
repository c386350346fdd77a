package config

import "errors"

// Configuration validation errors.
// These errors are returned by the Validate functions and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in each check. This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrOutputPathRequired is returned when assess is run without the
	// folder that contains report.json.
	ErrOutputPathRequired = errors.New("output path is required: use --output-path")

	// ErrInvalidIssueSource is returned when the issue source is neither
	// "azuremigrate" nor "other".
	ErrInvalidIssueSource = errors.New("invalid issue source: must be 'azuremigrate' or 'other'")

	// ErrInvalidHistoryLimit is returned when the history limit is not positive.
	ErrInvalidHistoryLimit = errors.New("invalid history limit: must be positive")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")
)
