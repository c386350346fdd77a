package history

import "errors"

var (
	// ErrDatabaseNotFound is returned by Open when the database does not exist
	// and CreateIfNotExists is false.
	ErrDatabaseNotFound = errors.New("history database not found")

	// ErrRunNotFound is returned when no run has the requested id.
	ErrRunNotFound = errors.New("run not found")

	// ErrNilRun is returned when Record is called without a run.
	ErrNilRun = errors.New("run is nil")
)
