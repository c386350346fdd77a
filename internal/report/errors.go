package report

import "errors"

// ErrNoRecognizedTarget is returned by the issue table when none of the
// document's target ids is a supported deployment target.
var ErrNoRecognizedTarget = errors.New("no target Azure services specified in the assessment report")
