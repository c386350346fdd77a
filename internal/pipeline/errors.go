package pipeline

import "errors"

// ErrReportNotFound is returned by LoadStep when the output folder has no
// report.json.
var ErrReportNotFound = errors.New("assessment report not found")
