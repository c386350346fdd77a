// Package pipeline provides a framework for executing assessment steps in sequence.
//
// An assess run goes through three stages: loading report.json, rendering the
// summary and writing summary.md. Each stage is implemented as a Step that
// receives the current model.AssessmentRun and fills in its part.
//
// Design decision: We use a pipeline pattern instead of direct function calls
// so that every stage gets the same cancellation check, logging and failure
// recording, and tests can replace a single stage.
package pipeline
