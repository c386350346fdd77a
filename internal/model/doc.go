// Package model defines the data structures shared across appmodkit.
//
// The central type is AssessmentDocument, the parsed form of the report.json
// file produced by an application-modernization assessment (AppCat). It is
// read once per assess run and never mutated.
//
// AssessmentRun carries the state of a single assess invocation through the
// pipeline: the loaded document, the rendered markdown and the statistics
// recorded in the run history.
package model
