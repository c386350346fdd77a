package plan

import "errors"

var (
	// ErrShortNameRequired is returned when a plan is created with a blank short name.
	ErrShortNameRequired = errors.New("ShortName is required")

	// ErrNoPlan is returned when no plan folder contains plan.md.
	ErrNoPlan = errors.New("no modernization plan found")
)
