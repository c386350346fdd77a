package vcs

import "errors"

var (
	// ErrNotRepository is returned when no git repository contains the path.
	ErrNotRepository = errors.New("not a git repository")

	// ErrBranchNameRequired is returned when CreateBranch gets an empty name.
	ErrBranchNameRequired = errors.New("branch name is required")

	// ErrBranchExists is returned when CreateBranch gets the name of an
	// existing branch.
	ErrBranchExists = errors.New("branch already exists")
)
