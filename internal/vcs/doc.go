// Package vcs creates plan branches in the local git repository.
//
// Design decision: We use go-git instead of shelling out to the git binary.
// The tool then works on machines without git in PATH, and errors come back
// as values that the caller can downgrade to warnings.
package vcs
