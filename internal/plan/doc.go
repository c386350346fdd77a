// Package plan manages modernization plans stored in a repository.
//
// Plans live in numbered folders under .github/modernization, for example
// .github/modernization/003-upgrade-spring-boot. The folder name doubles as
// the branch name of the plan. Workspace computes the next number, builds
// branch names that fit GitHub's limits and finds the latest plan.md.
package plan
