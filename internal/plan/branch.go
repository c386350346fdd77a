package plan

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxBranchNameLength is the byte limit GitHub enforces on branch names.
const MaxBranchNameLength = 244

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9]`)
	dashRuns     = regexp.MustCompile(`-{2,}`)
)

// Branch is the branch (and plan folder) name of a plan.
type Branch struct {
	// Name is the final branch name, e.g. "003-upgrade-spring-boot".
	Name string

	// Original is the name before truncation. Equal to Name when not truncated.
	Original string
}

// Truncated reports whether the name was shortened to fit MaxBranchNameLength.
func (b Branch) Truncated() bool {
	return b.Name != b.Original
}

// Slugify lowercases s, replaces every character outside [a-z0-9] with a
// hyphen, collapses hyphen runs and trims hyphens at both ends.
func Slugify(s string) string {
	s = nonSlugChars.ReplaceAllString(strings.ToLower(s), "-")
	s = dashRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// FormatNumber formats a plan number with at least three digits.
func FormatNumber(number int) string {
	return fmt.Sprintf("%03d", number)
}

// BranchName builds the branch name for a plan number and short name.
// Names longer than MaxBranchNameLength have their suffix truncated and
// trailing hyphens removed.
func BranchName(number int, shortName string) Branch {
	prefix := FormatNumber(number)
	suffix := Slugify(shortName)
	name := prefix + "-" + suffix

	b := Branch{Name: name, Original: name}
	if len(name) <= MaxBranchNameLength {
		return b
	}

	maxSuffix := MaxBranchNameLength - len(prefix) - 1
	if len(suffix) > maxSuffix {
		suffix = suffix[:maxSuffix]
	}
	b.Name = prefix + "-" + strings.TrimRight(suffix, "-")
	return b
}
