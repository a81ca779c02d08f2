package domain

import "strings"

// NormalizeHumanName trims leading/trailing whitespace and collapses internal whitespace runs.
// It is applied to member full names and announcement titles.
func NormalizeHumanName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
