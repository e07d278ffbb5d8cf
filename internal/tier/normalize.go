package tier

import "strings"

// Normalize converts a free-text product tag into its lookup key: lower-cased,
// with internal whitespace runs collapsed to single hyphens. It is total and
// idempotent; unknown input simply produces a key that matches nothing.
func Normalize(tag string) string {
	fields := strings.Fields(strings.ToLower(tag))
	return strings.Join(fields, "-")
}
