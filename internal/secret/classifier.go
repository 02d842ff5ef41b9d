// Package secret labels string assignments that look like credentials.
//
// The classifier is a keyword match over the assignment target and its value.
// It favours recall: a false positive costs a reviewer a glance, a false
// negative lets a credential through. Results are advisory context for the
// downstream reviewer, never a verdict on their own.
package secret

import "strings"

// Kind labels an extracted string assignment.
type Kind string

const (
	// PotentialSecret marks an assignment whose target or value mentions a secret-like keyword.
	PotentialSecret Kind = "potential_secret"

	// StringAssignment marks any other assignment of a string literal.
	StringAssignment Kind = "string_assignment"
)

// keywords are matched as case-insensitive substrings.
var keywords = []string{"key", "secret", "pass", "api", "token"}

// Keywords returns a copy of the keyword set used by Classify.
func Keywords() []string {
	out := make([]string, len(keywords))
	copy(out, keywords)
	return out
}

// Classify returns PotentialSecret when name or value contains any keyword,
// StringAssignment otherwise. It is total: every input gets a label.
func Classify(name, value string) Kind {
	if containsKeyword(name) || containsKeyword(value) {
		return PotentialSecret
	}
	return StringAssignment
}

func containsKeyword(s string) bool {
	if s == "" {
		return false
	}
	lower := strings.ToLower(s)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
