// Package lines defines how source text is split into numbered lines.
//
// Every component that reports or consumes a line number uses this package,
// so extraction and reconciliation agree on what "line N" means:
//   - lines are separated by "\n"; a trailing "\r" is stripped from each line
//   - a single trailing newline does not start a new (empty) line
//   - empty text has zero lines
package lines

import "strings"

// Split returns the lines of text. Empty text yields nil.
func Split(text string) []string {
	if text == "" {
		return nil
	}

	parts := strings.Split(text, "\n")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}

	for i, line := range parts {
		parts[i] = strings.TrimSuffix(line, "\r")
	}
	return parts
}

// Count returns the number of lines in text using the same convention as Split.
func Count(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}
