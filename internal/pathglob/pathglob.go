// Package pathglob matches slash-separated relative paths against glob patterns.
package pathglob

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// Pattern is a compiled glob. A leading "**/" also matches files in the root,
// so "**/*.py" matches both "app.py" and "pkg/app.py".
type Pattern struct {
	raw  string
	glob glob.Glob
	root glob.Glob
}

// Compile compiles pattern with '/' as the separator.
func Compile(pattern string) (Pattern, error) {
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return Pattern{}, fmt.Errorf("compile glob %q: %w", pattern, err)
	}

	p := Pattern{raw: pattern, glob: g}
	if simplified, ok := strings.CutPrefix(pattern, "**/"); ok {
		if root, err := glob.Compile(simplified, '/'); err == nil {
			p.root = root
		}
	}
	return p, nil
}

// Match reports whether path matches.
func (p Pattern) Match(path string) bool {
	if p.glob == nil {
		return false
	}
	if p.glob.Match(path) {
		return true
	}
	return p.root != nil && !strings.Contains(path, "/") && p.root.Match(path)
}

// String returns the source pattern.
func (p Pattern) String() string {
	return p.raw
}

// Set is an ordered list of patterns.
type Set []Pattern

// CompileAll compiles every pattern, failing on the first invalid one.
func CompileAll(patterns []string) (Set, error) {
	set := make(Set, 0, len(patterns))
	for _, pattern := range patterns {
		p, err := Compile(pattern)
		if err != nil {
			return nil, err
		}
		set = append(set, p)
	}
	return set, nil
}

// Match reports whether any pattern matches path.
func (s Set) Match(path string) bool {
	return s.Index(path) >= 0
}

// Index returns the position of the first matching pattern, or -1.
func (s Set) Index(path string) int {
	for i, p := range s {
		if p.Match(path) {
			return i
		}
	}
	return -1
}

// MatchDir reports whether path, or anything beneath it, is covered by a
// pattern such as "node_modules/**".
func (s Set) MatchDir(path string) bool {
	return s.Match(path) || s.Match(path+"/**") || s.Match(path+"/")
}
