// Package reconcile maps an approximate, externally reported issue line to
// the nearest source line matching the issue category.
package reconcile

import (
	"regexp"

	"go.uber.org/zap"
)

// DefaultWindow is the number of lines scanned on each side of the reported line.
const DefaultWindow = 5

// Match describes the outcome of a reconciliation.
type Match struct {
	Line      int    `json:"line" yaml:"line"`
	Reported  int    `json:"reported" yaml:"reported"`
	Category  string `json:"category" yaml:"category"`
	Pattern   string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Text      string `json:"text,omitempty" yaml:"text,omitempty"`
	Known     bool   `json:"known_category" yaml:"known_category"`
	Corrected bool   `json:"corrected" yaml:"corrected"`
}

// Reconciler performs bounded-window searches. It holds no mutable state.
type Reconciler struct {
	patterns *PatternSet
	window   int
	logger   *zap.Logger
}

// New creates a Reconciler. A nil pattern set uses the built-ins and a
// negative window uses DefaultWindow.
func New(patterns *PatternSet, window int, logger *zap.Logger) *Reconciler {
	if patterns == nil {
		patterns = DefaultPatterns()
	}
	if window < 0 {
		window = DefaultWindow
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{patterns: patterns, window: window, logger: logger}
}

// Patterns returns the pattern set in use.
func (r *Reconciler) Patterns() *PatternSet {
	return r.patterns
}

// Window returns the half-width of the search window.
func (r *Reconciler) Window() int {
	return r.window
}

// Reconcile returns the first line in [approx-window, approx+window] (clipped
// to the source) matching a pattern for category, scanning in ascending order.
// Lines are 1-based. An out-of-range approx, or a window with no match, is
// returned unchanged.
func (r *Reconciler) Reconcile(sourceLines []string, category string, approx int) int {
	return r.Explain(sourceLines, category, approx).Line
}

// Explain is Reconcile with the matching pattern and line text attached.
func (r *Reconciler) Explain(sourceLines []string, category string, approx int) Match {
	m := Match{Line: approx, Reported: approx, Category: category}
	n := len(sourceLines)
	if approx < 1 || approx > n {
		return m
	}

	patterns, known := r.patterns.Lookup(category)
	m.Known = known

	lo := max(1, approx-r.window)
	hi := min(n, approx+r.window)
	for line := lo; line <= hi; line++ {
		text := sourceLines[line-1]
		if re := firstMatch(patterns, text); re != nil {
			m.Line = line
			m.Text = text
			m.Pattern = re.String()
			m.Corrected = line != approx
			r.logger.Debug("line_reconciled",
				zap.String("category", category),
				zap.Int("from", approx),
				zap.Int("to", line))
			return m
		}
	}
	return m
}

func firstMatch(patterns []*regexp.Regexp, text string) *regexp.Regexp {
	for _, re := range patterns {
		if re.MatchString(text) {
			return re
		}
	}
	return nil
}
