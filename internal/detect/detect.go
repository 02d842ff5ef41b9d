// Package detect maps file paths and contents to grammar registry tags.
package detect

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
	"github.com/mvp-joe/structlens/internal/config"
	"github.com/mvp-joe/structlens/internal/pathglob"
	"go.uber.org/zap"
)

// enryTags maps go-enry language names to registry tags. Languages without
// a grammar are absent.
var enryTags = map[string]string{
	"Python":     "python",
	"C":          "c",
	"C++":        "cpp",
	"Java":       "java",
	"Rust":       "rust",
	"TypeScript": "typescript",
	"TSX":        "tsx",
	"JavaScript": "javascript",
	"JSX":        "javascript",
	"Ruby":       "ruby",
	"PHP":        "php",
}

type override struct {
	pattern  pathglob.Pattern
	language string
}

// Detector resolves the language of a file. It is safe for concurrent use.
type Detector struct {
	overrides []override
	logger    *zap.Logger
}

// New creates a Detector. Overrides are consulted in order before content
// detection; the first matching pattern wins.
func New(overrides []config.LanguageOverride, logger *zap.Logger) (*Detector, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	d := &Detector{logger: logger}
	for _, o := range overrides {
		p, err := pathglob.Compile(o.Pattern)
		if err != nil {
			return nil, fmt.Errorf("language override: %w", err)
		}
		d.overrides = append(d.overrides, override{
			pattern:  p,
			language: strings.ToLower(strings.TrimSpace(o.Language)),
		})
	}
	return d, nil
}

// Detect returns the registry tag for path, or "" when the file is binary
// or written in a language without a grammar. path should be relative and
// slash-separated for overrides to match.
func (d *Detector) Detect(path string, content []byte) string {
	rel := filepath.ToSlash(path)
	for _, o := range d.overrides {
		if o.pattern.Match(rel) {
			return o.language
		}
	}

	if len(content) > 0 && enry.IsBinary(content) {
		d.logger.Debug("binary_file_skipped", zap.String("path", path))
		return ""
	}

	name := filepath.Base(path)
	language := enry.GetLanguage(name, content)
	if language == "" {
		language, _ = enry.GetLanguageByExtension(name)
	}

	tag := enryTags[language]
	if tag == "" {
		d.logger.Debug("no_grammar_for_language",
			zap.String("path", path),
			zap.String("detected", language))
	}
	return tag
}

// IsVendor reports whether path looks like vendored or dependency code.
func IsVendor(path string) bool {
	return enry.IsVendor(filepath.ToSlash(path))
}
