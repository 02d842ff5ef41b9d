// Package grammar holds the tree-sitter grammars structlens can parse and the
// per-language mapping from grammar node kinds to the shapes the traversal
// recognises.
//
// A Registry is built once at startup and is read-only afterwards, so any
// number of goroutines may use it without locking. A grammar that fails to
// load is logged and left out; the other languages are unaffected.
package grammar

import (
	"fmt"
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	"go.uber.org/zap"
)

// Registry maps language tags to loaded grammars.
type Registry struct {
	grammars map[string]*Grammar
	aliases  map[string]string
}

// NewRegistry loads the built-in grammars. When enabled is non-empty only
// those tags (canonical names or aliases) are loaded.
func NewRegistry(logger *zap.Logger, enabled ...string) *Registry {
	variants := Builtins()
	if len(enabled) > 0 {
		variants = filterVariants(variants, enabled)
	}
	return NewRegistryFromVariants(logger, variants)
}

// NewRegistryFromVariants loads the given variants. A variant whose grammar
// fails to load is skipped.
func NewRegistryFromVariants(logger *zap.Logger, variants []Variant) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Registry{
		grammars: make(map[string]*Grammar, len(variants)),
		aliases:  make(map[string]string),
	}

	for _, v := range variants {
		g, err := compile(v)
		if err != nil {
			logger.Warn("grammar_load_failed", zap.String("language", v.Tag), zap.Error(err))
			continue
		}

		tag := normalizeTag(v.Tag)
		r.grammars[tag] = g
		r.aliases[tag] = tag
		for _, alias := range v.Aliases {
			r.aliases[normalizeTag(alias)] = tag
		}
	}

	logger.Info("grammar_loaded", zap.Strings("languages", r.Languages()))
	return r
}

// Lookup returns the grammar for tag, resolving aliases case-insensitively.
func (r *Registry) Lookup(tag string) (*Grammar, bool) {
	canonical, ok := r.Canonical(tag)
	if !ok {
		return nil, false
	}
	return r.grammars[canonical], true
}

// Canonical resolves tag to the canonical name of a loaded grammar.
func (r *Registry) Canonical(tag string) (string, bool) {
	if r == nil {
		return "", false
	}
	canonical, ok := r.aliases[normalizeTag(tag)]
	return canonical, ok
}

// Languages returns the canonical tags of all loaded grammars, sorted.
func (r *Registry) Languages() []string {
	langs := make([]string, 0, len(r.grammars))
	for tag := range r.grammars {
		langs = append(langs, tag)
	}
	sort.Strings(langs)
	return langs
}

// IsKnown reports whether tag names a built-in language, loaded or not.
func IsKnown(tag string) bool {
	tag = normalizeTag(tag)
	for _, v := range Builtins() {
		if normalizeTag(v.Tag) == tag {
			return true
		}
		for _, alias := range v.Aliases {
			if normalizeTag(alias) == tag {
				return true
			}
		}
	}
	return false
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

func filterVariants(variants []Variant, enabled []string) []Variant {
	want := make(map[string]bool, len(enabled))
	for _, tag := range enabled {
		want[normalizeTag(tag)] = true
	}

	var out []Variant
	for _, v := range variants {
		if want[normalizeTag(v.Tag)] {
			out = append(out, v)
			continue
		}
		for _, alias := range v.Aliases {
			if want[normalizeTag(alias)] {
				out = append(out, v)
				break
			}
		}
	}
	return out
}

// compile loads the variant's language and builds its dispatch tables.
// A probe parser verifies the grammar's ABI version is accepted.
func compile(v Variant) (g *Grammar, err error) {
	defer func() {
		if r := recover(); r != nil {
			g = nil
			err = fmt.Errorf("loading %s grammar panicked: %v", v.Tag, r)
		}
	}()

	if v.Load == nil {
		return nil, fmt.Errorf("no loader for %s grammar", v.Tag)
	}

	language := v.Load()
	if language == nil {
		return nil, fmt.Errorf("%s grammar loader returned nil", v.Tag)
	}

	probe := sitter.NewParser()
	defer probe.Close()
	if err := probe.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("incompatible %s grammar: %w", v.Tag, err)
	}

	return newGrammar(v, language), nil
}
