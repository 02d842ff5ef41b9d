package reconcile

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// ErrInvalidPattern indicates a category pattern that does not compile.
var ErrInvalidPattern = errors.New("invalid reconcile pattern")

// wildcard matches any line, so unknown categories snap to the first scanned line.
const wildcard = `.*`

// Built-in category names.
const (
	CategorySQLInjection            = "sql injection"
	CategoryHardcodedSecret         = "hardcoded secret"
	CategoryCommandInjection        = "command injection"
	CategoryPathTraversal           = "path traversal"
	CategoryXSS                     = "xss"
	CategoryInsecureDeserialization = "insecure deserialization"
	CategoryMixedType               = "mixed type"
)

// builtinPatterns are matched case-insensitively against single source lines.
var builtinPatterns = map[string][]string{
	CategorySQLInjection: {
		// query keyword followed by concatenation or interpolation
		`\b(select\b.*\bfrom|insert\s+into|update\s+\S+\s+set|delete\s+from)\b.*(\+|\|\||%s|%\(|\$\{|\{\w*\}|\.format\(|<<)`,
		// interpolated string literal carrying a query keyword
		`\bf["'].*\b(select|insert|update|delete)\b`,
		`\b(query|sql|stmt)\w*\s*=\s*["'].*\+`,
	},
	CategoryHardcodedSecret: {
		`\w*(api|secret|key|pass|pwd|token)\w*\s*[:=]\s*["'][^"']+["']`,
		`#define\s+\w*(api|secret|key|pass|token)\w*\s+["']`,
	},
	CategoryCommandInjection: {
		`\b(os\.system|os\.popen|subprocess\.\w+|popen|system|exec[lv]?p?e?|shell_exec|passthru|proc_open)\s*\(`,
		`runtime\.getruntime\(\)\.exec\s*\(`,
		`shell\s*=\s*true`,
	},
	CategoryPathTraversal: {
		`\.\./`,
		`\b(open|fopen|readfile|file_get_contents|send_file|sendfile|os\.path\.join|path\.join|ifstream|ofstream)\s*\(.*(\+|\{|\$|request|input|param)`,
	},
	CategoryXSS: {
		`\.innerhtml\s*=`,
		`document\.write\s*\(`,
		`dangerouslysetinnerhtml`,
		`\becho\b.*\$_(get|post|request)`,
		`render_template_string\s*\(`,
		`\|\s*safe\b`,
		`mark_safe\s*\(`,
	},
	CategoryInsecureDeserialization: {
		`\bpickle\.loads?\s*\(`,
		`\byaml\.load\s*\(`,
		`\bunserialize\s*\(`,
		`\bmarshal\.loads\s*\(`,
		`objectinputstream`,
	},
	CategoryMixedType: {
		`list\s*\[\s*mixed`,
		`append\s*\(\s*(str|int)`,
	},
}

// builtinAliases map the category names reviewers report to built-in categories.
// Keys are already normalized.
var builtinAliases = map[string]string{
	"sqli":                   CategorySQLInjection,
	"sql":                    CategorySQLInjection,
	"secret":                 CategoryHardcodedSecret,
	"hardcoded api secret":   CategoryHardcodedSecret,
	"hardcoded api key":      CategoryHardcodedSecret,
	"hardcoded token":        CategoryHardcodedSecret,
	"hardcoded password":     CategoryHardcodedSecret,
	"hardcoded credentials":  CategoryHardcodedSecret,
	"os command injection":   CategoryCommandInjection,
	"directory traversal":    CategoryPathTraversal,
	"cross site scripting":   CategoryXSS,
	"deserialization":        CategoryInsecureDeserialization,
	"unsafe deserialization": CategoryInsecureDeserialization,
	"type mismatch":          CategoryMixedType,
}

// PatternSet maps issue categories to compiled line patterns.
// It is immutable after construction and safe for concurrent use.
type PatternSet struct {
	categories map[string][]*regexp.Regexp
	aliases    map[string]string
	fallback   []*regexp.Regexp
}

// DefaultPatterns returns the built-in pattern set.
func DefaultPatterns() *PatternSet {
	p, err := NewPatternSet(nil, nil)
	if err != nil {
		// Built-in patterns are constants; failing to compile them is a programming error.
		panic(err)
	}
	return p
}

// NewPatternSet builds the built-in categories plus extra. Patterns in extra
// are appended to a built-in category of the same name or define a new one.
// aliases maps additional reported names to categories.
func NewPatternSet(extra map[string][]string, aliases map[string]string) (*PatternSet, error) {
	p := &PatternSet{
		categories: make(map[string][]*regexp.Regexp),
		aliases:    make(map[string]string),
		fallback:   []*regexp.Regexp{regexp.MustCompile(wildcard)},
	}

	for category, patterns := range builtinPatterns {
		if err := p.add(category, patterns); err != nil {
			return nil, err
		}
	}
	for category, patterns := range extra {
		if err := p.add(category, patterns); err != nil {
			return nil, err
		}
	}

	for alias, category := range builtinAliases {
		p.aliases[alias] = category
	}
	for alias, category := range aliases {
		p.aliases[NormalizeCategory(alias)] = NormalizeCategory(category)
	}

	return p, nil
}

func (p *PatternSet) add(category string, patterns []string) error {
	key := NormalizeCategory(category)
	if key == "" {
		return fmt.Errorf("%w: empty category name", ErrInvalidPattern)
	}
	for _, pattern := range patterns {
		re, err := regexp.Compile(`(?i)` + pattern)
		if err != nil {
			return fmt.Errorf("%w: category %q: %v", ErrInvalidPattern, category, err)
		}
		p.categories[key] = append(p.categories[key], re)
	}
	return nil
}

// Lookup returns the patterns for category, resolving aliases. Unknown
// categories get the wildcard; known reports which case applied.
func (p *PatternSet) Lookup(category string) (patterns []*regexp.Regexp, known bool) {
	key := p.resolve(category)
	if pats, ok := p.categories[key]; ok && len(pats) > 0 {
		return pats, true
	}
	return p.fallback, false
}

// Categories returns the canonical category names, sorted.
func (p *PatternSet) Categories() []string {
	out := make([]string, 0, len(p.categories))
	for category := range p.categories {
		out = append(out, category)
	}
	sort.Strings(out)
	return out
}

// Aliases returns a copy of the alias table.
func (p *PatternSet) Aliases() map[string]string {
	out := make(map[string]string, len(p.aliases))
	for k, v := range p.aliases {
		out[k] = v
	}
	return out
}

func (p *PatternSet) resolve(category string) string {
	key := NormalizeCategory(category)
	if target, ok := p.aliases[key]; ok {
		return target
	}
	return key
}

// NormalizeCategory lowercases, folds "_" and "-" to spaces and collapses
// whitespace, so "SQL_Injection" and "sql  injection" name the same category.
func NormalizeCategory(category string) string {
	folded := strings.NewReplacer("_", " ", "-", " ").Replace(strings.ToLower(category))
	return strings.Join(strings.Fields(folded), " ")
}
