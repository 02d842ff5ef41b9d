package extractor

import "github.com/mvp-joe/structlens/internal/secret"

// AnonymousName is used for function nodes that carry no name.
const AnonymousName = "anonymous"

// Function kinds.
const (
	KindFunction = "function"
	KindMethod   = "method"
)

// FunctionFact is a function or method definition with its 1-based line span.
type FunctionFact struct {
	Name       string `json:"name" yaml:"name"`
	Kind       string `json:"kind" yaml:"kind"`
	StartLine  int    `json:"start_line" yaml:"start_line"`
	EndLine    int    `json:"end_line" yaml:"end_line"`
	Params     string `json:"params,omitempty" yaml:"params,omitempty"`
	SourceFile string `json:"source_file,omitempty" yaml:"source_file,omitempty"`
}

// VariableFact is an assignment of something that looks like a string literal.
type VariableFact struct {
	Name         string      `json:"name" yaml:"name"`
	Line         int         `json:"line" yaml:"line"`
	ValuePreview string      `json:"value_preview" yaml:"value_preview"`
	Kind         secret.Kind `json:"kind" yaml:"kind"`
	SourceFile   string      `json:"source_file,omitempty" yaml:"source_file,omitempty"`
}

// Result is the structural summary of one source text. Facts are in document
// order. A Result is shared (e.g. by the cache) and must not be mutated; use
// WithSourceFile to obtain a tagged copy.
type Result struct {
	Language   string         `json:"language" yaml:"language"`
	Supported  bool           `json:"supported" yaml:"supported"`
	Functions  []FunctionFact `json:"functions" yaml:"functions"`
	Variables  []VariableFact `json:"variables" yaml:"variables"`
	TotalLines int            `json:"total_lines" yaml:"total_lines"`

	// Truncated is set when the node-visit budget stopped the traversal early.
	Truncated bool `json:"truncated,omitempty" yaml:"truncated,omitempty"`
}

// Stats summarises a Result.
type Stats struct {
	Functions         int `json:"functions" yaml:"functions"`
	Methods           int `json:"methods" yaml:"methods"`
	PotentialSecrets  int `json:"potential_secrets" yaml:"potential_secrets"`
	StringAssignments int `json:"string_assignments" yaml:"string_assignments"`
}

// WithSourceFile returns a copy of r with every fact tagged with file.
func (r *Result) WithSourceFile(file string) *Result {
	out := *r
	out.Functions = make([]FunctionFact, len(r.Functions))
	for i, fn := range r.Functions {
		fn.SourceFile = file
		out.Functions[i] = fn
	}
	out.Variables = make([]VariableFact, len(r.Variables))
	for i, v := range r.Variables {
		v.SourceFile = file
		out.Variables[i] = v
	}
	return &out
}

// Stats counts the facts in r by kind.
func (r *Result) Stats() Stats {
	var s Stats
	for _, fn := range r.Functions {
		if fn.Kind == KindMethod {
			s.Methods++
		} else {
			s.Functions++
		}
	}
	for _, v := range r.Variables {
		if v.Kind == secret.PotentialSecret {
			s.PotentialSecrets++
		} else {
			s.StringAssignments++
		}
	}
	return s
}

// PotentialSecrets returns the variables classified as potential secrets.
func (r *Result) PotentialSecrets() []VariableFact {
	var out []VariableFact
	for _, v := range r.Variables {
		if v.Kind == secret.PotentialSecret {
			out = append(out, v)
		}
	}
	return out
}

func emptyResult(language string, totalLines int) *Result {
	return &Result{
		Language:   language,
		Functions:  []FunctionFact{},
		Variables:  []VariableFact{},
		TotalLines: totalLines,
	}
}
