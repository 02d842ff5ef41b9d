package grammar

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Shape is the closed set of node categories the traversal cares about.
type Shape int

const (
	// ShapeOther is any node that is neither a function nor an assignment.
	ShapeOther Shape = iota
	// ShapeFunction is a named (or anonymous) function or method definition.
	ShapeFunction
	// ShapeAssignment is a binary assignment or a declarator with an initializer.
	ShapeAssignment
)

// String implements fmt.Stringer.
func (s Shape) String() string {
	switch s {
	case ShapeFunction:
		return "function"
	case ShapeAssignment:
		return "assignment"
	default:
		return "other"
	}
}

// NameRule selects where a grammar keeps a function's name.
type NameRule int

const (
	// NameDirect: the name is a direct child of the function node
	// (the "name" field, or the first named child of a name kind).
	NameDirect NameRule = iota

	// NameInDeclarator: the name is nested inside the node's "declarator"
	// field, possibly behind pointer/reference/function declarators (C, C++).
	NameInDeclarator
)

// AssignmentKind maps one assignment-like node kind to the fields holding
// its target and its value.
type AssignmentKind struct {
	Kind   string
	Target string
	Value  string

	// TargetIsDeclarator resolves the target through the declarator chain
	// instead of taking its raw text (C/C++ init_declarator).
	TargetIsDeclarator bool
}

// Variant is the per-language mapping from grammar node kinds to shapes.
// Adding a language means adding one Variant.
type Variant struct {
	Tag     string
	Aliases []string

	// Load returns the tree-sitter language. It may panic; the registry recovers.
	Load func() *sitter.Language

	Functions   []string
	Containers  []string // class-like nodes whose functions are methods
	NameRule    NameRule
	NameKinds   []string
	Assignments []AssignmentKind
}

// Builtins returns the variant mappings shipped with structlens.
func Builtins() []Variant {
	return []Variant{
		pythonVariant(),
		cppVariant(),
		cVariant(),
		javaVariant(),
		rustVariant(),
		typescriptVariant(),
		tsxVariant(),
		javascriptVariant(),
		rubyVariant(),
		phpVariant(),
	}
}

// KnownTags returns the canonical tags of all built-in variants.
func KnownTags() []string {
	builtins := Builtins()
	tags := make([]string, 0, len(builtins))
	for _, v := range builtins {
		tags = append(tags, v.Tag)
	}
	return tags
}
