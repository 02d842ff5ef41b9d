package grammar

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// Python keeps the function name as a direct identifier child.
func pythonVariant() Variant {
	return Variant{
		Tag:     "python",
		Aliases: []string{"py", "python3"},
		Load: func() *sitter.Language {
			return sitter.NewLanguage(python.Language())
		},
		Functions:  []string{"function_definition"},
		Containers: []string{"class_definition"},
		NameRule:   NameDirect,
		NameKinds:  []string{"identifier"},
		Assignments: []AssignmentKind{
			{Kind: "assignment", Target: "left", Value: "right"},
		},
	}
}
