package grammar

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	c "github.com/tree-sitter/tree-sitter-c/bindings/go"
)

// C shares the declarator layout of C++ without classes or qualified names.
func cVariant() Variant {
	return Variant{
		Tag:     "c",
		Aliases: []string{"h"},
		Load: func() *sitter.Language {
			return sitter.NewLanguage(c.Language())
		},
		Functions: []string{"function_definition"},
		NameRule:  NameInDeclarator,
		NameKinds: []string{"identifier", "field_identifier"},
		Assignments: []AssignmentKind{
			{Kind: "assignment_expression", Target: "left", Value: "right"},
			{Kind: "init_declarator", Target: "declarator", Value: "value", TargetIsDeclarator: true},
		},
	}
}
