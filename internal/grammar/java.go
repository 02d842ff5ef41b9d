package grammar

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"
)

func javaVariant() Variant {
	return Variant{
		Tag: "java",
		Load: func() *sitter.Language {
			return sitter.NewLanguage(java.Language())
		},
		Functions: []string{"method_declaration", "constructor_declaration"},
		Containers: []string{
			"class_declaration",
			"interface_declaration",
			"enum_declaration",
			"record_declaration",
		},
		NameRule:  NameDirect,
		NameKinds: []string{"identifier"},
		Assignments: []AssignmentKind{
			{Kind: "assignment_expression", Target: "left", Value: "right"},
			{Kind: "variable_declarator", Target: "name", Value: "value"},
		},
	}
}
