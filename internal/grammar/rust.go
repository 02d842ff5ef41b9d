package grammar

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
)

func rustVariant() Variant {
	return Variant{
		Tag:     "rust",
		Aliases: []string{"rs"},
		Load: func() *sitter.Language {
			return sitter.NewLanguage(rust.Language())
		},
		Functions:  []string{"function_item"},
		Containers: []string{"impl_item", "trait_item"},
		NameRule:   NameDirect,
		NameKinds:  []string{"identifier"},
		Assignments: []AssignmentKind{
			{Kind: "let_declaration", Target: "pattern", Value: "value"},
			{Kind: "assignment_expression", Target: "left", Value: "right"},
			{Kind: "const_item", Target: "name", Value: "value"},
			{Kind: "static_item", Target: "name", Value: "value"},
		},
	}
}
