package grammar

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	php "github.com/tree-sitter/tree-sitter-php/bindings/go"
)

// The PHP grammar expects a leading "<?php" tag; text outside it is parsed as
// template text and yields no facts.
func phpVariant() Variant {
	return Variant{
		Tag: "php",
		Load: func() *sitter.Language {
			return sitter.NewLanguage(php.LanguagePHP())
		},
		Functions:  []string{"function_definition", "method_declaration"},
		Containers: []string{"class_declaration", "interface_declaration", "trait_declaration"},
		NameRule:   NameDirect,
		NameKinds:  []string{"name"},
		Assignments: []AssignmentKind{
			{Kind: "assignment_expression", Target: "left", Value: "right"},
		},
	}
}
