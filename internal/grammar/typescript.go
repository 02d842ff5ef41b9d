package grammar

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// JavaScript is parsed with the TypeScript grammar, which accepts it.
func typescriptVariant() Variant {
	return ecmaVariant("typescript", []string{"ts", "mts", "cts"}, func() *sitter.Language {
		return sitter.NewLanguage(typescript.LanguageTypescript())
	})
}

func tsxVariant() Variant {
	return ecmaVariant("tsx", nil, func() *sitter.Language {
		return sitter.NewLanguage(typescript.LanguageTSX())
	})
}

func javascriptVariant() Variant {
	return ecmaVariant("javascript", []string{"js", "mjs", "cjs", "node"}, func() *sitter.Language {
		return sitter.NewLanguage(typescript.LanguageTypescript())
	})
}

func ecmaVariant(tag string, aliases []string, load func() *sitter.Language) Variant {
	return Variant{
		Tag:     tag,
		Aliases: aliases,
		Load:    load,
		Functions: []string{
			"function_declaration",
			"generator_function_declaration",
			"method_definition",
		},
		Containers: []string{"class_declaration", "abstract_class_declaration", "class"},
		NameRule:   NameDirect,
		NameKinds:  []string{"identifier", "property_identifier", "private_property_identifier"},
		Assignments: []AssignmentKind{
			{Kind: "variable_declarator", Target: "name", Value: "value"},
			{Kind: "assignment_expression", Target: "left", Value: "right"},
			{Kind: "public_field_definition", Target: "name", Value: "value"},
		},
	}
}
