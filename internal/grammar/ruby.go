package grammar

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	ruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"
)

func rubyVariant() Variant {
	return Variant{
		Tag:     "ruby",
		Aliases: []string{"rb"},
		Load: func() *sitter.Language {
			return sitter.NewLanguage(ruby.Language())
		},
		Functions:  []string{"method", "singleton_method"},
		Containers: []string{"class", "module", "singleton_class"},
		NameRule:   NameDirect,
		NameKinds:  []string{"identifier", "constant", "setter", "operator"},
		Assignments: []AssignmentKind{
			{Kind: "assignment", Target: "left", Value: "right"},
		},
	}
}
