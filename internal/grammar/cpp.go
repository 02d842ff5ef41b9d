package grammar

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
)

// C++ nests the function name inside the declarator:
//
//	function_definition
//	  type: qualified_identifier      (std::string)
//	  declarator: function_declarator
//	    declarator: identifier        (getUser)
//	    parameters: parameter_list
func cppVariant() Variant {
	return Variant{
		Tag:     "cpp",
		Aliases: []string{"c++", "cc", "cxx", "hpp"},
		Load: func() *sitter.Language {
			return sitter.NewLanguage(cpp.Language())
		},
		Functions:  []string{"function_definition"},
		Containers: []string{"class_specifier", "struct_specifier"},
		NameRule:   NameInDeclarator,
		NameKinds: []string{
			"identifier",
			"field_identifier",
			"qualified_identifier",
			"destructor_name",
			"operator_name",
			"template_function",
		},
		Assignments: []AssignmentKind{
			{Kind: "assignment_expression", Target: "left", Value: "right"},
			{Kind: "init_declarator", Target: "declarator", Value: "value", TargetIsDeclarator: true},
		},
	}
}
