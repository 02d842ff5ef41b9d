package grammar

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// maxDeclaratorDepth bounds the declarator chain walk for C-family names.
const maxDeclaratorDepth = 8

// Grammar is a loaded tree-sitter language plus its shape tables.
// It is immutable and safe for concurrent use; parsers are created per call.
type Grammar struct {
	tag         string
	language    *sitter.Language
	nameRule    NameRule
	shapes      map[string]Shape
	nameKinds   map[string]bool
	containers  map[string]bool
	assignments map[string]AssignmentKind
}

func newGrammar(v Variant, language *sitter.Language) *Grammar {
	g := &Grammar{
		tag:         normalizeTag(v.Tag),
		language:    language,
		nameRule:    v.NameRule,
		shapes:      make(map[string]Shape),
		nameKinds:   make(map[string]bool),
		containers:  make(map[string]bool),
		assignments: make(map[string]AssignmentKind),
	}

	for _, kind := range v.Functions {
		g.shapes[kind] = ShapeFunction
	}
	for _, a := range v.Assignments {
		g.shapes[a.Kind] = ShapeAssignment
		g.assignments[a.Kind] = a
	}
	for _, kind := range v.NameKinds {
		g.nameKinds[kind] = true
	}
	for _, kind := range v.Containers {
		g.containers[kind] = true
	}

	return g
}

// Tag returns the canonical language tag.
func (g *Grammar) Tag() string {
	return g.tag
}

// Parse parses source into a syntax tree. The caller must Close the tree.
// Tree-sitter recovers from syntax errors with ERROR nodes, so an error here
// means the parser itself failed, not that the source is malformed.
func (g *Grammar) Parse(source []byte) (tree *sitter.Tree, err error) {
	defer func() {
		if r := recover(); r != nil {
			tree = nil
			err = fmt.Errorf("%s parser panicked: %v", g.tag, r)
		}
	}()

	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(g.language); err != nil {
		return nil, fmt.Errorf("failed to set %s language: %w", g.tag, err)
	}

	tree = parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse %s source", g.tag)
	}
	return tree, nil
}

// ShapeOf classifies a node.
func (g *Grammar) ShapeOf(node *sitter.Node) Shape {
	if node == nil {
		return ShapeOther
	}
	return g.shapes[node.Kind()]
}

// IsContainer reports whether node is class-like (its functions are methods).
func (g *Grammar) IsContainer(node *sitter.Node) bool {
	return node != nil && g.containers[node.Kind()]
}

// FunctionName returns the name of a function node, or "" if it has none.
func (g *Grammar) FunctionName(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}

	switch g.nameRule {
	case NameInDeclarator:
		return g.declaratorName(node.ChildByFieldName("declarator"), source)
	default:
		if name := node.ChildByFieldName("name"); name != nil {
			return strings.TrimSpace(nodeText(name, source))
		}
		if name := g.firstNamedChild(node, g.isNameKind); name != nil {
			return strings.TrimSpace(nodeText(name, source))
		}
		return ""
	}
}

// FunctionParams returns the raw parameter list text of a function node.
func (g *Grammar) FunctionParams(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	if params := node.ChildByFieldName("parameters"); params != nil {
		return nodeText(params, source)
	}

	d := node.ChildByFieldName("declarator")
	for i := 0; d != nil && i < maxDeclaratorDepth; i++ {
		if params := d.ChildByFieldName("parameters"); params != nil {
			return nodeText(params, source)
		}
		d = d.ChildByFieldName("declarator")
	}
	return ""
}

// AssignmentParts returns the target and value text of an assignment node.
// ok is false when either side is missing (e.g. "int x;" or an ERROR fragment).
func (g *Grammar) AssignmentParts(node *sitter.Node, source []byte) (target, value string, ok bool) {
	if node == nil {
		return "", "", false
	}
	a, found := g.assignments[node.Kind()]
	if !found {
		return "", "", false
	}

	targetNode := node.ChildByFieldName(a.Target)
	valueNode := node.ChildByFieldName(a.Value)
	if targetNode == nil || valueNode == nil {
		return "", "", false
	}

	if a.TargetIsDeclarator {
		target = g.declaratorName(targetNode, source)
	}
	if target == "" {
		target = strings.TrimSpace(nodeText(targetNode, source))
	}

	return target, nodeText(valueNode, source), true
}

// declaratorName follows a C-family declarator chain down to the name.
func (g *Grammar) declaratorName(d *sitter.Node, source []byte) string {
	for i := 0; d != nil && i < maxDeclaratorDepth; i++ {
		if g.isNameKind(d.Kind()) {
			return strings.TrimSpace(nodeText(d, source))
		}

		next := d.ChildByFieldName("declarator")
		if next == nil {
			next = g.firstNamedChild(d, func(kind string) bool {
				return g.isNameKind(kind) || strings.HasSuffix(kind, "declarator")
			})
		}
		d = next
	}
	return ""
}

func (g *Grammar) isNameKind(kind string) bool {
	return g.nameKinds[kind]
}

func (g *Grammar) firstNamedChild(node *sitter.Node, match func(kind string) bool) *sitter.Node {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child != nil && match(child.Kind()) {
			return child
		}
	}
	return nil
}

// nodeText extracts the text content of a tree-sitter node.
func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start, end := node.StartByte(), node.EndByte()
	if start > end || end > uint(len(source)) {
		return ""
	}
	return string(source[start:end])
}
