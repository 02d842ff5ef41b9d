// Package extractor turns source text into structural facts: function
// definitions with their line spans and string assignments labelled by the
// secret heuristic.
//
// Extraction never fails. Unsupported languages, empty input, syntax errors
// and parser failures all produce a well-formed (possibly empty) Result.
package extractor

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/mvp-joe/structlens/internal/grammar"
	"github.com/mvp-joe/structlens/internal/lines"
	"github.com/mvp-joe/structlens/internal/secret"
	sitter "github.com/tree-sitter/go-tree-sitter"
	"go.uber.org/zap"
)

const (
	DefaultMaxDepth      = 10
	DefaultMaxNodes      = 200000
	DefaultPreviewLength = 50

	previewEllipsis = "..."
	quoteChars      = "\"'`"
)

// Options bounds the traversal.
type Options struct {
	// MaxDepth is the deepest tree level visited (root is 0).
	MaxDepth int
	// MaxNodes caps the number of nodes visited per extraction.
	MaxNodes int
	// PreviewLength is the number of runes kept from an assigned value.
	PreviewLength int
}

// DefaultOptions returns the default traversal bounds.
func DefaultOptions() Options {
	return Options{
		MaxDepth:      DefaultMaxDepth,
		MaxNodes:      DefaultMaxNodes,
		PreviewLength: DefaultPreviewLength,
	}
}

func (o Options) withDefaults() Options {
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.MaxNodes <= 0 {
		o.MaxNodes = DefaultMaxNodes
	}
	if o.PreviewLength <= 0 {
		o.PreviewLength = DefaultPreviewLength
	}
	return o
}

// Extractor builds Results using the grammars in a Registry.
// It holds no mutable state and is safe for concurrent use.
type Extractor struct {
	registry *grammar.Registry
	opts     Options
	logger   *zap.Logger
}

// New creates an Extractor. Zero option fields take their defaults.
func New(registry *grammar.Registry, opts Options, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		registry: registry,
		opts:     opts.withDefaults(),
		logger:   logger,
	}
}

// Options returns the effective traversal bounds.
func (e *Extractor) Options() Options {
	return e.opts
}

// Extract parses source as language and returns its structural facts.
// TotalLines follows the lines package convention for every input.
func (e *Extractor) Extract(source, language string) *Result {
	totalLines := lines.Count(source)

	g, ok := e.registry.Lookup(language)
	if !ok {
		e.logger.Warn("unsupported_language", zap.String("language", language))
		return emptyResult(strings.ToLower(strings.TrimSpace(language)), totalLines)
	}

	result := emptyResult(g.Tag(), totalLines)
	result.Supported = true
	if source == "" {
		return result
	}

	src := []byte(source)
	tree, err := g.Parse(src)
	if err != nil {
		e.logger.Warn("parse_failed", zap.String("language", g.Tag()), zap.Error(err))
		return result
	}
	defer tree.Close()

	w := &walker{
		grammar:    g,
		source:     src,
		opts:       e.opts,
		totalLines: totalLines,
		result:     result,
	}
	w.walk(tree.RootNode(), 0, false)
	result.Truncated = w.exhausted

	if w.exhausted {
		e.logger.Warn("traversal_budget_exhausted",
			zap.String("language", g.Tag()),
			zap.Int("max_nodes", e.opts.MaxNodes))
	}
	e.logger.Debug("extraction_complete",
		zap.String("language", g.Tag()),
		zap.Int("functions", len(result.Functions)),
		zap.Int("variables", len(result.Variables)),
		zap.Int("nodes_visited", w.visited))

	return result
}

// walker performs one depth- and budget-bounded pre-order traversal.
type walker struct {
	grammar    *grammar.Grammar
	source     []byte
	opts       Options
	totalLines int
	result     *Result
	visited    int
	exhausted  bool
}

func (w *walker) walk(node *sitter.Node, depth int, inContainer bool) {
	if node == nil || w.exhausted {
		return
	}
	if w.visited >= w.opts.MaxNodes {
		w.exhausted = true
		return
	}
	w.visited++

	switch w.grammar.ShapeOf(node) {
	case grammar.ShapeFunction:
		w.addFunction(node, inContainer)
		// Functions nested in a function are plain functions again.
		inContainer = false
	case grammar.ShapeAssignment:
		w.addVariable(node)
	default:
		if w.grammar.IsContainer(node) {
			inContainer = true
		}
	}

	if depth >= w.opts.MaxDepth {
		return
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		w.walk(node.NamedChild(i), depth+1, inContainer)
	}
}

func (w *walker) addFunction(node *sitter.Node, inContainer bool) {
	name := w.grammar.FunctionName(node, w.source)
	if name == "" {
		name = AnonymousName
	}

	kind := KindFunction
	if inContainer {
		kind = KindMethod
	}

	start, end := w.span(node)
	w.result.Functions = append(w.result.Functions, FunctionFact{
		Name:      name,
		Kind:      kind,
		StartLine: start,
		EndLine:   end,
		Params:    w.grammar.FunctionParams(node, w.source),
	})
}

func (w *walker) addVariable(node *sitter.Node) {
	target, value, ok := w.grammar.AssignmentParts(node, w.source)
	if !ok || target == "" {
		return
	}
	if !strings.ContainsAny(value, quoteChars) {
		return
	}

	start, _ := w.span(node)
	w.result.Variables = append(w.result.Variables, VariableFact{
		Name:         target,
		Line:         start,
		ValuePreview: preview(value, w.opts.PreviewLength),
		Kind:         secret.Classify(target, value),
	})
}

// span returns the node's 1-based line span, clamped to the text's lines.
// The end line is the last line holding non-whitespace text of the node, so
// trailing newlines and zero-width dedent tokens do not stretch the span.
func (w *walker) span(node *sitter.Node) (int, int) {
	start := int(node.StartPosition().Row) + 1
	end := int(node.EndPosition().Row) + 1

	startByte, endByte := node.StartByte(), node.EndByte()
	if startByte <= endByte && endByte <= uint(len(w.source)) {
		text := bytes.TrimRight(w.source[startByte:endByte], " \t\r\n\f\v")
		end = start + bytes.Count(text, []byte("\n"))
	}

	if w.totalLines > 0 {
		if start > w.totalLines {
			start = w.totalLines
		}
		if end > w.totalLines {
			end = w.totalLines
		}
	}
	if end < start {
		end = start
	}
	return start, end
}

// preview truncates value to n runes, marking the cut with an ellipsis.
func preview(value string, n int) string {
	if utf8.RuneCountInString(value) <= n {
		return value
	}
	runes := []rune(value)
	return string(runes[:n]) + previewEllipsis
}
