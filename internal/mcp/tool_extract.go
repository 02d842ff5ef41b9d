package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mvp-joe/structlens/internal/extractor"
)

// StructureExtractor extracts structural facts from source text.
type StructureExtractor interface {
	ExtractStructure(source, language string) *extractor.Result
}

// AddExtractStructureTool registers the extract_structure tool with an MCP server.
func AddExtractStructureTool(s *server.MCPServer, ex StructureExtractor) {
	tool := mcp.NewTool(
		"extract_structure",
		mcp.WithDescription(`Parse source code and list its functions and string assignments.

Returns:
- functions: name, kind (function or method), start/end line, raw parameter list
- variables: string-valued assignments with a value preview, classified as
  potential_secret (name or value mentions key, secret, pass, api or token)
  or string_assignment
- total_lines, and truncated when the node budget stopped traversal early

Unsupported languages return empty lists with supported=false. Never fails on
malformed source.`),
		mcp.WithString("source",
			mcp.Required(),
			mcp.Description("Source text to analyze (may be empty)")),
		mcp.WithString("language",
			mcp.Required(),
			mcp.Description("Language tag, e.g. python, cpp, c, java, rust, typescript, javascript, ruby, php")),
		mcp.WithString("filename",
			mcp.Description("Optional file name recorded on every fact")),
		mcp.WithBoolean("secrets_only",
			mcp.Description("Only return variables classified as potential_secret (default: false)")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createExtractStructureHandler(ex))
}

// createExtractStructureHandler creates the handler function for the extract_structure tool.
func createExtractStructureHandler(ex StructureExtractor) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		startTime := time.Now()

		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		source, err := parseTextArg(argsMap, "source")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		language, err := parseStringArg(argsMap, "language", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		filename, err := parseStringArg(argsMap, "filename", false)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result := ex.ExtractStructure(source, language)
		if filename != "" {
			result = result.WithSourceFile(filename)
		}
		if parseBoolArg(argsMap, "secrets_only", false) {
			filtered := *result
			filtered.Variables = append([]extractor.VariableFact{}, result.PotentialSecrets()...)
			result = &filtered
		}

		response := &ExtractStructureResponse{
			RequestID: uuid.New().String(),
			Result:    result,
			Stats:     result.Stats(),
			Metadata: ResponseMetadata{
				TookMs: int(time.Since(startTime).Milliseconds()),
				Source: "extract",
			},
		}

		jsonData, err := json.Marshal(response)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}

		// Return as text result (mcp-go convention)
		return mcp.NewToolResultText(string(jsonData)), nil
	}
}

// ExtractStructureResponse represents the JSON response schema for the extract_structure tool.
type ExtractStructureResponse struct {
	RequestID string            `json:"request_id"`
	Result    *extractor.Result `json:"result"`
	Stats     extractor.Stats   `json:"stats"`
	Metadata  ResponseMetadata  `json:"metadata"`
}

// ResponseMetadata contains timing and source information.
type ResponseMetadata struct {
	TookMs int    `json:"took_ms"`
	Source string `json:"source"` // "extract" or "reconcile"
}
