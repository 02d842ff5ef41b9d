package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mvp-joe/structlens/internal/reconcile"
)

// LineReconciler refines approximate issue lines.
type LineReconciler interface {
	ExplainLine(source, category string, line int, language string) reconcile.Match
}

// AddReconcileLineTool registers the reconcile_line tool with an MCP server.
func AddReconcileLineTool(s *server.MCPServer, r LineReconciler) {
	tool := mcp.NewTool(
		"reconcile_line",
		mcp.WithDescription(`Map an approximate issue line to the exact source line.

Scans 5 lines either side of the reported line (by default), top to bottom, and
returns the first line matching the issue category's patterns. Categories
include "sql injection", "hardcoded secret", "command injection",
"path traversal", "xss", "insecure deserialization" and "mixed type".
Unknown categories match the first scanned line. A reported line outside the
file, or a window with no match, is returned unchanged.`),
		mcp.WithString("source",
			mcp.Required(),
			mcp.Description("Full source text the line refers to")),
		mcp.WithString("category",
			mcp.Required(),
			mcp.Description("Issue category, e.g. \"hardcoded secret\"")),
		mcp.WithNumber("line",
			mcp.Required(),
			mcp.Description("Approximate 1-based line number")),
		mcp.WithString("language",
			mcp.Description("Optional language tag, recorded for logging only")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createReconcileLineHandler(r))
}

// createReconcileLineHandler creates the handler function for the reconcile_line tool.
func createReconcileLineHandler(r LineReconciler) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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
		category, err := parseStringArg(argsMap, "category", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		line, err := parseIntArgPtr(argsMap, "line")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if line == nil {
			return mcp.NewToolResultError("line parameter is required"), nil
		}
		language, err := parseStringArg(argsMap, "language", false)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		response := &ReconcileLineResponse{
			RequestID: uuid.New().String(),
			Match:     r.ExplainLine(source, category, *line, language),
			Metadata: ResponseMetadata{
				TookMs: int(time.Since(startTime).Milliseconds()),
				Source: "reconcile",
			},
		}

		jsonData, err := json.Marshal(response)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}

		return mcp.NewToolResultText(string(jsonData)), nil
	}
}

// ReconcileLineResponse represents the JSON response schema for the reconcile_line tool.
// The match fields are inlined.
type ReconcileLineResponse struct {
	RequestID string `json:"request_id"`
	reconcile.Match
	Metadata ResponseMetadata `json:"metadata"`
}
