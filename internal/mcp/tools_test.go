package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mvp-joe/structlens/internal/config"
	"github.com/mvp-joe/structlens/internal/extractor"
	"github.com/mvp-joe/structlens/internal/lens"
	"github.com/mvp-joe/structlens/internal/secret"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for MCP tools:
// - extract_structure returns functions, variables, stats and a request id
// - extract_structure accepts empty source and tags facts with filename
// - extract_structure reports unsupported languages without failing
// - extract_structure with secrets_only drops plain string assignments
// - extract_structure rejects missing or mistyped arguments as tool errors
// - reconcile_line returns the corrected line and the matching pattern
// - reconcile_line returns out-of-range lines unchanged
// - reconcile_line rejects missing, fractional or mistyped line numbers
// - NewMCPServer registers both tools without error

func newTestLens(t *testing.T) *lens.Lens {
	t.Helper()
	cfg := config.Default()
	cfg.Cache.Enabled = false
	l, err := lens.New(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(l.Close)
	return l
}

func callTool(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args interface{}) *mcp.CallToolResult {
	t.Helper()
	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
	result, err := handler(context.Background(), request)
	require.NoError(t, err, "should not return system error")
	require.NotNil(t, result, "should return result")
	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	textContent, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok, "should be text content")
	return textContent.Text
}

const cppSecret = "#include <string>\n\nint main() {\n    return 0;\n}\n\n\n\nconst std::string API_KEY = \"sk-123\";\n"

func TestExtractStructureHandler_ValidRequest(t *testing.T) {
	t.Parallel()

	handler := createExtractStructureHandler(newTestLens(t))
	result := callTool(t, handler, map[string]interface{}{
		"source":   "def get(u):\n    q = \"SELECT * FROM t WHERE n='\" + u + \"'\"\n    return q",
		"language": "python",
		"filename": "app/db.py",
	})
	assert.False(t, result.IsError, "should not be error result")

	var response ExtractStructureResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))

	_, err := uuid.Parse(response.RequestID)
	assert.NoError(t, err, "request id should be a uuid")
	assert.Equal(t, "extract", response.Metadata.Source)
	assert.GreaterOrEqual(t, response.Metadata.TookMs, 0)

	require.NotNil(t, response.Result)
	assert.True(t, response.Result.Supported)
	assert.Equal(t, 3, response.Result.TotalLines)
	require.Len(t, response.Result.Functions, 1)
	assert.Equal(t, "get", response.Result.Functions[0].Name)
	assert.Equal(t, "app/db.py", response.Result.Functions[0].SourceFile)
	require.Len(t, response.Result.Variables, 1)
	assert.Equal(t, secret.StringAssignment, response.Result.Variables[0].Kind)
	assert.Equal(t, extractor.Stats{Functions: 1, StringAssignments: 1}, response.Stats)
}

func TestExtractStructureHandler_EmptySource(t *testing.T) {
	t.Parallel()

	handler := createExtractStructureHandler(newTestLens(t))
	result := callTool(t, handler, map[string]interface{}{
		"source":   "",
		"language": "cpp",
	})
	assert.False(t, result.IsError)

	var response ExtractStructureResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))
	assert.Equal(t, 0, response.Result.TotalLines)
	assert.Empty(t, response.Result.Functions)
	assert.Empty(t, response.Result.Variables)
}

func TestExtractStructureHandler_UnsupportedLanguage(t *testing.T) {
	t.Parallel()

	handler := createExtractStructureHandler(newTestLens(t))
	result := callTool(t, handler, map[string]interface{}{
		"source":   "a\nb\n",
		"language": "cobol",
	})
	assert.False(t, result.IsError)

	var response ExtractStructureResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))
	assert.False(t, response.Result.Supported)
	assert.Equal(t, 2, response.Result.TotalLines)
}

func TestExtractStructureHandler_SecretsOnly(t *testing.T) {
	t.Parallel()

	handler := createExtractStructureHandler(newTestLens(t))
	result := callTool(t, handler, map[string]interface{}{
		"source":       "greeting = \"hello\"\napi_key = \"sk-test-123\"\n",
		"language":     "python",
		"secrets_only": true,
	})
	assert.False(t, result.IsError)

	var response ExtractStructureResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))
	require.Len(t, response.Result.Variables, 1)
	assert.Equal(t, "api_key", response.Result.Variables[0].Name)
	assert.Equal(t, extractor.Stats{PotentialSecrets: 1}, response.Stats)
}

func TestExtractStructureHandler_InvalidArguments(t *testing.T) {
	t.Parallel()

	handler := createExtractStructureHandler(newTestLens(t))

	tests := []struct {
		name string
		args interface{}
		want string
	}{
		{"not a map", "python", "invalid arguments format"},
		{"missing source", map[string]interface{}{"language": "python"}, "source parameter is required"},
		{"missing language", map[string]interface{}{"source": "x"}, "language parameter is required"},
		{"empty language", map[string]interface{}{"source": "x", "language": ""}, "language cannot be empty"},
		{"source wrong type", map[string]interface{}{"source": 1.0, "language": "python"}, "source must be a string"},
		{"filename wrong type", map[string]interface{}{"source": "x", "language": "python", "filename": true}, "filename must be a string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := callTool(t, handler, tt.args)
			assert.True(t, result.IsError)
			assert.Contains(t, resultText(t, result), tt.want)
		})
	}
}

func TestReconcileLineHandler_ValidRequest(t *testing.T) {
	t.Parallel()

	handler := createReconcileLineHandler(newTestLens(t))
	result := callTool(t, handler, map[string]interface{}{
		"source":   cppSecret,
		"category": "hardcoded secret",
		"line":     float64(7),
		"language": "cpp",
	})
	assert.False(t, result.IsError)

	var response ReconcileLineResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))

	_, err := uuid.Parse(response.RequestID)
	assert.NoError(t, err)
	assert.Equal(t, 9, response.Line)
	assert.Equal(t, 7, response.Reported)
	assert.True(t, response.Corrected)
	assert.True(t, response.Known)
	assert.NotEmpty(t, response.Pattern)
	assert.Equal(t, "reconcile", response.Metadata.Source)
}

func TestReconcileLineHandler_ExactAndOutOfRange(t *testing.T) {
	t.Parallel()

	handler := createReconcileLineHandler(newTestLens(t))

	for _, tt := range []struct {
		line int
		want int
	}{
		{9, 9},
		{0, 0},
		{-2, -2},
		{100, 100},
	} {
		result := callTool(t, handler, map[string]interface{}{
			"source":   cppSecret,
			"category": "hardcoded secret",
			"line":     float64(tt.line),
		})
		require.False(t, result.IsError)

		var response ReconcileLineResponse
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))
		assert.Equal(t, tt.want, response.Line, "line %d", tt.line)
	}
}

func TestReconcileLineHandler_InvalidArguments(t *testing.T) {
	t.Parallel()

	handler := createReconcileLineHandler(newTestLens(t))

	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{"missing line", map[string]interface{}{"source": "x", "category": "xss"}, "line parameter is required"},
		{"fractional line", map[string]interface{}{"source": "x", "category": "xss", "line": 1.5}, "line must be an integer"},
		{"string line", map[string]interface{}{"source": "x", "category": "xss", "line": "1"}, "line must be a number"},
		{"missing category", map[string]interface{}{"source": "x", "line": 1.0}, "category parameter is required"},
		{"missing source", map[string]interface{}{"category": "xss", "line": 1.0}, "source parameter is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := callTool(t, handler, tt.args)
			assert.True(t, result.IsError)
			assert.Contains(t, resultText(t, result), tt.want)
		})
	}
}

func TestNewMCPServer(t *testing.T) {
	t.Parallel()

	s := NewMCPServer(newTestLens(t), "test", nil)
	require.NotNil(t, s)
	assert.NotNil(t, s.mcp)

	// Tools compose onto any server.
	other := server.NewMCPServer("test", "1.0.0", server.WithToolCapabilities(true))
	AddExtractStructureTool(other, newTestLens(t))
	AddReconcileLineTool(other, newTestLens(t))
}
