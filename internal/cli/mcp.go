package cli

import (
	"fmt"

	"github.com/mvp-joe/structlens/internal/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for structure extraction and line reconciliation",
	Long: `Start the Model Context Protocol (MCP) server so review agents can call
structlens directly.

The MCP server:
- Provides extract_structure (functions and string assignments of a snippet)
- Provides reconcile_line (approximate issue line to exact line)
- Communicates via stdio (standard MCP transport)

Example:
  structlens mcp`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLens()
		if err != nil {
			return err
		}
		defer l.Close()

		logger.Info("mcp_languages", zap.Strings("languages", l.Languages()))

		server := mcp.NewMCPServer(l, Version, logger)
		if err := server.Serve(cmd.Context()); err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
