package mcp

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/mvp-joe/structlens/internal/logging"
	"go.uber.org/zap"
)

// Lens is the structlens facade the tools are served from.
type Lens interface {
	StructureExtractor
	LineReconciler
}

// MCPServer manages the MCP server lifecycle.
type MCPServer struct {
	mcp    *server.MCPServer
	logger *zap.Logger
}

// NewMCPServer creates an MCP server exposing extract_structure and reconcile_line.
func NewMCPServer(lens Lens, version string, logger *zap.Logger) *MCPServer {
	logger = logging.OrNop(logger)

	mcpServer := server.NewMCPServer(
		"structlens",
		version,
		server.WithToolCapabilities(true),
	)

	AddExtractStructureTool(mcpServer, lens)
	AddReconcileLineTool(mcpServer, lens)

	return &MCPServer{
		mcp:    mcpServer,
		logger: logger,
	}
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *MCPServer) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("mcp_server_starting", zap.String("transport", "stdio"))
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-sigCh:
		s.logger.Info("mcp_server_stopping", zap.String("reason", "signal"))
		return nil
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
