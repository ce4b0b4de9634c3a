package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/semfind/internal/app"
	"github.com/dshills/semfind/internal/indexer"
)

const (
	// ServerName is the MCP server name
	ServerName = "semfind"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp *server.MCPServer
	app *app.App

	// Serializes index_files calls
	indexLock indexer.IndexLock
}

// NewServer creates an MCP server backed by the application a
func NewServer(a *app.App) (*Server, error) {
	if a == nil {
		return nil, fmt.Errorf("application is required")
	}

	// Create MCP server
	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		mcp: mcpServer,
		app: a,
	}

	// Register tools
	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until stdin closes
func (s *Server) Serve(ctx context.Context) error {
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() error {
	// Register semantic_search tool
	s.mcp.AddTool(semanticSearchTool(), s.handleSemanticSearch)

	// Register index_files tool
	s.mcp.AddTool(indexFilesTool(), s.handleIndexFiles)

	// Register get_status tool
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)

	return nil
}
