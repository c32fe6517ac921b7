// Package mcp exposes the enrichment pipeline and symbol catalogue to
// AI agents over the Model Context Protocol.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/symbolica-app/symbolica/internal/catalog"
	"github.com/symbolica-app/symbolica/internal/enrich"
	"github.com/symbolica-app/symbolica/internal/related"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes quest enrichment tools.
type Server struct {
	store    *catalog.Store
	pipeline *enrich.Pipeline
	index    *related.Index
	mcp      *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(store *catalog.Store, pipeline *enrich.Pipeline, index *related.Index) *Server {
	s := &Server{
		store:    store,
		pipeline: pipeline,
		index:    index,
	}

	s.mcp = server.NewMCPServer(
		"symbolica",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(enrichFieldTool, s.handleEnrichField)
	s.mcp.AddTool(findRelatedSymbolsTool, s.handleFindRelatedSymbols)
	s.mcp.AddTool(getQuestTool, s.handleGetQuest)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
