// Package mcp exposes the loaded document over the Model Context Protocol:
// semantic search, grounded question answering, and summarization as tools
// on a stdio server.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/doc-chat/internal/chat"
	"github.com/ziadkadry99/doc-chat/internal/session"
	"github.com/ziadkadry99/doc-chat/internal/summary"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes document chat tools.
type Server struct {
	sess       *session.Session
	engine     *chat.Engine
	summarizer *summary.Summarizer
	mcp        *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(sess *session.Session, engine *chat.Engine, summarizer *summary.Summarizer) *Server {
	s := &Server{
		sess:       sess,
		engine:     engine,
		summarizer: summarizer,
	}

	s.mcp = server.NewMCPServer(
		"docchat",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(searchDocumentTool, s.handleSearchDocument)
	s.mcp.AddTool(askDocumentTool, s.handleAskDocument)
	s.mcp.AddTool(summarizeDocumentTool, s.handleSummarizeDocument)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
