package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/doc-chat/internal/vectordb"
)

const noDocumentHint = "No document is loaded. Start the server with a document path, e.g. `docchat mcp report.pdf`."

// handleSearchDocument performs semantic search over the loaded document.
func (s *Server) handleSearchDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", 4)
	if limit <= 0 {
		limit = 4
	}

	index := s.sess.Index()
	if index == nil {
		return mcp.NewToolResultError(noDocumentHint), nil
	}

	hits, err := index.Query(ctx, query, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	return mcp.NewToolResultText(vectordb.FormatHits(hits)), nil
}

// handleAskDocument answers a question grounded in the loaded document.
func (s *Server) handleAskDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: question"), nil
	}

	answer, err := s.engine.Ask(ctx, question, nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("question failed: %v", err)), nil
	}

	return mcp.NewToolResultText(answer.Text), nil
}

// handleSummarizeDocument produces a one-shot digest of the loaded document.
func (s *Server) handleSummarizeDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc := s.sess.Document()
	if doc == nil {
		return mcp.NewToolResultError(noDocumentHint), nil
	}

	digest, err := s.summarizer.Summarize(ctx, doc)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("summary failed: %v", err)), nil
	}

	// Later ask_document calls carry the digest as prompt context.
	s.sess.SetSummary(digest)
	return mcp.NewToolResultText(digest), nil
}
