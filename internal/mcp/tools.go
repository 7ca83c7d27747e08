package mcp

import "github.com/mark3labs/mcp-go/mcp"

// searchDocumentTool defines the search_document MCP tool.
var searchDocumentTool = mcp.NewTool("search_document",
	mcp.WithDescription("Search the loaded document semantically. Returns the most similar passages with page references."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of passages to return (default 4)"),
	),
)

// askDocumentTool defines the ask_document MCP tool.
var askDocumentTool = mcp.NewTool("ask_document",
	mcp.WithDescription("Ask a question about the loaded document. The answer is grounded in retrieved passages and recorded in the conversation history."),
	mcp.WithString("question",
		mcp.Required(),
		mcp.Description("The question to answer from the document"),
	),
)

// summarizeDocumentTool defines the summarize_document MCP tool.
var summarizeDocumentTool = mcp.NewTool("summarize_document",
	mcp.WithDescription("Produce a structured summary of the loaded document."),
)
