package chat

import (
	"fmt"
	"strings"

	"github.com/ziadkadry99/doc-chat/internal/vectordb"
)

const systemPrompt = `You are a helpful assistant answering questions about a document the user has uploaded. Ground every answer in the provided document excerpts. If the excerpts do not contain the answer, say so instead of guessing.`

const questionTemplate = `You are answering questions based on a specific document. Here is the relevant content from the document:

%s

Question: %s

Instructions:
- Answer based on the provided content from the document
- If the answer isn't in the document content provided, clearly state you don't know
- Be specific and detailed in your response
- Reference specific sections or parts when relevant`

// buildContext renders retrieved chunks as labeled excerpts.
func buildContext(hits []vectordb.Hit) string {
	var sb strings.Builder
	for _, h := range hits {
		sb.WriteString(fmt.Sprintf("[excerpt from page %d]\n", h.Chunk.Page))
		sb.WriteString(h.Chunk.Text)
		sb.WriteString("\n\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// questionPrompt assembles the user message: the document summary when one
// has been generated, the retrieved excerpts, then the question.
func questionPrompt(hits []vectordb.Hit, summary, question string) string {
	docContext := buildContext(hits)
	if summary != "" {
		docContext = "Document summary:\n" + summary + "\n\n" + docContext
	}
	return fmt.Sprintf(questionTemplate, docContext, question)
}
