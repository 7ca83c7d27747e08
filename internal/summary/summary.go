// Package summary produces a one-shot digest of a document. It bypasses
// retrieval entirely and never touches the conversation state.
package summary

import (
	"context"
	"fmt"

	"github.com/ziadkadry99/doc-chat/internal/docload"
	"github.com/ziadkadry99/doc-chat/internal/errdefs"
	"github.com/ziadkadry99/doc-chat/internal/llm"
)

// DefaultMaxChars caps how much document text is sent to the model.
const DefaultMaxChars = 16000

const truncationNotice = "\n... [Content truncated for summary generation]"

const summaryTemplate = `Please provide a comprehensive summary of this document: %s

Content to summarize:
%s

Please provide a summary that includes:
1. **Main Topic/Purpose**: What is this document about?
2. **Key Points**: 3-5 most important points or findings
3. **Structure**: How is the content organized?
4. **Important Details**: Notable data, dates, names, or statistics
5. **Conclusions**: Main outcomes or recommendations (if any)

Keep the summary concise but comprehensive (aim for 200-400 words).`

// Summarizer generates digests through an LLM provider.
type Summarizer struct {
	provider llm.Provider
	model    string
	maxChars int
}

// New creates a summarizer. maxChars <= 0 falls back to DefaultMaxChars.
func New(provider llm.Provider, model string, maxChars int) *Summarizer {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return &Summarizer{provider: provider, model: model, maxChars: maxChars}
}

// Summarize sends the document text, truncated to the configured excerpt
// size, through a single non-streamed completion.
func (s *Summarizer) Summarize(ctx context.Context, doc *docload.Document) (string, error) {
	content := doc.Text
	if len([]rune(content)) > s.maxChars {
		content = string([]rune(content)[:s.maxChars]) + truncationNotice
	}

	resp, err := s.provider.Complete(ctx, llm.CompletionRequest{
		Model: s.model,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: fmt.Sprintf(summaryTemplate, doc.Name, content)},
		},
	})
	if err != nil {
		return "", err
	}
	if resp.Content == "" {
		return "", fmt.Errorf("%w: empty summary", errdefs.ErrGenerationFailed)
	}
	return resp.Content, nil
}
