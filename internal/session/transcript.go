package session

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TranscriptFormat selects the export rendering.
type TranscriptFormat string

const (
	FormatMarkdown TranscriptFormat = "markdown"
	FormatJSON     TranscriptFormat = "json"
)

type transcriptExport struct {
	Document   string    `json:"document,omitempty"`
	Provider   string    `json:"provider,omitempty"`
	ExportedAt time.Time `json:"exported_at"`
	Turns      []Turn    `json:"turns"`
}

// Transcript renders the conversation history for export. The markdown
// rendering carries a header with the document name and embedding provider;
// the JSON rendering is a stable machine-readable structure.
func (s *Session) Transcript(format TranscriptFormat) (string, error) {
	s.mu.Lock()
	docName := ""
	provider := ""
	if s.doc != nil {
		docName = s.doc.Name
	}
	if s.index != nil {
		provider = s.index.Provider()
	}
	turns := make([]Turn, len(s.history))
	copy(turns, s.history)
	s.mu.Unlock()

	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(transcriptExport{
			Document:   docName,
			Provider:   provider,
			ExportedAt: time.Now().UTC(),
			Turns:      turns,
		}, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal transcript: %w", err)
		}
		return string(data), nil

	case FormatMarkdown:
		var sb strings.Builder
		sb.WriteString("# Chat transcript\n\n")
		if docName != "" {
			sb.WriteString(fmt.Sprintf("- Document: %s\n", docName))
		}
		if provider != "" {
			sb.WriteString(fmt.Sprintf("- Embedding provider: %s\n", provider))
		}
		sb.WriteString(fmt.Sprintf("- Exported: %s\n\n", time.Now().UTC().Format(time.RFC3339)))
		for i, turn := range turns {
			sb.WriteString(fmt.Sprintf("## Turn %d\n\n", i+1))
			sb.WriteString(fmt.Sprintf("**User:** %s\n\n", turn.Question))
			sb.WriteString(fmt.Sprintf("**Assistant:** %s\n\n", turn.Answer))
			if len(turn.Sources) > 0 {
				sb.WriteString("Sources: ")
				parts := make([]string, len(turn.Sources))
				for j, src := range turn.Sources {
					parts[j] = fmt.Sprintf("chunk %d (page %d)", src.Seq, src.Page)
				}
				sb.WriteString(strings.Join(parts, ", "))
				sb.WriteString("\n\n")
			}
		}
		return sb.String(), nil

	default:
		return "", fmt.Errorf("unknown transcript format: %s", format)
	}
}
