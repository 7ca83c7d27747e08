package vectordb

import (
	"fmt"
	"strings"
)

// FormatHits renders retrieval results as human-readable text for CLI and
// tool output.
func FormatHits(hits []Hit) string {
	if len(hits) == 0 {
		return "No matching passages found."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d passage(s):\n\n", len(hits)))
	for i, h := range hits {
		sb.WriteString(fmt.Sprintf("--- Passage %d (similarity: %.4f) ---\n", i+1, h.Similarity))
		sb.WriteString(fmt.Sprintf("Source: %s, page %d, chunk %d\n\n", h.Chunk.Source, h.Chunk.Page, h.Chunk.Seq))
		sb.WriteString(h.Chunk.Text)
		sb.WriteString("\n\n")
	}
	return sb.String()
}
