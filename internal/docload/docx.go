package docload

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

// parseDOCX extracts paragraph text. DOCX carries no page numbers, so the
// whole document is one segment on page 1.
func parseDOCX(data []byte) ([]Segment, error) {
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}
	defer r.Close()

	content := r.Editable().GetContent()
	// Paragraph ends become line breaks before the markup is stripped.
	content = strings.ReplaceAll(content, "</w:p>", "</w:p>\n")

	var sb strings.Builder
	for _, line := range strings.Split(stripTags(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	seg, ok := normalizeSegment(sb.String(), 1)
	if !ok {
		return nil, nil
	}
	return []Segment{seg}, nil
}

// stripTags drops everything between angle brackets, keeping run text.
func stripTags(s string) string {
	var sb strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
