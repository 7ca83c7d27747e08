// Package docload parses uploaded files into plain text with page/section
// metadata. Format-specific parsing is delegated to libraries; this package
// only normalizes their output into ordered segments.
package docload

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ziadkadry99/doc-chat/internal/errdefs"
)

// SupportedFormats maps file extensions (without dot) to a display name.
var SupportedFormats = map[string]string{
	"pdf":  "PDF document",
	"txt":  "plain text",
	"docx": "Word document",
	"html": "HTML page",
	"htm":  "HTML page",
	"md":   "Markdown",
	"csv":  "CSV table",
	"xlsx": "Excel workbook",
}

// Segment is an ordered piece of extracted text with its source location.
// Page is 1-based; for unpaged formats it numbers sections (one sheet per
// segment for workbooks, a single section otherwise).
type Segment struct {
	Text string
	Page int
}

// Document is one uploaded file reduced to plain text.
type Document struct {
	ID       string
	Name     string
	Format   string
	Size     int
	Text     string
	Segments []Segment
}

// Load parses raw file bytes according to the extension of name.
// Returns errdefs.ErrUnsupportedFormat for unknown extensions and
// errdefs.ErrCorruptFile when the parsing library rejects the bytes.
func Load(name string, data []byte) (*Document, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if _, ok := SupportedFormats[ext]; !ok {
		return nil, fmt.Errorf("%w: .%s", errdefs.ErrUnsupportedFormat, ext)
	}

	var (
		segments []Segment
		err      error
	)
	switch ext {
	case "pdf":
		segments, err = parsePDF(data)
	case "docx":
		segments, err = parseDOCX(data)
	case "html", "htm":
		segments, err = parseHTML(data)
	case "md":
		segments, err = parseMarkdown(data)
	case "csv":
		segments, err = parseCSV(data)
	case "xlsx":
		segments, err = parseXLSX(data)
	case "txt":
		segments, err = parseText(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errdefs.ErrCorruptFile, name, err)
	}

	doc := &Document{
		ID:       uuid.NewString(),
		Name:     name,
		Format:   ext,
		Size:     len(data),
		Segments: segments,
	}
	var sb strings.Builder
	for _, seg := range doc.Segments {
		sb.WriteString(seg.Text)
	}
	doc.Text = sb.String()
	return doc, nil
}

// normalizeSegment trims surrounding whitespace and guarantees a
// terminating newline so segment texts concatenate cleanly into
// Document.Text.
func normalizeSegment(text string, page int) (Segment, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Segment{}, false
	}
	return Segment{Text: trimmed + "\n", Page: page}, true
}
