package docload

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// parsePDF extracts plain text page by page.
func parsePDF(data []byte) ([]Segment, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	var segments []Segment
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("pdf page %d: %w", i, err)
		}
		if seg, ok := normalizeSegment(text, i); ok {
			segments = append(segments, seg)
		}
	}
	return segments, nil
}
