package docload

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// parseCSV renders each record as a tab-joined line. The header row, when
// present, simply becomes the first line of text.
func parseCSV(data []byte) ([]Segment, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	var sb strings.Builder
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		sb.WriteString(strings.Join(record, "\t"))
		sb.WriteString("\n")
	}

	seg, ok := normalizeSegment(sb.String(), 1)
	if !ok {
		return nil, nil
	}
	return []Segment{seg}, nil
}
