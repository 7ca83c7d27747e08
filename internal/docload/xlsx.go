package docload

import (
	"fmt"
	"strings"

	"github.com/tealeg/xlsx"
)

// parseXLSX renders each sheet as tab-separated text, one segment per
// sheet so retrieval can report the sheet number.
func parseXLSX(data []byte) ([]Segment, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}

	var segments []Segment
	for i, sheet := range f.Sheets {
		var sb strings.Builder
		sb.WriteString("Sheet: " + sheet.Name + "\n")
		for _, row := range sheet.Rows {
			var cells []string
			for _, cell := range row.Cells {
				cells = append(cells, cell.String())
			}
			sb.WriteString(strings.Join(cells, "\t"))
			sb.WriteString("\n")
		}
		if seg, ok := normalizeSegment(sb.String(), i+1); ok {
			segments = append(segments, seg)
		}
	}
	return segments, nil
}
