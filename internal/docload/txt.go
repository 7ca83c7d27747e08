package docload

func parseText(data []byte) ([]Segment, error) {
	seg, ok := normalizeSegment(string(data), 1)
	if !ok {
		return nil, nil
	}
	return []Segment{seg}, nil
}
