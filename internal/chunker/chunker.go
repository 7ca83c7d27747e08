// Package chunker splits document text into fixed-size overlapping chunks
// sized for embedding and retrieval.
package chunker

import (
	"fmt"

	"github.com/ziadkadry99/doc-chat/internal/docload"
)

// Chunk is one retrievable slice of a document.
type Chunk struct {
	Text   string
	Seq    int
	Page   int
	Source string
}

// Split cuts text into rune-based windows of exactly size runes, each
// sharing overlap runes with its predecessor. The final chunk absorbs the
// remainder, so concatenating the chunks minus their overlaps reproduces
// the input exactly. Text at or under size comes back as a single chunk.
func Split(text string, size, overlap int) ([]string, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap must satisfy 0 <= overlap < size, got %d/%d", overlap, size)
	}
	if text == "" {
		return nil, nil
	}
	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}, nil
	}
	step := size - overlap
	var chunks []string
	for start := 0; ; start += step {
		end := start + size
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks, nil
}

// SplitDocument chunks a parsed document and attributes each chunk to the
// page containing its first rune.
func SplitDocument(doc *docload.Document, size, overlap int) ([]Chunk, error) {
	texts, err := Split(doc.Text, size, overlap)
	if err != nil {
		return nil, err
	}

	type boundary struct {
		start int
		page  int
	}
	var boundaries []boundary
	offset := 0
	for _, seg := range doc.Segments {
		boundaries = append(boundaries, boundary{start: offset, page: seg.Page})
		offset += len([]rune(seg.Text))
	}
	pageAt := func(runeOffset int) int {
		page := 1
		for _, b := range boundaries {
			if b.start > runeOffset {
				break
			}
			page = b.page
		}
		return page
	}

	step := size - overlap
	chunks := make([]Chunk, 0, len(texts))
	for i, text := range texts {
		chunks = append(chunks, Chunk{
			Text:   text,
			Seq:    i,
			Page:   pageAt(i * step),
			Source: doc.Name,
		})
	}
	return chunks, nil
}

// Reassemble joins chunks back into the original text by dropping each
// later chunk's leading overlap runes.
func Reassemble(chunks []string, overlap int) string {
	if len(chunks) == 0 {
		return ""
	}
	out := chunks[0]
	for _, c := range chunks[1:] {
		runes := []rune(c)
		if len(runes) <= overlap {
			continue
		}
		out += string(runes[overlap:])
	}
	return out
}
