package docload

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// parseHTML extracts visible text, skipping script and style subtrees.
func parseHTML(data []byte) ([]Segment, error) {
	root, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "head":
				return
			}
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				sb.WriteString(text)
				sb.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	seg, ok := normalizeSegment(sb.String(), 1)
	if !ok {
		return nil, nil
	}
	return []Segment{seg}, nil
}
