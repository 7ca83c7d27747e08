package docload

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// parseMarkdown walks the goldmark AST and collects text content, one
// segment per top-level block so headings keep their own lines.
func parseMarkdown(data []byte) ([]Segment, error) {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(data))

	var segments []Segment
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindHeading, ast.KindParagraph, ast.KindCodeBlock, ast.KindFencedCodeBlock:
			if seg, ok := normalizeSegment(blockText(n, data), 1); ok {
				segments = append(segments, seg)
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	return segments, nil
}

// blockText flattens the inline/text content of a block node.
func blockText(n ast.Node, source []byte) string {
	var out []byte
	switch node := n.(type) {
	case *ast.FencedCodeBlock:
		for i := 0; i < node.Lines().Len(); i++ {
			line := node.Lines().At(i)
			out = append(out, line.Value(source)...)
		}
	case *ast.CodeBlock:
		for i := 0; i < node.Lines().Len(); i++ {
			line := node.Lines().At(i)
			out = append(out, line.Value(source)...)
		}
	default:
		_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
			if !entering {
				return ast.WalkContinue, nil
			}
			if t, ok := child.(*ast.Text); ok {
				out = append(out, t.Segment.Value(source)...)
				if t.SoftLineBreak() || t.HardLineBreak() {
					out = append(out, '\n')
				}
			}
			return ast.WalkContinue, nil
		})
	}
	return string(out)
}
