package parser

import (
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. Headings become a
// line of their own without the leading #'s; other blocks keep their source
// lines.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader) (string, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return "", unreadable("markdown", err)
	}

	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var lines []string
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		collectBlockLines(n, src, &lines)
	}
	return joinLines(lines), nil
}

func collectBlockLines(n ast.Node, src []byte, out *[]string) {
	if h, ok := n.(*ast.Heading); ok {
		*out = append(*out, strings.TrimSpace(inlineText(h, src)))
		return
	}
	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			*out = append(*out, strings.TrimRight(string(seg.Value(src)), "\r\n"))
		}
		return
	}
	// Container blocks (lists, quotes) hold their text in children.
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		collectBlockLines(c, src, out)
	}
}

// inlineText concatenates the text segments below n.
func inlineText(n ast.Node, src []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}
