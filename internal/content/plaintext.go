package content

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// wordsPerMinute is the reading speed used for time estimates.
const wordsPerMinute = 200

var markdown = goldmark.New()

// PlainText strips markdown formatting from src, keeping paragraph breaks as
// blank lines. It is used for search indexes and word counts where styled
// output is not wanted.
func PlainText(src string) string {
	source := []byte(src)
	doc := markdown.Parser().Parse(text.NewReader(source))

	var paras []string
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if t := extractText(n, source); t != "" {
			paras = append(paras, t)
		}
	}
	return strings.Join(paras, "\n\n")
}

// extractText gets the text content of a goldmark AST node.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(node.Value)
		default:
			buf.WriteString(extractText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}

// WordCount counts whitespace-separated words in the plain text of src.
func WordCount(src string) int {
	return len(strings.Fields(PlainText(src)))
}

// ReadingMinutes estimates the reading time of the whole paper, rounded up
// and never less than one minute.
func (p *Paper) ReadingMinutes() int {
	words := WordCount(p.Abstract)
	for _, s := range p.Sections {
		words += WordCount(s.Body)
	}
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// FullText is the plain text of the abstract and every section, in document
// order.
func (p *Paper) FullText() string {
	parts := []string{PlainText(p.Abstract)}
	for _, s := range p.Sections {
		parts = append(parts, s.Title, PlainText(s.Body))
	}
	return strings.Join(parts, "\n\n")
}
