package source

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// parseMarkdown lays out a CommonMark document with GFM tables. Images become
// charts described by their alt text, falling back to the title.
func parseMarkdown(data []byte) (*FlowDocument, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	doc := md.Parser().Parse(text.NewReader(data))

	ts := newTypesetter()
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		markdownBlock(ts, n, data)
	}
	return ts.document(), nil
}

func markdownBlock(ts *typesetter, n ast.Node, src []byte) {
	switch node := n.(type) {
	case *ast.Heading:
		if t := inlineText(node, src); t != "" {
			ts.heading(node.Level, t)
		}
	case *ast.Paragraph, *ast.TextBlock:
		if t := inlineText(node, src); t != "" {
			ts.paragraph(t)
		}
		for _, img := range inlineImages(node) {
			desc := inlineText(img, src)
			if desc == "" {
				desc = string(img.Title)
			}
			ts.image(desc)
		}
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		var buf bytes.Buffer
		lines := node.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(src))
		}
		if t := strings.TrimSpace(buf.String()); t != "" {
			ts.paragraph(t)
		}
	case *extast.Table:
		ts.table(markdownTableRows(node, src))
	case *ast.HTMLBlock, *ast.ThematicBreak:
	default:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			markdownBlock(ts, c, src)
		}
	}
}

func markdownTableRows(tbl *extast.Table, src []byte) [][]string {
	var rows [][]string
	for r := tbl.FirstChild(); r != nil; r = r.NextSibling() {
		var row []string
		for c := r.FirstChild(); c != nil; c = c.NextSibling() {
			if _, ok := c.(*extast.TableCell); ok {
				row = append(row, inlineText(c, src))
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// inlineText flattens inline children. Images are excluded; they are laid
// out as charts.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	writeInline(&buf, n, src)
	return strings.TrimSpace(buf.String())
}

func writeInline(buf *bytes.Buffer, n ast.Node, src []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(src))
			if node.HardLineBreak() || node.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.String:
			buf.Write(node.Value)
		case *ast.Image:
		default:
			writeInline(buf, c, src)
		}
	}
}

func inlineImages(n ast.Node) []*ast.Image {
	var images []*ast.Image
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if img, ok := c.(*ast.Image); ok {
			images = append(images, img)
			continue
		}
		images = append(images, inlineImages(c)...)
	}
	return images
}
