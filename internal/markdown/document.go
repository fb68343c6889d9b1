// Package markdown exposes Markdown scheme notes as a paged source. Pages are
// separated by form feeds; GFM tables become table grids.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"yojna-khojna/internal/extract"
	"yojna-khojna/internal/tableformat"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// PageBreak separates pages inside one Markdown file.
const PageBreak = "\f"

// Document is a parsed Markdown file. It implements extract.PageSource.
type Document struct {
	title string
	pages []extract.ParsedPage
}

// Parse splits content into pages and parses each one.
func Parse(content []byte, filename string) *Document {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	raw := bytes.Split(content, []byte(PageBreak))
	doc := &Document{pages: make([]extract.ParsedPage, len(raw))}
	for i, src := range raw {
		root := md.Parser().Parse(text.NewReader(src))
		if doc.title == "" {
			doc.title = firstHeading(root, src)
		}
		doc.pages[i] = parsePage(root, src, i+1)
	}
	if doc.title == "" {
		doc.title = titleFromFilename(filename)
	}
	return doc
}

// Title is the first level 1 or 2 heading, or a title made from the
// filename.
func (d *Document) Title() string {
	return d.title
}

// PageCount returns the number of form-feed separated pages.
func (d *Document) PageCount() int {
	return len(d.pages)
}

// ParsePage returns page n (1-based).
func (d *Document) ParsePage(ctx context.Context, n int) (extract.ParsedPage, error) {
	if err := ctx.Err(); err != nil {
		return extract.ParsedPage{}, err
	}
	if n < 1 || n > len(d.pages) {
		return extract.ParsedPage{}, fmt.Errorf("page %d out of range (1-%d)", n, len(d.pages))
	}
	return d.pages[n-1], nil
}

// RenderPage is not supported: Markdown has no page image to recognize.
func (d *Document) RenderPage(ctx context.Context, n int, dpi int) ([]byte, error) {
	return nil, extract.ErrNotRenderable
}

// parsePage turns the top-level blocks of one page into text paragraphs and
// table grids.
func parsePage(root ast.Node, src []byte, n int) extract.ParsedPage {
	page := extract.ParsedPage{Number: n}
	var blocks []string
	for child := root.FirstChild(); child != nil; child = child.NextSibling() {
		switch node := child.(type) {
		case *extast.Table:
			page.Tables = append(page.Tables, tableGrid(node, src))
		case *ast.Heading:
			if h := extractTextFromNode(node, src); h != "" {
				blocks = append(blocks, h)
			}
		default:
			if b := blockText(node, src); b != "" {
				blocks = append(blocks, b)
			}
		}
	}
	page.Text = strings.Join(blocks, "\n\n")
	return page
}

// blockText returns the source lines of a block. Container blocks such as
// lists and quotes are flattened one line per leaf block.
func blockText(n ast.Node, src []byte) string {
	if lines := n.Lines(); lines.Len() > 0 {
		var b strings.Builder
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(strings.TrimRight(string(line.Value(src)), "\r\n"))
		}
		return strings.TrimSpace(b.String())
	}

	var parts []string
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		t := blockText(child, src)
		if t == "" {
			continue
		}
		if _, ok := child.(*ast.ListItem); ok {
			t = "- " + t
		}
		parts = append(parts, t)
	}
	return strings.Join(parts, "\n")
}

// tableGrid reads a GFM table header first.
func tableGrid(table *extast.Table, src []byte) tableformat.Grid {
	var rows [][]string
	for r := table.FirstChild(); r != nil; r = r.NextSibling() {
		var cells []string
		for c := r.FirstChild(); c != nil; c = c.NextSibling() {
			if _, ok := c.(*extast.TableCell); ok {
				cells = append(cells, extractTextFromNode(c, src))
			}
		}
		rows = append(rows, cells)
	}
	return tableformat.Strings(rows...)
}

// firstHeading returns the first level 1 heading, or the first level 2
// heading when the page has no level 1.
func firstHeading(root ast.Node, src []byte) string {
	var h1, h2 string
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if heading, ok := n.(*ast.Heading); ok {
			switch {
			case heading.Level == 1:
				h1 = extractTextFromNode(heading, src)
				return ast.WalkStop, nil
			case heading.Level == 2 && h2 == "":
				h2 = extractTextFromNode(heading, src)
			}
		}
		return ast.WalkContinue, nil
	})
	if h1 != "" {
		return h1
	}
	return h2
}

// titleFromFilename drops the extension and capitalizes each word.
func titleFromFilename(filename string) string {
	name := filepath.Base(filename)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)

	words := strings.Fields(name)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// extractTextFromNode collects the inline text below n.
func extractTextFromNode(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(src))
			if v.SoftLineBreak() || v.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
