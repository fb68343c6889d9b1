// Package pdf reads scheme PDFs page by page: direct text and table grids
// through ledongthuc/pdf, page images for OCR through MuPDF (go-fitz).
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"yojna-khojna/internal/extract"

	"github.com/gen2brain/go-fitz"
	pdflib "github.com/ledongthuc/pdf"
)

// ErrPageRange is returned for a page number outside the document.
var ErrPageRange = errors.New("page out of range")

// Document is an open PDF. It implements extract.PageSource and is safe for
// concurrent use.
type Document struct {
	// mu serializes access to reader, which keeps shared decoding state.
	mu     sync.Mutex
	reader *pdflib.Reader
	raster *fitz.Document // nil when MuPDF could not open the file
	pages  int
	layout Layout
}

// Open reads the PDF at path.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	return OpenBytes(data)
}

// OpenBytes opens a PDF held in memory.
func OpenBytes(data []byte) (*Document, error) {
	reader, err := newReader(data)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	doc := &Document{
		reader: reader,
		pages:  reader.NumPage(),
		layout: DefaultLayout(),
	}
	// Rendering is only needed for OCR; a file MuPDF rejects can still be
	// read directly.
	if raster, err := fitz.NewFromMemory(data); err == nil {
		doc.raster = raster
	}
	return doc, nil
}

// newReader guards the parser's constructor, which panics on some
// malformed cross-reference tables.
func newReader(data []byte) (reader *pdflib.Reader, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()
	return pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
}

// PageCount returns the number of physical pages.
func (d *Document) PageCount() int {
	return d.pages
}

// ParsePage returns the direct text and table grids of page n (1-based).
func (d *Document) ParsePage(ctx context.Context, n int) (page extract.ParsedPage, err error) {
	if err := ctx.Err(); err != nil {
		return extract.ParsedPage{}, err
	}
	if n < 1 || n > d.pages {
		return extract.ParsedPage{}, fmt.Errorf("%w: %d of %d", ErrPageRange, n, d.pages)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse page %d: %v", n, r)
		}
	}()

	p := d.reader.Page(n)
	if p.V.IsNull() {
		return extract.ParsedPage{Number: n}, nil
	}
	text, err := p.GetPlainText(nil)
	if err != nil {
		return extract.ParsedPage{}, fmt.Errorf("page %d text: %w", n, err)
	}
	return extract.ParsedPage{
		Number: n,
		Text:   text,
		Tables: d.layout.Tables(p.Content().Text),
	}, nil
}

// RenderPage rasterizes page n to PNG at dpi.
func (d *Document) RenderPage(ctx context.Context, n int, dpi int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if d.raster == nil {
		return nil, extract.ErrNotRenderable
	}
	if n < 1 || n > d.pages {
		return nil, fmt.Errorf("%w: %d of %d", ErrPageRange, n, d.pages)
	}
	img, err := d.raster.ImagePNG(n-1, float64(dpi))
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", n, err)
	}
	return img, nil
}

// Close releases the renderer.
func (d *Document) Close() error {
	if d.raster != nil {
		return d.raster.Close()
	}
	return nil
}
