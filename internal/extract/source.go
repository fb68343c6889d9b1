// Package extract decides, page by page, whether machine-extracted text can
// be trusted or whether the page has to go through optical recognition.
package extract

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_source.go -package=mocks yojna-khojna/internal/extract PageSource,OCREngine

import (
	"context"

	"yojna-khojna/internal/tableformat"
)

// ParsedPage is what a page parser returns for one page.
type ParsedPage struct {
	Number int                // 1-based page number
	Text   string             // directly extracted text, possibly empty
	Tables []tableformat.Grid // raw table grids in page order
}

// PageSource gives page-level access to a document. Page numbers are 1-based.
type PageSource interface {
	// PageCount returns the number of physical pages.
	PageCount() int
	// ParsePage returns the direct text and table grids of page n.
	ParsePage(ctx context.Context, n int) (ParsedPage, error)
	// RenderPage rasterizes page n to a PNG at the given resolution.
	RenderPage(ctx context.Context, n int, dpi int) ([]byte, error)
}

// OCREngine recognizes text in a rendered page image.
type OCREngine interface {
	Recognize(ctx context.Context, image []byte, languages []string) (string, error)
}
