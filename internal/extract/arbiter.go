package extract

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"yojna-khojna/internal/contextutil"
	"yojna-khojna/internal/tableformat"
)

// Method records which path produced a page's final text.
type Method string

const (
	MethodDirect   Method = "direct"
	MethodOCR      Method = "ocr"
	MethodFallback Method = "fallback" // OCR was attempted but gave nothing usable
)

// Options controls the direct-text versus OCR decision.
type Options struct {
	MinTextLength int      // direct text shorter than this (in runes) is suspect
	MinTableRows  int      // a table with at least this many rows is significant
	DPI           int      // render resolution handed to the OCR engine
	Languages     []string // OCR language hint, e.g. eng, hin
}

// DefaultOptions returns the thresholds used for the scheme corpus.
func DefaultOptions() Options {
	return Options{
		MinTextLength: 20,
		MinTableRows:  2,
		DPI:           300,
		Languages:     []string{"eng", "hin"},
	}
}

// Page is the final text of one page.
type Page struct {
	Number int
	Text   string
	Method Method
	Tables int // formatted tables included in Text
}

// Arbiter picks the final text for each page.
type Arbiter struct {
	ocr  OCREngine
	opts Options
}

// NewArbiter creates an Arbiter. ocr may be nil, in which case pages with
// minimal text keep whatever was extracted directly.
func NewArbiter(ocr OCREngine, opts Options) *Arbiter {
	def := DefaultOptions()
	if opts.MinTextLength < 0 {
		opts.MinTextLength = def.MinTextLength
	}
	if opts.MinTableRows <= 0 {
		opts.MinTableRows = def.MinTableRows
	}
	if opts.DPI <= 0 {
		opts.DPI = def.DPI
	}
	if len(opts.Languages) == 0 {
		opts.Languages = def.Languages
	}
	return &Arbiter{ocr: ocr, opts: opts}
}

// ExtractPage returns the final text of page n. A page that cannot be read
// yields a *PageAccessError; OCR problems never surface as errors.
func (a *Arbiter) ExtractPage(ctx context.Context, src PageSource, n int) (Page, error) {
	logger := contextutil.LoggerFromContext(ctx)

	parsed, err := parse(ctx, src, n)
	if err != nil {
		return Page{}, &PageAccessError{Page: n, Err: err}
	}

	direct := Normalize(parsed.Text)

	var tables []string
	significant := false
	for i, grid := range parsed.Tables {
		formatted := tableformat.Format(grid, fmt.Sprintf("Page %d - Table %d", n, i+1))
		if formatted == "" {
			continue
		}
		tables = append(tables, formatted)
		if tableformat.RowCount(grid) >= a.opts.MinTableRows {
			significant = true
		}
	}

	if utf8.RuneCountInString(direct) >= a.opts.MinTextLength || significant || a.ocr == nil {
		return Page{Number: n, Text: join(direct, tables), Method: MethodDirect, Tables: len(tables)}, nil
	}

	logger.InfoContext(ctx, "direct text minimal, attempting OCR", "page", n, "length", utf8.RuneCountInString(direct))
	text, err := a.recognize(ctx, src, n)
	switch {
	case err != nil:
		logger.ErrorContext(ctx, "OCR failed, keeping direct text", "page", n, "error", err)
	case text == "":
		logger.WarnContext(ctx, "OCR yielded no text", "page", n)
	default:
		// OCR output has no table structure; formatted tables are dropped.
		return Page{Number: n, Text: text, Method: MethodOCR}, nil
	}
	return Page{Number: n, Text: join(direct, tables), Method: MethodFallback, Tables: len(tables)}, nil
}

// recognize renders page n and runs OCR on it. Errors come back as *OCRError.
func (a *Arbiter) recognize(ctx context.Context, src PageSource, n int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &OCRError{Page: n, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	img, err := src.RenderPage(ctx, n, a.opts.DPI)
	if err != nil {
		return "", &OCRError{Page: n, Err: fmt.Errorf("render: %w", err)}
	}
	raw, err := a.ocr.Recognize(ctx, img, a.opts.Languages)
	if err != nil {
		return "", &OCRError{Page: n, Err: err}
	}
	return Normalize(raw), nil
}

// parse calls the source, turning a parser panic into an error.
func parse(ctx context.Context, src PageSource, n int) (page ParsedPage, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parser panic: %v", r)
		}
	}()
	return src.ParsePage(ctx, n)
}

// join puts direct text and formatted tables together, blank-line separated.
func join(direct string, tables []string) string {
	parts := make([]string, 0, len(tables)+1)
	if direct != "" {
		parts = append(parts, direct)
	}
	parts = append(parts, tables...)
	return strings.Join(parts, "\n\n")
}
