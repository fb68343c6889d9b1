// Package ingest runs the page pipeline over a whole document: extraction,
// chunking and document-wide numbering.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"yojna-khojna/internal/chunker"
	"yojna-khojna/internal/contextutil"
	"yojna-khojna/internal/extract"

	"golang.org/x/sync/errgroup"
)

// PageResult summarizes what happened to one page.
type PageResult struct {
	Number int            `json:"page_number"`
	Method extract.Method `json:"method,omitempty"`
	Chunks int            `json:"chunks"`
	Error  string         `json:"error,omitempty"`
}

// Result is the outcome of processing one document.
type Result struct {
	DocumentID string                `json:"document_id"`
	TotalPages int                   `json:"total_pages"`
	Records    []chunker.ChunkRecord `json:"chunks"`
	Pages      []PageResult          `json:"pages"`
}

// FailedPages returns the numbers of pages that could not be read.
func (r *Result) FailedPages() []int {
	var failed []int
	for _, p := range r.Pages {
		if p.Error != "" {
			failed = append(failed, p.Number)
		}
	}
	return failed
}

// Processor fans the pages of a document out over a bounded worker pool.
type Processor struct {
	arbiter *extract.Arbiter
	chunker *chunker.Chunker
	workers int
}

// NewProcessor creates a Processor. workers below 1 means one page at a time.
func NewProcessor(arbiter *extract.Arbiter, c *chunker.Chunker, workers int) *Processor {
	if workers < 1 {
		workers = 1
	}
	return &Processor{arbiter: arbiter, chunker: c, workers: workers}
}

type pageOutcome struct {
	result PageResult
	chunks []string
}

// Process extracts and chunks every page of src and numbers the chunks in
// page order. A failing page is recorded and skipped; the document fails only
// when every page fails or ctx is cancelled.
func (p *Processor) Process(ctx context.Context, documentID string, src extract.PageSource) (*Result, error) {
	logger := contextutil.LoggerFromContext(ctx).With("document_id", documentID)
	ctx = context.WithValue(ctx, contextutil.LoggerKey(), logger)
	start := time.Now()

	total := src.PageCount()
	if total <= 0 {
		return nil, ErrNoPages
	}

	outcomes := make([]pageOutcome, total)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i := range outcomes {
		n := i + 1
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[n-1] = p.processPage(gctx, src, n)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("processing %s: %w", documentID, err)
	}

	result := &Result{DocumentID: documentID, TotalPages: total, Pages: make([]PageResult, total)}
	pages := make([]chunker.PageChunks, 0, total)
	failed := 0
	for i, o := range outcomes {
		result.Pages[i] = o.result
		if o.result.Error != "" {
			failed++
			continue
		}
		pages = append(pages, chunker.PageChunks{PageNumber: o.result.Number, Chunks: o.chunks})
	}
	result.Records = chunker.Assemble(documentID, total, pages)

	logger.InfoContext(ctx, "document processed",
		"total_pages", total,
		"failed_pages", failed,
		"chunks", len(result.Records),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if failed == total {
		return result, fmt.Errorf("%w: %d pages", ErrAllPagesFailed, total)
	}
	return result, nil
}

// processPage runs extraction and chunking for page n. Errors stay inside the
// returned outcome.
func (p *Processor) processPage(ctx context.Context, src extract.PageSource, n int) pageOutcome {
	logger := contextutil.LoggerFromContext(ctx)

	page, err := p.arbiter.ExtractPage(ctx, src, n)
	if err != nil {
		var pae *extract.PageAccessError
		if errors.As(err, &pae) {
			logger.WarnContext(ctx, "skipping unreadable page", "page", n, "error", err)
		} else {
			logger.ErrorContext(ctx, "page extraction failed", "page", n, "error", err)
		}
		return pageOutcome{result: PageResult{Number: n, Error: err.Error()}}
	}

	chunks := p.chunker.ChunkPage(ctx, n, page.Text)
	return pageOutcome{
		result: PageResult{Number: n, Method: page.Method, Chunks: len(chunks)},
		chunks: chunks,
	}
}
