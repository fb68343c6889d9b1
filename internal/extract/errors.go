package extract

import (
	"errors"
	"fmt"
)

// ErrNotRenderable is returned by sources that have no page images.
var ErrNotRenderable = errors.New("page cannot be rendered")

// PageAccessError reports that a page could not be read at all. The page is
// skipped; the rest of the document is unaffected.
type PageAccessError struct {
	Page int
	Err  error
}

func (e *PageAccessError) Error() string {
	return fmt.Sprintf("page %d: access failed: %v", e.Page, e.Err)
}

func (e *PageAccessError) Unwrap() error { return e.Err }

// OCRError reports that rendering or recognition failed for a page.
type OCRError struct {
	Page int
	Err  error
}

func (e *OCRError) Error() string {
	return fmt.Sprintf("page %d: ocr failed: %v", e.Page, e.Err)
}

func (e *OCRError) Unwrap() error { return e.Err }
