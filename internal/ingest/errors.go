package ingest

import "errors"

var (
	// ErrNoPages is returned for a source without a single page.
	ErrNoPages = errors.New("document has no pages")
	// ErrAllPagesFailed is returned when no page of a document could be read.
	ErrAllPagesFailed = errors.New("every page of the document failed")
)
