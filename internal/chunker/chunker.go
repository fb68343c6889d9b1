package chunker

import (
	"context"

	"yojna-khojna/internal/contextutil"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// Options configures a Chunker. Sizes are in characters.
type Options struct {
	// ChunkSize bounds the fresh content of a chunk, the part after the
	// overlap. A whole chunk can reach ChunkSize+ChunkOverlap characters, or
	// more when a single table is larger than ChunkSize.
	ChunkSize int
	// ChunkOverlap is how much of the previous chunk's tail each chunk repeats.
	ChunkOverlap int
	Separators   []Separator // nil means DefaultSeparators
}

// DefaultOptions returns the sizes used for scheme documents.
func DefaultOptions() Options {
	return Options{ChunkSize: DefaultChunkSize, ChunkOverlap: DefaultChunkOverlap}
}

// Chunker runs preprocess, split and postprocess over one page at a time.
// It holds no per-page state and is safe for concurrent use.
type Chunker struct {
	splitter *Splitter
}

// New creates a Chunker.
func New(opts Options) (*Chunker, error) {
	s, err := NewSplitter(opts.ChunkSize, opts.ChunkOverlap, opts.Separators)
	if err != nil {
		return nil, err
	}
	return &Chunker{splitter: s}, nil
}

// ChunkPage returns the clean chunks of one page's final text.
func (c *Chunker) ChunkPage(ctx context.Context, pageNumber int, text string) []string {
	pre, tables := Preprocess(text)
	raw := c.splitter.Split(pre, tables)
	clean := Postprocess(raw, tables)

	contextutil.LoggerFromContext(ctx).DebugContext(ctx, "page chunked",
		"page", pageNumber,
		"tables", len(tables),
		"raw_chunks", len(raw),
		"chunks", len(clean),
	)
	return clean
}
