package indexer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"unicode/utf8"
)

// ChunkerVersion is the version identifier for the chunker implementation.
// Update this when chunking logic changes significantly.
const ChunkerVersion = "v2.0"

// DocumentStats summarizes the stored chunks of one document.
type DocumentStats struct {
	DocumentID string `json:"document_id"`
	Chunks     int    `json:"chunks"`
	// PagesWithChunks counts pages that produced at least one chunk.
	PagesWithChunks int       `json:"pages_with_chunks"`
	TotalPages      int       `json:"total_pages"`
	ChunkSizes      SizeStats `json:"chunk_sizes"`
	ChunkerVersion  string    `json:"chunker_version"`
	// IndexVersion is a hash identifying the index build (chunker + embedding model + params).
	IndexVersion string `json:"index_version"`
}

// SizeStats contains statistics about chunk lengths in characters.
type SizeStats struct {
	Min  int     `json:"min"`
	Max  int     `json:"max"`
	Mean float64 `json:"mean"`
	P95  int     `json:"p95"`
}

// Stats computes chunk statistics for a document from the chunk store.
func (ix *Indexer) Stats(ctx context.Context, documentID string) (*DocumentStats, error) {
	doc, err := ix.docs.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	chunks, err := ix.chunks.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get chunks: %w", err)
	}

	stats := &DocumentStats{
		DocumentID:     documentID,
		Chunks:         len(chunks),
		TotalPages:     doc.TotalPages,
		ChunkerVersion: ChunkerVersion,
		IndexVersion:   ix.IndexVersion(),
	}

	pages := make(map[int]struct{})
	sizes := make([]int, 0, len(chunks))
	for _, c := range chunks {
		pages[c.PageNumber] = struct{}{}
		sizes = append(sizes, utf8.RuneCountInString(c.Text))
	}
	stats.PagesWithChunks = len(pages)
	stats.ChunkSizes = computeSizeStats(sizes)
	return stats, nil
}

// IndexVersion hashes the chunker version, embedding model and chunking
// parameters into 16 hex characters.
func (ix *Indexer) IndexVersion() string {
	input := fmt.Sprintf("%s|%s|chunkSize=%d|chunkOverlap=%d",
		ChunkerVersion, ix.opts.EmbeddingModel, ix.opts.Chunking.ChunkSize, ix.opts.Chunking.ChunkOverlap)
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:])[:16]
}

// computeSizeStats computes min, max, mean, and p95 from chunk lengths.
func computeSizeStats(sizes []int) SizeStats {
	if len(sizes) == 0 {
		return SizeStats{}
	}

	sorted := make([]int, len(sizes))
	copy(sorted, sizes)
	sort.Ints(sorted)

	sum := 0
	for _, n := range sizes {
		sum += n
	}
	mean := float64(sum) / float64(len(sizes))

	// nearest-rank percentile
	p95Index := int(math.Ceil(float64(len(sorted))*0.95)) - 1
	if p95Index < 0 {
		p95Index = 0
	}

	return SizeStats{
		Min:  sorted[0],
		Max:  sorted[len(sorted)-1],
		Mean: math.Round(mean*100) / 100, // Round to 2 decimal places
		P95:  sorted[p95Index],
	}
}
