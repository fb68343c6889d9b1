package chunker

import (
	"fmt"
	"sort"
)

// Metadata travels with every chunk into the index.
type Metadata struct {
	PageNumber       int `json:"page_number"`
	IndexWithinPage  int `json:"index_within_page"`
	ChunkCountOnPage int `json:"chunk_count_on_page"`
	TotalPages       int `json:"total_pages"`
}

// ChunkRecord is a finished chunk, ready for embedding.
type ChunkRecord struct {
	ChunkID    string   `json:"chunk_id"`
	DocumentID string   `json:"document_id"`
	Text       string   `json:"text"`
	Metadata   Metadata `json:"metadata"`
}

// PageChunks is the clean chunk sequence of one page.
type PageChunks struct {
	PageNumber int
	Chunks     []string
}

// ChunkID formats the document-wide identifier of the n-th chunk (1-based).
func ChunkID(documentID string, n int) string {
	return fmt.Sprintf("%s_chunk_%d", documentID, n)
}

// AssemblePage numbers the chunks of one page. next is the global index the
// first chunk receives; the returned int is the index after the last one.
// A page without chunks returns no records and leaves next unchanged.
func AssemblePage(documentID string, totalPages int, page PageChunks, next int) ([]ChunkRecord, int) {
	if len(page.Chunks) == 0 {
		return nil, next
	}
	records := make([]ChunkRecord, len(page.Chunks))
	for i, text := range page.Chunks {
		records[i] = ChunkRecord{
			ChunkID:    ChunkID(documentID, next),
			DocumentID: documentID,
			Text:       text,
			Metadata: Metadata{
				PageNumber:       page.PageNumber,
				IndexWithinPage:  i + 1,
				ChunkCountOnPage: len(page.Chunks),
				TotalPages:       totalPages,
			},
		}
		next++
	}
	return records, next
}

// Assemble numbers every page's chunks in page order, whatever order pages
// arrive in.
func Assemble(documentID string, totalPages int, pages []PageChunks) []ChunkRecord {
	ordered := make([]PageChunks, len(pages))
	copy(ordered, pages)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].PageNumber < ordered[j].PageNumber
	})

	var records []ChunkRecord
	next := 1
	for _, page := range ordered {
		var recs []ChunkRecord
		recs, next = AssemblePage(documentID, totalPages, page, next)
		records = append(records, recs...)
	}
	return records
}
