package storage

import "time"

// DocumentStatus tracks a document through indexing.
type DocumentStatus string

const (
	StatusProcessing DocumentStatus = "processing"
	StatusCompleted  DocumentStatus = "completed"
	StatusPartial    DocumentStatus = "partial" // some pages could not be read
	StatusFailed     DocumentStatus = "failed"
)

// DocumentRecord is an ingested scheme document.
type DocumentRecord struct {
	ID         string         `json:"document_id"`
	Filename   string         `json:"filename"`
	Title      string         `json:"title,omitempty"`
	Hash       string         `json:"document_hash"` // SHA256 hex string of file content
	Status     DocumentStatus `json:"status"`
	TotalPages int            `json:"total_pages"`
	ChunkCount int            `json:"chunk_count"`
	Error      string         `json:"error,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// ChunkRecord is one stored chunk. ID is the chunk_id, e.g. "doc_chunk_3".
type ChunkRecord struct {
	ID               string
	DocumentID       string
	GlobalIndex      int // 1-based position in the document
	PageNumber       int
	IndexWithinPage  int
	ChunkCountOnPage int
	TotalPages       int
	Text             string
}
