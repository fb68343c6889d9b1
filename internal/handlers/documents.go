package handlers

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_indexer.go -package=mocks yojna-khojna/internal/handlers DocumentIndexer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"yojna-khojna/internal/contextutil"
	"yojna-khojna/internal/indexer"
	"yojna-khojna/internal/ingest"
	"yojna-khojna/internal/storage"
)

// UploadField is the multipart field carrying the document.
const UploadField = "pdf_file"

// DocumentIndexer is the part of *indexer.Indexer the document endpoints use.
type DocumentIndexer interface {
	Register(ctx context.Context, filename string, content []byte) (*storage.DocumentRecord, bool, error)
	Index(ctx context.Context, doc *storage.DocumentRecord, content []byte) (*ingest.Result, error)
	Stats(ctx context.Context, documentID string) (*indexer.DocumentStats, error)
}

// DocumentsHandler serves document upload and lookup.
type DocumentsHandler struct {
	indexer        DocumentIndexer
	docs           storage.DocumentStore
	chunks         storage.ChunkStore
	maxUploadBytes int64
	wg             sync.WaitGroup
}

// NewDocumentsHandler creates a new DocumentsHandler.
func NewDocumentsHandler(ix DocumentIndexer, docs storage.DocumentStore, chunks storage.ChunkStore, maxUploadBytes int64) *DocumentsHandler {
	return &DocumentsHandler{
		indexer:        ix,
		docs:           docs,
		chunks:         chunks,
		maxUploadBytes: maxUploadBytes,
	}
}

// UploadResponse is returned by the upload endpoint.
//
// swagger:model UploadResponse
type UploadResponse struct {
	Filename     string `json:"filename"`
	Status       string `json:"status"` // "exists" or "processing_scheduled"
	Message      string `json:"message"`
	DocumentID   string `json:"document_id"`
	DocumentHash string `json:"document_hash"`
}

// Upload accepts a document and schedules it for background indexing.
//
// swagger:route POST /api/documents uploadDocument
//
// Returns 200 with status "exists" when identical content was indexed before,
// 202 with status "processing_scheduled" otherwise.
func (h *DocumentsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	filename, content, status, err := readUpload(w, r, h.maxUploadBytes)
	if err != nil {
		logger.WarnContext(ctx, "invalid upload", "error", err)
		writeError(ctx, w, status, err.Error())
		return
	}

	doc, existed, err := h.indexer.Register(ctx, filename, content)
	if err != nil {
		logger.ErrorContext(ctx, "failed to register document", "filename", filename, "error", err)
		writeError(ctx, w, http.StatusInternalServerError, "Failed to register document")
		return
	}

	if existed {
		logger.InfoContext(ctx, "document already processed", "document_id", doc.ID, "filename", filename)
		writeJSON(ctx, w, http.StatusOK, UploadResponse{
			Filename:     filename,
			Status:       "exists",
			Message:      "This document has already been processed.",
			DocumentID:   doc.ID,
			DocumentHash: doc.Hash,
		})
		return
	}

	// The request context ends with the response; indexing must outlive it
	// but keep the request logger.
	bgCtx := context.WithoutCancel(ctx)
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		if _, err := h.indexer.Index(bgCtx, doc, content); err != nil {
			logger.ErrorContext(bgCtx, "background indexing failed", "document_id", doc.ID, "error", err)
		}
	}()

	logger.InfoContext(ctx, "document scheduled for processing", "document_id", doc.ID, "filename", filename)
	writeJSON(ctx, w, http.StatusAccepted, UploadResponse{
		Filename:     filename,
		Status:       "processing_scheduled",
		Message:      "Document accepted and scheduled for background processing.",
		DocumentID:   doc.ID,
		DocumentHash: doc.Hash,
	})
}

// Wait blocks until all scheduled indexing jobs have finished.
func (h *DocumentsHandler) Wait() {
	h.wg.Wait()
}

// List returns every document.
func (h *DocumentsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	docs, err := h.docs.List(ctx)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to list documents", "error", err)
		writeError(ctx, w, http.StatusInternalServerError, "Failed to list documents")
		return
	}
	if docs == nil {
		docs = []*storage.DocumentRecord{}
	}
	writeJSON(ctx, w, http.StatusOK, docs)
}

// Get returns one document record.
func (h *DocumentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	doc, err := h.docs.GetByID(ctx, id)
	if err != nil {
		h.lookupError(ctx, w, id, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, doc)
}

// ChunksResponse lists the stored chunks of a document.
type ChunksResponse struct {
	DocumentID string         `json:"document_id"`
	Chunks     []ChunkPayload `json:"chunks"`
}

// ChunkPayload is a stored chunk in its wire shape.
type ChunkPayload struct {
	ChunkID  string         `json:"chunk_id"`
	Text     string         `json:"text"`
	Metadata map[string]int `json:"metadata"`
}

// Chunks returns the stored chunks of a document in document order.
func (h *DocumentsHandler) Chunks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if _, err := h.docs.GetByID(ctx, id); err != nil {
		h.lookupError(ctx, w, id, err)
		return
	}

	rows, err := h.chunks.ListByDocument(ctx, id)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to list chunks", "document_id", id, "error", err)
		writeError(ctx, w, http.StatusInternalServerError, "Failed to list chunks")
		return
	}

	resp := ChunksResponse{DocumentID: id, Chunks: make([]ChunkPayload, len(rows))}
	for i, c := range rows {
		resp.Chunks[i] = ChunkPayload{
			ChunkID: c.ID,
			Text:    c.Text,
			Metadata: map[string]int{
				"page_number":         c.PageNumber,
				"index_within_page":   c.IndexWithinPage,
				"chunk_count_on_page": c.ChunkCountOnPage,
				"total_pages":         c.TotalPages,
			},
		}
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}

// Stats returns chunk statistics for a document.
func (h *DocumentsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	stats, err := h.indexer.Stats(ctx, id)
	if err != nil {
		h.lookupError(ctx, w, id, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, stats)
}

func (h *DocumentsHandler) lookupError(ctx context.Context, w http.ResponseWriter, id string, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		writeError(ctx, w, http.StatusNotFound, fmt.Sprintf("document %q not found", id))
		return
	}
	contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to get document", "document_id", id, "error", err)
	writeError(ctx, w, http.StatusInternalServerError, "Failed to get document")
}

// readUpload reads the UploadField file of a multipart request. On failure
// it returns the HTTP status to answer with.
func readUpload(w http.ResponseWriter, r *http.Request, maxBytes int64) (string, []byte, int, error) {
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}

	file, header, err := r.FormFile(UploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", nil, http.StatusRequestEntityTooLarge, fmt.Errorf("upload exceeds %d bytes", tooLarge.Limit)
		}
		return "", nil, http.StatusBadRequest, fmt.Errorf("missing multipart field %q", UploadField)
	}
	defer func() {
		_ = file.Close()
	}()

	if !indexer.Supported(header.Filename) {
		return "", nil, http.StatusUnsupportedMediaType, fmt.Errorf("unsupported file type: %s", header.Filename)
	}

	content, err := io.ReadAll(file)
	if err != nil {
		return "", nil, http.StatusBadRequest, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(content) == 0 {
		return "", nil, http.StatusBadRequest, errors.New("uploaded file is empty")
	}
	return header.Filename, content, 0, nil
}
