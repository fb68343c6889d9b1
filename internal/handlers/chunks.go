package handlers

import (
	"errors"
	"net/http"

	"yojna-khojna/internal/contextutil"
	"yojna-khojna/internal/indexer"
	"yojna-khojna/internal/ingest"
)

// ChunkPreviewHandler chunks an uploaded document without storing or
// embedding anything.
type ChunkPreviewHandler struct {
	processor      *ingest.Processor
	maxUploadBytes int64
}

// NewChunkPreviewHandler creates a new ChunkPreviewHandler.
func NewChunkPreviewHandler(processor *ingest.Processor, maxUploadBytes int64) *ChunkPreviewHandler {
	return &ChunkPreviewHandler{processor: processor, maxUploadBytes: maxUploadBytes}
}

// ServeHTTP handles POST /api/chunks.
//
// swagger:route POST /api/chunks previewChunks
//
// Responds with the chunk records and per-page extraction results.
func (h *ChunkPreviewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	filename, content, status, err := readUpload(w, r, h.maxUploadBytes)
	if err != nil {
		logger.WarnContext(ctx, "invalid upload", "error", err)
		writeError(ctx, w, status, err.Error())
		return
	}

	hash := indexer.Hash(content)
	src, err := indexer.OpenSource(filename, content)
	if err != nil {
		logger.WarnContext(ctx, "failed to open document", "filename", filename, "error", err)
		writeError(ctx, w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	defer func() {
		_ = src.Close()
	}()

	result, err := h.processor.Process(ctx, indexer.DocumentID(filename, hash), src)
	switch {
	case errors.Is(err, ingest.ErrNoPages), errors.Is(err, ingest.ErrAllPagesFailed):
		writeError(ctx, w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		logger.ErrorContext(ctx, "failed to process document", "filename", filename, "error", err)
		writeError(ctx, w, http.StatusInternalServerError, "Failed to process document")
		return
	}

	writeJSON(ctx, w, http.StatusOK, result)
}
