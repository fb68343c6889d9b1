// Package indexer stores processed scheme documents: chunk rows in SQLite and
// chunk embeddings in Qdrant.
package indexer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"yojna-khojna/internal/chunker"
	"yojna-khojna/internal/contextutil"
	"yojna-khojna/internal/embedding"
	"yojna-khojna/internal/ingest"
	"yojna-khojna/internal/storage"
	"yojna-khojna/internal/vectorstore"
)

// Status is the outcome of an indexing request.
type Status string

const (
	// StatusExists means a document with identical content is already indexed.
	StatusExists    Status = "exists"
	StatusCompleted Status = Status(storage.StatusCompleted)
	StatusPartial   Status = Status(storage.StatusPartial)
	StatusFailed    Status = Status(storage.StatusFailed)
)

// Outcome describes a finished IndexBytes call.
type Outcome struct {
	Status   Status                  `json:"status"`
	Document *storage.DocumentRecord `json:"document"`
	Result   *ingest.Result          `json:"-"`
}

// Options configures an Indexer.
type Options struct {
	Collection     string
	EmbeddingModel string
	Chunking       chunker.Options // recorded in the index version
}

// Indexer orchestrates the indexing of scheme documents into SQLite and Qdrant.
type Indexer struct {
	docs        storage.DocumentStore
	chunks      storage.ChunkStore
	embedder    embedding.Embedder
	vectorStore vectorstore.VectorStore
	processor   *ingest.Processor
	opts        Options
}

// New creates an Indexer.
func New(
	docs storage.DocumentStore,
	chunks storage.ChunkStore,
	embedder embedding.Embedder,
	vectorStore vectorstore.VectorStore,
	processor *ingest.Processor,
	opts Options,
) *Indexer {
	return &Indexer{
		docs:        docs,
		chunks:      chunks,
		embedder:    embedder,
		vectorStore: vectorStore,
		processor:   processor,
		opts:        opts,
	}
}

// Hash returns the hex SHA-256 of content.
func Hash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Register records a document as processing. When a document with the same
// content hash already exists it is returned with existed set and nothing
// changes. A different version under the same id has its old chunks removed.
func (ix *Indexer) Register(ctx context.Context, filename string, content []byte) (doc *storage.DocumentRecord, existed bool, err error) {
	logger := contextutil.LoggerFromContext(ctx)
	hash := Hash(content)

	existing, err := ix.docs.GetByHash(ctx, hash)
	if err == nil {
		logger.DebugContext(ctx, "skipping unchanged document", "document_id", existing.ID, "hash", hash)
		return existing, true, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to check existing document: %w", err)
	}

	id := DocumentID(filename, hash)
	prev, err := ix.docs.GetByID(ctx, id)
	switch {
	case err == nil:
		if err := ix.removeChunks(ctx, id); err != nil {
			return nil, false, err
		}
		logger.InfoContext(ctx, "replacing document version", "document_id", id, "old_hash", prev.Hash, "hash", hash)
	case !errors.Is(err, storage.ErrNotFound):
		return nil, false, fmt.Errorf("failed to check existing document: %w", err)
	}

	doc = &storage.DocumentRecord{
		ID:       id,
		Filename: filepath.Base(filename),
		Hash:     hash,
		Status:   storage.StatusProcessing,
	}
	if prev != nil {
		doc.CreatedAt = prev.CreatedAt
	}
	if err := ix.docs.Upsert(ctx, doc); err != nil {
		return nil, false, err
	}
	return doc, false, nil
}

// removeChunks deletes a document's chunks from Qdrant and SQLite.
func (ix *Indexer) removeChunks(ctx context.Context, documentID string) error {
	logger := contextutil.LoggerFromContext(ctx)

	oldIDs, err := ix.chunks.ListIDsByDocument(ctx, documentID)
	if err != nil {
		return fmt.Errorf("failed to list old chunk IDs: %w", err)
	}
	if len(oldIDs) == 0 {
		return nil
	}

	pointIDs := make([]string, len(oldIDs))
	for i, id := range oldIDs {
		pointIDs[i] = PointID(id)
	}
	if err := ix.vectorStore.Delete(ctx, ix.opts.Collection, pointIDs); err != nil {
		// Point ids are derived from chunk ids, so the new upsert overwrites
		// whatever survives here.
		logger.WarnContext(ctx, "failed to delete old chunks from Qdrant", "error", err, "count", len(pointIDs))
	}

	if err := ix.chunks.DeleteByDocument(ctx, documentID); err != nil {
		return fmt.Errorf("failed to delete old chunks from SQLite: %w", err)
	}
	return nil
}

// Index processes a registered document and stores its chunks. The document
// record ends in completed, partial or failed state.
func (ix *Indexer) Index(ctx context.Context, doc *storage.DocumentRecord, content []byte) (*ingest.Result, error) {
	logger := contextutil.LoggerFromContext(ctx).With("document_id", doc.ID)
	ctx = context.WithValue(ctx, contextutil.LoggerKey(), logger)

	src, err := OpenSource(doc.Filename, content)
	if err != nil {
		return nil, ix.fail(ctx, doc, 0, err)
	}
	defer func() {
		_ = src.Close()
	}()

	if t, ok := src.(titled); ok && doc.Title == "" {
		doc.Title = t.Title()
		if err := ix.docs.Upsert(ctx, doc); err != nil {
			logger.WarnContext(ctx, "failed to store title", "error", err)
		}
	}

	result, err := ix.processor.Process(ctx, doc.ID, src)
	if err != nil {
		total := 0
		if result != nil {
			total = result.TotalPages
		}
		return result, ix.fail(ctx, doc, total, err)
	}

	if err := ix.store(ctx, doc, result); err != nil {
		return result, ix.fail(ctx, doc, result.TotalPages, err)
	}

	status, msg := storage.StatusCompleted, ""
	if failed := result.FailedPages(); len(failed) > 0 {
		status = storage.StatusPartial
		msg = fmt.Sprintf("unreadable pages: %s", joinInts(failed))
	}
	if err := ix.docs.UpdateStatus(ctx, doc.ID, status, result.TotalPages, len(result.Records), msg); err != nil {
		return result, err
	}
	doc.Status, doc.TotalPages, doc.ChunkCount, doc.Error = status, result.TotalPages, len(result.Records), msg

	logger.InfoContext(ctx, "indexed document", "status", status, "total_pages", result.TotalPages, "chunks", len(result.Records))
	return result, nil
}

// store embeds the chunks and writes them to Qdrant and SQLite.
func (ix *Indexer) store(ctx context.Context, doc *storage.DocumentRecord, result *ingest.Result) error {
	logger := contextutil.LoggerFromContext(ctx)

	if len(result.Records) == 0 {
		logger.WarnContext(ctx, "no chunks generated")
		return nil
	}

	texts := make([]string, len(result.Records))
	for i, r := range result.Records {
		texts[i] = r.Text
	}

	embeddings, err := ix.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(embeddings) != len(texts) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(texts), len(embeddings))
	}

	rows := make([]*storage.ChunkRecord, len(result.Records))
	points := make([]vectorstore.Point, len(result.Records))
	for i, r := range result.Records {
		rows[i] = &storage.ChunkRecord{
			ID:               r.ChunkID,
			DocumentID:       r.DocumentID,
			GlobalIndex:      i + 1,
			PageNumber:       r.Metadata.PageNumber,
			IndexWithinPage:  r.Metadata.IndexWithinPage,
			ChunkCountOnPage: r.Metadata.ChunkCountOnPage,
			TotalPages:       r.Metadata.TotalPages,
			Text:             r.Text,
		}
		points[i] = vectorstore.Point{
			ID:  PointID(r.ChunkID),
			Vec: embeddings[i],
			Meta: map[string]any{
				"chunk_id":            r.ChunkID,
				"document_id":         r.DocumentID,
				"document_hash":       doc.Hash,
				"filename":            doc.Filename,
				"text":                r.Text,
				"page_number":         r.Metadata.PageNumber,
				"index_within_page":   r.Metadata.IndexWithinPage,
				"chunk_count_on_page": r.Metadata.ChunkCountOnPage,
				"total_pages":         r.Metadata.TotalPages,
			},
		}
	}

	if err := ix.vectorStore.Upsert(ctx, ix.opts.Collection, points); err != nil {
		return fmt.Errorf("failed to upsert vectors: %w", err)
	}

	if err := ix.chunks.InsertBatch(ctx, rows); err != nil {
		ids := make([]string, len(points))
		for i, p := range points {
			ids[i] = p.ID
		}
		if derr := ix.vectorStore.Delete(ctx, ix.opts.Collection, ids); derr != nil {
			logger.WarnContext(ctx, "failed to roll back vectors", "error", derr, "count", len(ids))
		}
		return err
	}
	return nil
}

// fail marks doc as failed and returns cause.
func (ix *Indexer) fail(ctx context.Context, doc *storage.DocumentRecord, totalPages int, cause error) error {
	// the status must land even when ctx was cancelled
	ctx = context.WithoutCancel(ctx)
	logger := contextutil.LoggerFromContext(ctx)
	logger.ErrorContext(ctx, "failed to index document", "error", cause)

	doc.Status, doc.TotalPages, doc.ChunkCount, doc.Error = storage.StatusFailed, totalPages, 0, cause.Error()
	if err := ix.docs.UpdateStatus(ctx, doc.ID, storage.StatusFailed, totalPages, 0, cause.Error()); err != nil {
		logger.ErrorContext(ctx, "failed to record failure", "error", err)
	}
	return cause
}

// IndexBytes registers and indexes one document synchronously.
func (ix *Indexer) IndexBytes(ctx context.Context, filename string, content []byte) (*Outcome, error) {
	doc, existed, err := ix.Register(ctx, filename, content)
	if err != nil {
		return nil, err
	}
	if existed {
		return &Outcome{Status: StatusExists, Document: doc}, nil
	}

	result, err := ix.Index(ctx, doc, content)
	out := &Outcome{Status: Status(doc.Status), Document: doc, Result: result}
	if err != nil {
		return out, err
	}
	return out, nil
}

// IndexFile reads and indexes the file at path.
func (ix *Indexer) IndexFile(ctx context.Context, path string) (*Outcome, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return ix.IndexBytes(ctx, filepath.Base(path), content)
}

// IndexDir indexes every PDF and markdown file under dir.
// Errors for individual files are logged but don't stop the indexing process.
func (ix *Indexer) IndexDir(ctx context.Context, dir string) error {
	logger := contextutil.LoggerFromContext(ctx)

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if Supported(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	logger.InfoContext(ctx, "starting indexing", "dir", dir, "total_files", len(files))

	var successCount, skippedCount, errorCount int
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}

		out, err := ix.IndexFile(ctx, path)
		if err != nil {
			errorCount++
			logger.ErrorContext(ctx, "failed to index file", "path", path, "error", err)
			continue
		}
		if out.Status == StatusExists {
			skippedCount++
			continue
		}
		successCount++
	}

	logger.InfoContext(ctx, "indexing completed",
		"total_files", len(files),
		"success", successCount,
		"unchanged", skippedCount,
		"errors", errorCount,
	)

	if errorCount > 0 {
		return fmt.Errorf("indexing completed with %d errors", errorCount)
	}
	return nil
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ", ")
}
