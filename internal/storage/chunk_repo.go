package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chunk_store.go -package=mocks yojna-khojna/internal/storage ChunkStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ChunkStore defines the interface for chunk storage operations.
type ChunkStore interface {
	// InsertBatch inserts all chunks in a single transaction.
	InsertBatch(ctx context.Context, chunks []*ChunkRecord) error
	// DeleteByDocument deletes all chunks for a given document ID.
	DeleteByDocument(ctx context.Context, documentID string) error
	// ListIDsByDocument returns all chunk IDs for a document, ordered by global_index.
	ListIDsByDocument(ctx context.Context, documentID string) ([]string, error)
	// ListByDocument returns all chunks for a document, ordered by global_index.
	ListByDocument(ctx context.Context, documentID string) ([]*ChunkRecord, error)
	// GetByID gets a chunk by its ID. Returns ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*ChunkRecord, error)
}

// ChunkRepo provides methods for chunk operations.
// It implements the ChunkStore interface.
type ChunkRepo struct {
	db *sql.DB
}

// NewChunkRepo creates a new ChunkRepo.
func NewChunkRepo(db *sql.DB) *ChunkRepo {
	return &ChunkRepo{db: db}
}

const chunkColumns = "id, document_id, global_index, page_number, index_within_page, chunk_count_on_page, total_pages, text"

// InsertBatch inserts chunks atomically. Either all rows land or none do.
func (r *ChunkRepo) InsertBatch(ctx context.Context, chunks []*ChunkRecord) (err error) {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO chunks ("+chunkColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare chunk insert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for _, c := range chunks {
		if _, err = stmt.ExecContext(ctx,
			c.ID, c.DocumentID, c.GlobalIndex, c.PageNumber,
			c.IndexWithinPage, c.ChunkCountOnPage, c.TotalPages, c.Text,
		); err != nil {
			return fmt.Errorf("failed to insert chunk %s: %w", c.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit chunks: %w", err)
	}
	return nil
}

// DeleteByDocument deletes all chunks for a given document ID.
// Used when re-indexing a document to remove old chunks before inserting new ones.
func (r *ChunkRepo) DeleteByDocument(ctx context.Context, documentID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", documentID)
	if err != nil {
		return fmt.Errorf("failed to delete chunks by document: %w", err)
	}
	return nil
}

// ListIDsByDocument returns all chunk IDs for a document, ordered by global_index.
// Returns an empty slice if no chunks exist (not an error).
// Used to get Qdrant point IDs for deletion before re-indexing.
func (r *ChunkRepo) ListIDsByDocument(ctx context.Context, documentID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id FROM chunks WHERE document_id = ? ORDER BY global_index",
		documentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunk IDs: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan chunk ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return ids, nil
}

// ListByDocument returns all chunks for a document, ordered by global_index.
func (r *ChunkRepo) ListByDocument(ctx context.Context, documentID string) ([]*ChunkRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+chunkColumns+" FROM chunks WHERE document_id = ? ORDER BY global_index",
		documentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var chunks []*ChunkRecord
	for rows.Next() {
		c, err := scanChunk(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return chunks, nil
}

// GetByID gets a chunk by its ID. Returns ErrNotFound if not found.
func (r *ChunkRepo) GetByID(ctx context.Context, id string) (*ChunkRecord, error) {
	c, err := scanChunk(r.db.QueryRowContext(ctx,
		"SELECT "+chunkColumns+" FROM chunks WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query chunk: %w", err)
	}
	return c, nil
}

func scanChunk(s scanner) (*ChunkRecord, error) {
	var c ChunkRecord
	err := s.Scan(&c.ID, &c.DocumentID, &c.GlobalIndex, &c.PageNumber,
		&c.IndexWithinPage, &c.ChunkCountOnPage, &c.TotalPages, &c.Text)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
