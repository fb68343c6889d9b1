package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_store.go -package=mocks yojna-khojna/internal/storage DocumentStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// DocumentStore defines the interface for document storage operations.
type DocumentStore interface {
	// Upsert inserts a document or replaces every field but created_at.
	Upsert(ctx context.Context, doc *DocumentRecord) error
	// GetByID returns ErrNotFound if no document has the id.
	GetByID(ctx context.Context, id string) (*DocumentRecord, error)
	// GetByHash returns ErrNotFound if no document has the content hash.
	GetByHash(ctx context.Context, hash string) (*DocumentRecord, error)
	// UpdateStatus records the outcome of an indexing run.
	UpdateStatus(ctx context.Context, id string, status DocumentStatus, totalPages, chunkCount int, errMsg string) error
	// List returns all documents, newest first.
	List(ctx context.Context) ([]*DocumentRecord, error)
}

// DocumentRepo implements DocumentStore on SQLite.
type DocumentRepo struct {
	db *sql.DB
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

const documentColumns = "id, filename, title, hash, status, total_pages, chunk_count, error, created_at, updated_at"

// Upsert inserts a new document or updates an existing one by id.
func (r *DocumentRepo) Upsert(ctx context.Context, doc *DocumentRecord) error {
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO documents (`+documentColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			filename = excluded.filename,
			title = excluded.title,
			hash = excluded.hash,
			status = excluded.status,
			total_pages = excluded.total_pages,
			chunk_count = excluded.chunk_count,
			error = excluded.error,
			updated_at = excluded.updated_at`,
		doc.ID, doc.Filename, doc.Title, doc.Hash, string(doc.Status),
		doc.TotalPages, doc.ChunkCount, doc.Error, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}
	return nil
}

// GetByID gets a document by its ID. Returns ErrNotFound if not found.
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*DocumentRecord, error) {
	return r.getOne(ctx, "SELECT "+documentColumns+" FROM documents WHERE id = ?", id)
}

// GetByHash gets a document by content hash. Returns ErrNotFound if not found.
func (r *DocumentRepo) GetByHash(ctx context.Context, hash string) (*DocumentRecord, error) {
	return r.getOne(ctx, "SELECT "+documentColumns+" FROM documents WHERE hash = ?", hash)
}

func (r *DocumentRepo) getOne(ctx context.Context, query string, arg any) (*DocumentRecord, error) {
	doc, err := scanDocument(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}
	return doc, nil
}

// UpdateStatus sets the status, counts and error message of a document.
func (r *DocumentRepo) UpdateStatus(ctx context.Context, id string, status DocumentStatus, totalPages, chunkCount int, errMsg string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE documents SET status = ?, total_pages = ?, chunk_count = ?, error = ?, updated_at = ?
		 WHERE id = ?`,
		string(status), totalPages, chunkCount, errMsg, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update document status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns all documents ordered by creation time, newest first.
func (r *DocumentRepo) List(ctx context.Context) ([]*DocumentRecord, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+documentColumns+" FROM documents ORDER BY created_at DESC, id")
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var docs []*DocumentRecord
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return docs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(s scanner) (*DocumentRecord, error) {
	var (
		doc    DocumentRecord
		title  sql.NullString
		status string
	)
	err := s.Scan(&doc.ID, &doc.Filename, &title, &doc.Hash, &status,
		&doc.TotalPages, &doc.ChunkCount, &doc.Error, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	doc.Title = title.String
	doc.Status = DocumentStatus(status)
	return &doc, nil
}
