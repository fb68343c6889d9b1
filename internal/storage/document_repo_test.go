package storage

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDocumentRepo_Upsert(t *testing.T) {
	repo := NewDocumentRepo(newTestDB(t))
	ctx := context.Background()

	doc := &DocumentRecord{
		ID:       "pm_kisan",
		Filename: "pm_kisan.pdf",
		Title:    "PM Kisan",
		Hash:     "abc",
		Status:   StatusProcessing,
	}
	if err := repo.Upsert(ctx, doc); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if doc.CreatedAt.IsZero() {
		t.Error("Upsert() did not set CreatedAt")
	}
	created := doc.CreatedAt

	doc.Status = StatusCompleted
	doc.Hash = "def"
	doc.ChunkCount = 4
	if err := repo.Upsert(ctx, doc); err != nil {
		t.Fatalf("Upsert() second call error = %v", err)
	}

	got, err := repo.GetByID(ctx, "pm_kisan")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Status != StatusCompleted {
		t.Errorf("GetByID() Status = %v, want %v", got.Status, StatusCompleted)
	}
	if got.Hash != "def" {
		t.Errorf("GetByID() Hash = %v, want def", got.Hash)
	}
	if got.ChunkCount != 4 {
		t.Errorf("GetByID() ChunkCount = %v, want 4", got.ChunkCount)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("GetByID() CreatedAt = %v, want %v", got.CreatedAt, created)
	}
	if got.Title != "PM Kisan" {
		t.Errorf("GetByID() Title = %v, want PM Kisan", got.Title)
	}
}

func TestDocumentRepo_Upsert_HashUnique(t *testing.T) {
	repo := NewDocumentRepo(newTestDB(t))
	ctx := context.Background()

	if err := repo.Upsert(ctx, &DocumentRecord{ID: "a", Filename: "a.pdf", Hash: "same", Status: StatusCompleted}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := repo.Upsert(ctx, &DocumentRecord{ID: "b", Filename: "b.pdf", Hash: "same", Status: StatusCompleted}); err == nil {
		t.Error("Upsert() expected unique constraint error for duplicate hash")
	}
}

func TestDocumentRepo_GetByHash(t *testing.T) {
	repo := NewDocumentRepo(newTestDB(t))
	ctx := context.Background()

	if err := repo.Upsert(ctx, &DocumentRecord{ID: "scheme", Filename: "scheme.pdf", Hash: "h1", Status: StatusCompleted}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	tests := []struct {
		name    string
		hash    string
		wantID  string
		wantErr error
	}{
		{name: "found", hash: "h1", wantID: "scheme"},
		{name: "missing", hash: "h2", wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.GetByHash(ctx, tt.hash)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("GetByHash() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetByHash() error = %v", err)
			}
			if got.ID != tt.wantID {
				t.Errorf("GetByHash() ID = %v, want %v", got.ID, tt.wantID)
			}
		})
	}
}

func TestDocumentRepo_UpdateStatus(t *testing.T) {
	repo := NewDocumentRepo(newTestDB(t))
	ctx := context.Background()

	if err := repo.Upsert(ctx, &DocumentRecord{ID: "scheme", Filename: "scheme.pdf", Hash: "h", Status: StatusProcessing}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	if err := repo.UpdateStatus(ctx, "scheme", StatusPartial, 5, 12, "page 3: unreadable"); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}

	got, err := repo.GetByID(ctx, "scheme")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Status != StatusPartial {
		t.Errorf("Status = %v, want %v", got.Status, StatusPartial)
	}
	if got.TotalPages != 5 || got.ChunkCount != 12 {
		t.Errorf("TotalPages, ChunkCount = %d, %d, want 5, 12", got.TotalPages, got.ChunkCount)
	}
	if got.Error != "page 3: unreadable" {
		t.Errorf("Error = %q, want %q", got.Error, "page 3: unreadable")
	}

	if err := repo.UpdateStatus(ctx, "missing", StatusFailed, 0, 0, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateStatus() missing error = %v, want ErrNotFound", err)
	}
}

func TestDocumentRepo_List(t *testing.T) {
	repo := NewDocumentRepo(newTestDB(t))
	ctx := context.Background()

	got, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("List() on empty db = %d documents, want 0", len(got))
	}

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "new"} {
		doc := &DocumentRecord{
			ID:        id,
			Filename:  id + ".pdf",
			Hash:      id,
			Status:    StatusCompleted,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		if err := repo.Upsert(ctx, doc); err != nil {
			t.Fatalf("Upsert() error = %v", err)
		}
	}

	got, err = repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("List() = %d documents, want 2", len(got))
	}
	if got[0].ID != "new" || got[1].ID != "old" {
		t.Errorf("List() order = [%s %s], want [new old]", got[0].ID, got[1].ID)
	}
}
