package indexer

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"yojna-khojna/internal/chunker"
	"yojna-khojna/internal/storage"
)

func TestComputeSizeStats(t *testing.T) {
	tests := []struct {
		name  string
		sizes []int
		want  SizeStats
	}{
		{name: "empty", sizes: nil, want: SizeStats{}},
		{name: "single", sizes: []int{42}, want: SizeStats{Min: 42, Max: 42, Mean: 42, P95: 42}},
		{name: "unsorted", sizes: []int{300, 100, 200}, want: SizeStats{Min: 100, Max: 300, Mean: 200, P95: 300}},
		{
			name:  "twenty values",
			sizes: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20},
			want:  SizeStats{Min: 1, Max: 20, Mean: 10.5, P95: 19},
		},
		{name: "rounded mean", sizes: []int{1, 1, 2}, want: SizeStats{Min: 1, Max: 2, Mean: 1.33, P95: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := computeSizeStats(tt.sizes)
			if got != tt.want {
				t.Errorf("computeSizeStats() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestIndexer_Stats(t *testing.T) {
	db, err := storage.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()
	if err := storage.Migrate(db); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	docs := storage.NewDocumentRepo(db)
	chunks := storage.NewChunkRepo(db)
	ix := New(docs, chunks, nil, nil, nil, Options{
		EmbeddingModel: "test-embedding-model",
		Chunking:       chunker.DefaultOptions(),
	})
	ctx := context.Background()

	if _, err := ix.Stats(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Stats() missing error = %v, want ErrNotFound", err)
	}

	doc := &storage.DocumentRecord{ID: "scheme", Filename: "scheme.pdf", Hash: "h", Status: storage.StatusCompleted, TotalPages: 3}
	if err := docs.Upsert(ctx, doc); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	rows := []*storage.ChunkRecord{
		{ID: "scheme_chunk_1", DocumentID: "scheme", GlobalIndex: 1, PageNumber: 1, IndexWithinPage: 1, ChunkCountOnPage: 2, TotalPages: 3, Text: strings.Repeat("क", 100)},
		{ID: "scheme_chunk_2", DocumentID: "scheme", GlobalIndex: 2, PageNumber: 1, IndexWithinPage: 2, ChunkCountOnPage: 2, TotalPages: 3, Text: strings.Repeat("a", 50)},
		{ID: "scheme_chunk_3", DocumentID: "scheme", GlobalIndex: 3, PageNumber: 3, IndexWithinPage: 1, ChunkCountOnPage: 1, TotalPages: 3, Text: strings.Repeat("b", 150)},
	}
	if err := chunks.InsertBatch(ctx, rows); err != nil {
		t.Fatalf("InsertBatch() error = %v", err)
	}

	stats, err := ix.Stats(ctx, "scheme")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Chunks != 3 {
		t.Errorf("Chunks = %d, want 3", stats.Chunks)
	}
	if stats.PagesWithChunks != 2 {
		t.Errorf("PagesWithChunks = %d, want 2", stats.PagesWithChunks)
	}
	if stats.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", stats.TotalPages)
	}
	want := SizeStats{Min: 50, Max: 150, Mean: 100, P95: 150}
	if stats.ChunkSizes != want {
		t.Errorf("ChunkSizes = %+v, want %+v", stats.ChunkSizes, want)
	}
	if stats.ChunkerVersion != ChunkerVersion {
		t.Errorf("ChunkerVersion = %v, want %v", stats.ChunkerVersion, ChunkerVersion)
	}
	if len(stats.IndexVersion) != 16 {
		t.Errorf("IndexVersion length = %d, want 16", len(stats.IndexVersion))
	}
}

func TestIndexer_IndexVersion(t *testing.T) {
	base := New(nil, nil, nil, nil, nil, Options{EmbeddingModel: "m", Chunking: chunker.DefaultOptions()})
	same := New(nil, nil, nil, nil, nil, Options{EmbeddingModel: "m", Chunking: chunker.DefaultOptions()})
	otherModel := New(nil, nil, nil, nil, nil, Options{EmbeddingModel: "n", Chunking: chunker.DefaultOptions()})
	otherSize := New(nil, nil, nil, nil, nil, Options{EmbeddingModel: "m", Chunking: chunker.Options{ChunkSize: 500, ChunkOverlap: 100}})

	if base.IndexVersion() != same.IndexVersion() {
		t.Error("IndexVersion() differs for identical options")
	}
	if base.IndexVersion() == otherModel.IndexVersion() {
		t.Error("IndexVersion() ignores the embedding model")
	}
	if base.IndexVersion() == otherSize.IndexVersion() {
		t.Error("IndexVersion() ignores the chunk size")
	}
}
