package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks yojna-khojna/internal/vectorstore VectorStore

import "context"

// Point is one chunk embedding with its payload.
type Point struct {
	ID   string // UUID
	Vec  []float32
	Meta map[string]any
}

// SearchResult represents a search result from vector search.
type SearchResult struct {
	PointID string
	Score   float32
	Meta    map[string]any
}

// Filter narrows a search. Zero values match everything.
type Filter struct {
	DocumentID string
	PageNumber int
}

// VectorStore defines the interface for vector storage operations.
type VectorStore interface {
	// Upsert inserts or updates points in the collection.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Search performs a cosine similarity search.
	Search(ctx context.Context, collection string, query []float32, k int, filter Filter) ([]SearchResult, error)

	// Delete removes points by their IDs.
	Delete(ctx context.Context, collection string, ids []string) error

	// CollectionExists reports whether the collection has been created.
	CollectionExists(ctx context.Context, collection string) (bool, error)
}
