package indexer

import (
	"context"
	"fmt"

	"yojna-khojna/internal/contextutil"
	"yojna-khojna/internal/vectorstore"
)

// Hit is one search result resolved from its Qdrant payload.
type Hit struct {
	ChunkID    string  `json:"chunk_id"`
	DocumentID string  `json:"document_id"`
	PageNumber int     `json:"page_number"`
	Score      float32 `json:"score"`
	Text       string  `json:"text"`
}

// Search embeds query and returns the k closest chunks.
func (ix *Indexer) Search(ctx context.Context, query string, k int, filter vectorstore.Filter) ([]Hit, error) {
	logger := contextutil.LoggerFromContext(ctx)

	vecs, err := ix.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("embedding count mismatch: expected 1, got %d", len(vecs))
	}

	results, err := ix.vectorStore.Search(ctx, ix.opts.Collection, vecs[0], k, filter)
	if err != nil {
		return nil, err
	}

	hits := make([]Hit, 0, len(results))
	for _, r := range results {
		hit := Hit{Score: r.Score}
		hit.ChunkID, _ = r.Meta["chunk_id"].(string)
		hit.DocumentID, _ = r.Meta["document_id"].(string)
		hit.Text, _ = r.Meta["text"].(string)
		if n, ok := r.Meta["page_number"].(int64); ok {
			hit.PageNumber = int(n)
		}
		if hit.ChunkID == "" {
			logger.WarnContext(ctx, "search hit without chunk_id", "point_id", r.PointID)
			continue
		}
		hits = append(hits, hit)
	}
	return hits, nil
}
