package handlers

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_searcher.go -package=mocks yojna-khojna/internal/handlers Searcher

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"yojna-khojna/internal/contextutil"
	"yojna-khojna/internal/indexer"
	"yojna-khojna/internal/vectorstore"
)

const (
	defaultSearchK = 5
	maxSearchK     = 50
)

// Searcher finds chunks close to a query.
type Searcher interface {
	Search(ctx context.Context, query string, k int, filter vectorstore.Filter) ([]indexer.Hit, error)
}

// SearchHandler handles GET /api/search.
type SearchHandler struct {
	searcher Searcher
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(searcher Searcher) *SearchHandler {
	return &SearchHandler{searcher: searcher}
}

// SearchResponse is returned by the search endpoint.
type SearchResponse struct {
	Query string        `json:"query"`
	Hits  []indexer.Hit `json:"hits"`
}

// ServeHTTP handles GET /api/search?q=...&k=5&document_id=...&page=....
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)
	q := r.URL.Query()

	query := strings.TrimSpace(q.Get("q"))
	if query == "" {
		writeError(ctx, w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	k, ok := intParam(q.Get("k"), defaultSearchK)
	if !ok || k < 1 || k > maxSearchK {
		writeError(ctx, w, http.StatusBadRequest, "k must be between 1 and 50")
		return
	}
	page, ok := intParam(q.Get("page"), 0)
	if !ok || page < 0 {
		writeError(ctx, w, http.StatusBadRequest, "page must be a positive integer")
		return
	}

	hits, err := h.searcher.Search(ctx, query, k, vectorstore.Filter{
		DocumentID: q.Get("document_id"),
		PageNumber: page,
	})
	if err != nil {
		logger.ErrorContext(ctx, "search failed", "error", err)
		writeError(ctx, w, http.StatusBadGateway, "Search failed")
		return
	}
	if hits == nil {
		hits = []indexer.Hit{}
	}
	writeJSON(ctx, w, http.StatusOK, SearchResponse{Query: query, Hits: hits})
}

func intParam(s string, def int) (int, bool) {
	if s == "" {
		return def, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
