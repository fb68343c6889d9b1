package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	handler_mocks "yojna-khojna/internal/handlers/mocks"
	"yojna-khojna/internal/indexer"
	"yojna-khojna/internal/vectorstore"

	"go.uber.org/mock/gomock"
)

func TestSearchHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		setup      func(m *handler_mocks.MockSearcher)
		wantStatus int
		wantHits   int
	}{
		{
			name:   "defaults",
			target: "/api/search?q=eligibility",
			setup: func(m *handler_mocks.MockSearcher) {
				m.EXPECT().Search(gomock.Any(), "eligibility", 5, vectorstore.Filter{}).
					Return([]indexer.Hit{{ChunkID: "a_chunk_1"}}, nil)
			},
			wantStatus: http.StatusOK,
			wantHits:   1,
		},
		{
			name:   "filters",
			target: "/api/search?q=%E0%A4%AA%E0%A4%BE%E0%A4%A4%E0%A5%8D%E0%A4%B0%E0%A4%A4%E0%A4%BE&k=2&document_id=pm_kisan&page=3",
			setup: func(m *handler_mocks.MockSearcher) {
				m.EXPECT().Search(gomock.Any(), "पात्रता", 2, vectorstore.Filter{DocumentID: "pm_kisan", PageNumber: 3}).
					Return(nil, nil)
			},
			wantStatus: http.StatusOK,
		},
		{name: "missing query", target: "/api/search", wantStatus: http.StatusBadRequest},
		{name: "bad k", target: "/api/search?q=x&k=abc", wantStatus: http.StatusBadRequest},
		{name: "k too large", target: "/api/search?q=x&k=500", wantStatus: http.StatusBadRequest},
		{name: "negative page", target: "/api/search?q=x&page=-1", wantStatus: http.StatusBadRequest},
		{
			name:   "search error",
			target: "/api/search?q=x",
			setup: func(m *handler_mocks.MockSearcher) {
				m.EXPECT().Search(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("qdrant down"))
			},
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			m := handler_mocks.NewMockSearcher(ctrl)
			if tt.setup != nil {
				tt.setup(m)
			}

			w := httptest.NewRecorder()
			NewSearchHandler(m).ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.target, nil))

			if w.Code != tt.wantStatus {
				t.Fatalf("ServeHTTP() status = %v, want %v", w.Code, tt.wantStatus)
			}
			if w.Code != http.StatusOK {
				return
			}
			var resp SearchResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if len(resp.Hits) != tt.wantHits {
				t.Errorf("Hits = %d, want %d", len(resp.Hits), tt.wantHits)
			}
		})
	}
}
