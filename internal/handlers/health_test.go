package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	vectorstore_mocks "yojna-khojna/internal/vectorstore/mocks"

	"go.uber.org/mock/gomock"
)

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

func TestHealthHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		dbErr      error
		exists     bool
		existsErr  error
		wantStatus int
		wantIssues int
	}{
		{name: "healthy", method: http.MethodGet, exists: true, wantStatus: http.StatusOK},
		{name: "collection missing", method: http.MethodGet, exists: false, wantStatus: http.StatusServiceUnavailable, wantIssues: 1},
		{name: "qdrant down", method: http.MethodGet, existsErr: errors.New("connection refused"), wantStatus: http.StatusServiceUnavailable, wantIssues: 1},
		{name: "database down", method: http.MethodGet, dbErr: errors.New("closed"), exists: true, wantStatus: http.StatusServiceUnavailable, wantIssues: 1},
		{name: "method not allowed", method: http.MethodPost, wantStatus: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			vs := vectorstore_mocks.NewMockVectorStore(ctrl)
			if tt.method == http.MethodGet {
				vs.EXPECT().CollectionExists(gomock.Any(), "scheme_chunks").Return(tt.exists, tt.existsErr)
			}

			h := NewHealthHandler(vs, fakePinger{err: tt.dbErr}, "scheme_chunks")
			req := httptest.NewRequest(tt.method, "/api/health", nil)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("ServeHTTP() status = %v, want %v", w.Code, tt.wantStatus)
			}
			if tt.method != http.MethodGet {
				return
			}

			var resp HealthResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if len(resp.Issues) != tt.wantIssues {
				t.Errorf("Issues = %v, want %d issues", resp.Issues, tt.wantIssues)
			}
			if resp.Timestamp == "" {
				t.Error("Timestamp should be set")
			}
		})
	}
}
