package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"yojna-khojna/internal/chunker"
	"yojna-khojna/internal/extract"
	"yojna-khojna/internal/ingest"
)

func newPreviewHandler(t *testing.T) *ChunkPreviewHandler {
	t.Helper()
	c, err := chunker.New(chunker.DefaultOptions())
	if err != nil {
		t.Fatalf("chunker.New() error = %v", err)
	}
	return NewChunkPreviewHandler(ingest.NewProcessor(extract.NewArbiter(nil, extract.DefaultOptions()), c, 2), 1<<20)
}

func TestChunkPreviewHandler_ServeHTTP(t *testing.T) {
	note := "# Ayushman Bharat\n\nHealth cover of five lakh rupees per family per year.\f# Eligibility\n\nFamilies listed in the SECC database are eligible."

	w := httptest.NewRecorder()
	newPreviewHandler(t).ServeHTTP(w, multipartRequest(t, "/api/chunks", UploadField, "ayushman_bharat.md", []byte(note)))

	if w.Code != http.StatusOK {
		t.Fatalf("ServeHTTP() status = %v, want %v, body %s", w.Code, http.StatusOK, w.Body.String())
	}
	var result ingest.Result
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.DocumentID != "ayushman_bharat" {
		t.Errorf("DocumentID = %q, want ayushman_bharat", result.DocumentID)
	}
	if result.TotalPages != 2 {
		t.Errorf("TotalPages = %d, want 2", result.TotalPages)
	}
	if len(result.Records) != 2 {
		t.Fatalf("Records = %d, want 2", len(result.Records))
	}
	if result.Records[1].ChunkID != "ayushman_bharat_chunk_2" || result.Records[1].Metadata.PageNumber != 2 {
		t.Errorf("second record = %+v", result.Records[1])
	}
	if !strings.Contains(result.Records[1].Text, "SECC") {
		t.Errorf("second record text = %q", result.Records[1].Text)
	}
}

func TestChunkPreviewHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		filename   string
		content    string
		wantStatus int
	}{
		{name: "broken pdf", filename: "broken.pdf", content: "not a pdf", wantStatus: http.StatusUnprocessableEntity},
		{name: "unsupported", filename: "a.txt", content: "x", wantStatus: http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			newPreviewHandler(t).ServeHTTP(w, multipartRequest(t, "/api/chunks", UploadField, tt.filename, []byte(tt.content)))
			if w.Code != tt.wantStatus {
				t.Errorf("ServeHTTP() status = %v, want %v", w.Code, tt.wantStatus)
			}
		})
	}
}
