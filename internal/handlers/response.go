package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"yojna-khojna/internal/contextutil"
)

// ErrorResponse represents an error response.
//
// swagger:model ErrorResponse
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes v with the given status code.
func writeJSON(ctx context.Context, w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeError writes an error response.
func writeError(ctx context.Context, w http.ResponseWriter, statusCode int, message string) {
	writeJSON(ctx, w, statusCode, ErrorResponse{Error: message})
}
