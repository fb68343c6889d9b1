// Package embedding calls an OpenAI-compatible /v1/embeddings endpoint.
package embedding

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks yojna-khojna/internal/embedding Embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBatchSize is the number of texts sent per request when none is configured.
const DefaultBatchSize = 32

// Embedder turns chunk texts into vectors, one per text, in input order.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Client is a client for an OpenAI-compatible embeddings API
// (llama.cpp server, text-embeddings-inference, OpenAI).
type Client struct {
	BaseURL      string
	APIKey       string
	Model        string
	ExpectedSize int // Expected vector size for validation
	BatchSize    int
	client       *http.Client
}

// NewClient creates a new embeddings client.
// expectedSize is the expected vector size (from QDRANT_VECTOR_SIZE config).
// All embeddings returned by EmbedTexts will be validated against this size.
func NewClient(baseURL, apiKey, model string, expectedSize, batchSize int) *Client {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Client{
		BaseURL:      baseURL,
		APIKey:       apiKey,
		Model:        model,
		ExpectedSize: expectedSize,
		BatchSize:    batchSize,
		client:       &http.Client{Timeout: 2 * time.Minute},
	}
}

// Request represents the request payload for embeddings API.
type Request struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// Data represents a single embedding in the response.
type Data struct {
	Index     int       `json:"index"`
	Embedding []float64 `json:"embedding"`
}

// Response represents the response from the embeddings API.
type Response struct {
	Data []Data `json:"data"`
}

// EmbedTexts generates embeddings for the given texts, BatchSize texts per request.
// Validates that all returned vectors match the expected size.
func (c *Client) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("empty input array")
	}

	result := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += c.BatchSize {
		end := min(start+c.BatchSize, len(texts))
		vecs, err := c.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("batch %d-%d: %w", start, end, err)
		}
		result = append(result, vecs...)
	}
	return result, nil
}

func (c *Client) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	body, err := json.Marshal(Request{Model: c.Model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}

	var embeddingsResp Response
	if err := json.NewDecoder(resp.Body).Decode(&embeddingsResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(embeddingsResp.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(embeddingsResp.Data))
	}

	// Servers may return data out of order; index is authoritative.
	result := make([][]float32, len(texts))
	for i, data := range embeddingsResp.Data {
		if data.Index < 0 || data.Index >= len(texts) || result[data.Index] != nil {
			return nil, fmt.Errorf("embedding %d has invalid index %d", i, data.Index)
		}
		if len(data.Embedding) != c.ExpectedSize {
			return nil, fmt.Errorf("embedding %d has size %d, expected %d", i, len(data.Embedding), c.ExpectedSize)
		}

		vec := make([]float32, len(data.Embedding))
		for j, v := range data.Embedding {
			vec[j] = float32(v)
		}
		result[data.Index] = vec
	}

	return result, nil
}
