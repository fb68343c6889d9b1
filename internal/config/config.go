package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"yojna-khojna/internal/chunker"
	"yojna-khojna/internal/extract"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// Chunking and extraction
	ChunkSize           int // CHUNK_SIZE: fresh characters per chunk, overlap not counted
	ChunkOverlap        int // CHUNK_OVERLAP: characters repeated from the previous chunk
	MinTextLengthForOCR int
	MinTableRows        int
	OCRDPI              int
	OCRLanguages        string // "+" separated Tesseract codes
	WorkerCount         int

	// Storage and index
	DBPath           string
	QdrantURL        string
	QdrantCollection string
	QdrantVectorSize int

	// Embeddings
	EmbeddingBaseURL   string
	EmbeddingModelName string
	EmbeddingAPIKey    string
	EmbeddingBatchSize int

	// Server
	APIPort        string
	MaxUploadBytes int64
	LogLevel       string
	LogFormat      string
}

// Load reads the full server configuration. QDRANT_VECTOR_SIZE is required
// and the database directory is created.
// If a .env file exists in the current directory or up to five parents, it is
// loaded first. Environment variables already set take precedence.
func Load() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if cfg.QdrantVectorSize == 0 {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE is required")
	}

	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return cfg, nil
}

// LoadPipeline reads only what extraction and chunking need. The index
// settings may be missing.
func LoadPipeline() (*Config, error) {
	return load()
}

func load() (*Config, error) {
	loadDotEnv()

	cfg := &Config{
		OCRLanguages:       getEnv("OCR_LANGUAGES", "eng+hin"),
		DBPath:             getEnv("DB_PATH", "./data/yojna.db"),
		QdrantURL:          getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection:   getEnv("QDRANT_COLLECTION", "scheme_chunks"),
		EmbeddingBaseURL:   getEnv("EMBEDDING_BASE_URL", "http://localhost:8081"),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL_NAME", "paraphrase-multilingual-mpnet-base-v2"),
		EmbeddingAPIKey:    getEnv("EMBEDDING_API_KEY", ""),
		APIPort:            getEnv("API_PORT", "9000"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
	}

	ints := []struct {
		key  string
		def  int
		dest *int
	}{
		{"CHUNK_SIZE", chunker.DefaultChunkSize, &cfg.ChunkSize},
		{"CHUNK_OVERLAP", chunker.DefaultChunkOverlap, &cfg.ChunkOverlap},
		{"MIN_TEXT_LENGTH_FOR_OCR", 20, &cfg.MinTextLengthForOCR},
		{"MIN_TABLE_ROWS", 2, &cfg.MinTableRows},
		{"OCR_DPI", 300, &cfg.OCRDPI},
		{"WORKER_COUNT", 4, &cfg.WorkerCount},
		{"QDRANT_VECTOR_SIZE", 0, &cfg.QdrantVectorSize},
		{"EMBEDDING_BATCH_SIZE", 32, &cfg.EmbeddingBatchSize},
	}
	for _, v := range ints {
		n, err := getEnvInt(v.key, v.def)
		if err != nil {
			return nil, err
		}
		*v.dest = n
	}

	maxUpload, err := getEnvInt("MAX_UPLOAD_BYTES", 50<<20)
	if err != nil {
		return nil, err
	}
	cfg.MaxUploadBytes = int64(maxUpload)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("CHUNK_SIZE must be greater than 0")
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP must be between 0 and CHUNK_SIZE-1, got %d", c.ChunkOverlap)
	}
	if c.MinTextLengthForOCR < 0 {
		return fmt.Errorf("MIN_TEXT_LENGTH_FOR_OCR must not be negative")
	}
	if c.MinTableRows <= 0 {
		return fmt.Errorf("MIN_TABLE_ROWS must be greater than 0")
	}
	if c.OCRDPI <= 0 {
		return fmt.Errorf("OCR_DPI must be greater than 0")
	}
	if len(c.Languages()) == 0 {
		return fmt.Errorf("OCR_LANGUAGES must name at least one language")
	}
	if c.WorkerCount <= 0 {
		return fmt.Errorf("WORKER_COUNT must be greater than 0")
	}
	// Note: QDRANT_VECTOR_SIZE must match the output size of the embedding
	// model (768 for paraphrase-multilingual-mpnet-base-v2). If it changes,
	// the Qdrant collection must be recreated.
	if c.QdrantVectorSize < 0 {
		return fmt.Errorf("QDRANT_VECTOR_SIZE must be greater than 0")
	}
	if c.EmbeddingBatchSize <= 0 {
		return fmt.Errorf("EMBEDDING_BATCH_SIZE must be greater than 0")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be greater than 0")
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("LOG_LEVEL must be debug, info, warn or error: %w", err)
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	return nil
}

// SlogLevel parses LogLevel. Unknown values fall back to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// NewLogger builds the slog handler selected by LogFormat at SlogLevel.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Languages splits OCRLanguages into Tesseract language codes.
func (c *Config) Languages() []string {
	var langs []string
	for _, l := range strings.Split(c.OCRLanguages, "+") {
		if l = strings.TrimSpace(l); l != "" {
			langs = append(langs, l)
		}
	}
	return langs
}

// ChunkerOptions returns the chunk sizing options.
func (c *Config) ChunkerOptions() chunker.Options {
	return chunker.Options{ChunkSize: c.ChunkSize, ChunkOverlap: c.ChunkOverlap}
}

// ArbiterOptions returns the OCR decision options.
func (c *Config) ArbiterOptions() extract.Options {
	return extract.Options{
		MinTextLength: c.MinTextLengthForOCR,
		MinTableRows:  c.MinTableRows,
		DPI:           c.OCRDPI,
		Languages:     c.Languages(),
	}
}

// loadDotEnv loads .env from the current directory, then from the first
// parent (up to five levels) that has one.
func loadDotEnv() {
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err != nil {
		return
	}
	dir := wd
	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt parses an integer environment variable, falling back to
// defaultValue when it is unset.
func getEnvInt(key string, defaultValue int) (int, error) {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return n, nil
}
