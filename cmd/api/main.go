package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"yojna-khojna/internal/chunker"
	"yojna-khojna/internal/config"
	"yojna-khojna/internal/embedding"
	"yojna-khojna/internal/extract"
	"yojna-khojna/internal/handlers"
	"yojna-khojna/internal/http"
	"yojna-khojna/internal/indexer"
	"yojna-khojna/internal/ingest"
	"yojna-khojna/internal/ocr"
	"yojna-khojna/internal/storage"
	"yojna-khojna/internal/vectorstore"
)

//go:generate swagger generate spec -o swagger.json

// General API information
//
// This API ingests bilingual Hindi/English government scheme documents and
// serves their chunks for retrieval.
//
// swagger:meta
//
// ---
// swagger: '2.0'
// info:
//   title: Yojna Khojna API
//   description: |
//     Upload scheme PDFs, inspect the extracted chunks and search them.
//   version: 1.0.0
// schemes:
//   - http
// consumes:
//   - multipart/form-data
//   - application/json
// produces:
//   - application/json

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	slog.SetDefault(cfg.NewLogger(os.Stdout))
	slog.Debug("Logging configured", "level", cfg.LogLevel, "format", cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	docRepo := storage.NewDocumentRepo(db)
	chunkRepo := storage.NewChunkRepo(db)

	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}
	defer func() {
		_ = vectorStore.Close()
	}()

	// Ensure collection exists with correct vector size
	if err := vectorStore.EnsureCollection(ctx, cfg.QdrantCollection, cfg.QdrantVectorSize); err != nil {
		log.Fatalf("Failed to ensure Qdrant collection: %v", err)
	}
	slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.QdrantVectorSize)

	// Validate embedding client vector size (fail-fast)
	embedder := embedding.NewClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModelName, cfg.QdrantVectorSize, cfg.EmbeddingBatchSize)
	if _, err := embedder.EmbedTexts(ctx, []string{"test"}); err != nil {
		log.Fatalf("Failed to validate embedding client: %v", err)
	}
	slog.Info("Embedding client validated", "model", cfg.EmbeddingModelName, "vector_size", cfg.QdrantVectorSize)

	c, err := chunker.New(cfg.ChunkerOptions())
	if err != nil {
		log.Fatalf("Failed to create chunker: %v", err)
	}
	arbiter := extract.NewArbiter(ocr.NewTesseract(), cfg.ArbiterOptions())
	processor := ingest.NewProcessor(arbiter, c, cfg.WorkerCount)

	ix := indexer.New(docRepo, chunkRepo, embedder, vectorStore, processor, indexer.Options{
		Collection:     cfg.QdrantCollection,
		EmbeddingModel: cfg.EmbeddingModelName,
		Chunking:       cfg.ChunkerOptions(),
	})

	documents := handlers.NewDocumentsHandler(ix, docRepo, chunkRepo, cfg.MaxUploadBytes)
	router := http.NewRouter(&http.Deps{
		Health:    handlers.NewHealthHandler(vectorStore, db, cfg.QdrantCollection),
		Documents: documents,
		Preview:   handlers.NewChunkPreviewHandler(processor, cfg.MaxUploadBytes),
		Search:    handlers.NewSearchHandler(ix),
	})

	server := &nethttp.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Starting API server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			log.Fatalf("API server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}

	// Let scheduled indexing jobs finish so no document is left processing.
	documents.Wait()
	slog.Info("Shutdown complete")
}
