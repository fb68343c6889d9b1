// Command chunk runs the extraction and chunking pipeline over local files
// and prints the chunk records as JSON lines, or indexes them with -index.
//
// Usage:
//
//	chunk [-json] [-index] <file-or-dir>...
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"yojna-khojna/internal/chunker"
	"yojna-khojna/internal/config"
	"yojna-khojna/internal/embedding"
	"yojna-khojna/internal/extract"
	"yojna-khojna/internal/indexer"
	"yojna-khojna/internal/ingest"
	"yojna-khojna/internal/ocr"
	"yojna-khojna/internal/storage"
	"yojna-khojna/internal/vectorstore"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fset := flag.NewFlagSet("chunk", flag.ContinueOnError)
	fset.SetOutput(stderr)
	asJSON := fset.Bool("json", false, "print one JSON chunk record per line")
	index := fset.Bool("index", false, "store and embed the chunks instead of printing them")
	fset.Usage = func() {
		fmt.Fprintln(stderr, "usage: chunk [-json] [-index] <file-or-dir>...")
		fset.PrintDefaults()
	}
	if err := fset.Parse(args); err != nil {
		return 2
	}
	if fset.NArg() == 0 {
		fset.Usage()
		return 2
	}

	load := config.LoadPipeline
	if *index {
		load = config.Load
	}
	cfg, err := load()
	if err != nil {
		fmt.Fprintf(stderr, "configuration: %v\n", err)
		return 1
	}
	slog.SetDefault(cfg.NewLogger(stderr))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := chunker.New(cfg.ChunkerOptions())
	if err != nil {
		fmt.Fprintf(stderr, "chunker: %v\n", err)
		return 1
	}
	processor := ingest.NewProcessor(extract.NewArbiter(ocr.NewTesseract(), cfg.ArbiterOptions()), c, cfg.WorkerCount)

	if *index {
		if err := indexPaths(ctx, cfg, processor, fset.Args()); err != nil {
			slog.Error("indexing failed", "error", err)
			return 1
		}
		return 0
	}

	files, err := expand(fset.Args())
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	failed := 0
	enc := json.NewEncoder(stdout)
	for _, path := range files {
		result, err := chunkFile(ctx, processor, path)
		if err != nil {
			slog.Error("failed to chunk file", "path", path, "error", err)
			failed++
			continue
		}
		for _, rec := range result.Records {
			if *asJSON {
				if err := enc.Encode(rec); err != nil {
					fmt.Fprintln(stderr, err)
					return 1
				}
				continue
			}
			fmt.Fprintf(stdout, "== %s (page %d, %d/%d)\n%s\n\n", rec.ChunkID,
				rec.Metadata.PageNumber, rec.Metadata.IndexWithinPage, rec.Metadata.ChunkCountOnPage, rec.Text)
		}
	}
	if failed > 0 {
		return 1
	}
	return 0
}

// expand replaces directories with the supported files below them.
func expand(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && indexer.Supported(d.Name()) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func chunkFile(ctx context.Context, processor *ingest.Processor, path string) (*ingest.Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	src, err := indexer.OpenSource(path, content)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = src.Close()
	}()
	return processor.Process(ctx, indexer.DocumentID(path, indexer.Hash(content)), src)
}

func indexPaths(ctx context.Context, cfg *config.Config, processor *ingest.Processor, paths []string) error {
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()
	if err := storage.Migrate(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		return err
	}
	defer func() {
		_ = vectorStore.Close()
	}()
	if err := vectorStore.EnsureCollection(ctx, cfg.QdrantCollection, cfg.QdrantVectorSize); err != nil {
		return err
	}

	embedder := embedding.NewClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModelName, cfg.QdrantVectorSize, cfg.EmbeddingBatchSize)
	ix := indexer.New(storage.NewDocumentRepo(db), storage.NewChunkRepo(db), embedder, vectorStore, processor, indexer.Options{
		Collection:     cfg.QdrantCollection,
		EmbeddingModel: cfg.EmbeddingModelName,
		Chunking:       cfg.ChunkerOptions(),
	})

	var errs int
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return err
		}
		if info.IsDir() {
			if err := ix.IndexDir(ctx, p); err != nil {
				slog.Error("directory indexed with errors", "dir", p, "error", err)
				errs++
			}
			continue
		}
		out, err := ix.IndexFile(ctx, p)
		if err != nil {
			slog.Error("failed to index file", "path", p, "error", err)
			errs++
			continue
		}
		slog.Info("indexed", "path", p, "document_id", out.Document.ID, "status", out.Status, "chunks", out.Document.ChunkCount)
	}
	if errs > 0 {
		return fmt.Errorf("%d paths failed", errs)
	}
	return nil
}
