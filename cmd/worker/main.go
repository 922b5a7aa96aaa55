package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/mkravchenko/legal-assistant-backend/internal/cache"
	"github.com/mkravchenko/legal-assistant-backend/internal/config"
	"github.com/mkravchenko/legal-assistant-backend/internal/database"
	"github.com/mkravchenko/legal-assistant-backend/internal/document"
	"github.com/mkravchenko/legal-assistant-backend/internal/embedding"
	"github.com/mkravchenko/legal-assistant-backend/internal/llm"
	"github.com/mkravchenko/legal-assistant-backend/internal/queue"
	"github.com/mkravchenko/legal-assistant-backend/internal/queue/workers"
	"github.com/mkravchenko/legal-assistant-backend/internal/rag"
	"github.com/mkravchenko/legal-assistant-backend/internal/storage"
	"github.com/mkravchenko/legal-assistant-backend/internal/vectorstore"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	gw := llm.NewGateway(cfg.LLM)
	chunks := vectorstore.NewPgChunkStore(db)
	embedSvc := embedding.NewService(gw, cfg.RAG.EmbeddingModel, cfg.RAG.EmbeddingDims)
	indexer := rag.NewIndexer(chunks, embedSvc, cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	c := cache.New(rdb)

	store := storage.NewSupabaseStorage(cfg.Storage.SupabaseURL, cfg.Storage.ServiceKey, cfg.Storage.Bucket)
	docSvc := document.NewService(db, store, chunks, nil, indexer, c)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	registry := queue.NewRegistry()

	embeddingWorker := workers.NewEmbeddingWorker(docSvc, indexer, c)
	registry.Register(queue.TypeEmbeddingIndex, asynq.HandlerFunc(embeddingWorker.ProcessTask))

	slog.Info("starting worker", "concurrency", 10)
	if err := srv.Run(registry.Mux()); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}
