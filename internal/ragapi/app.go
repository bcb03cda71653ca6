package ragapi

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/kart-io/logger"
	goredis "github.com/redis/go-redis/v9"

	"github.com/literag/literag/internal/ragapi/biz"
	"github.com/literag/literag/internal/ragapi/handler"
	"github.com/literag/literag/internal/ragapi/router"
	"github.com/literag/literag/internal/ragapi/store"
	"github.com/literag/literag/pkg/app"
	"github.com/literag/literag/pkg/component/embedder"
	qdrantcomp "github.com/literag/literag/pkg/component/qdrant"
	rediscomp "github.com/literag/literag/pkg/component/redis"
	"github.com/literag/literag/pkg/component/storage"
	"github.com/literag/literag/pkg/pool"
	"github.com/literag/literag/pkg/server"
)

const (
	appName        = "rag-api"
	appDescription = `LiteRAG API Service

The REST API for the LiteRAG pipeline.

This server provides:
  - Document ingestion with chunking and vector embeddings
  - Semantic similarity search over the document collection
  - Collection statistics and service health reporting`
)

// NewApp creates a new application instance.
func NewApp() *app.App {
	opts := NewOptions()

	return app.NewApp(
		app.WithName(appName),
		app.WithDescription(appDescription),
		app.WithOptions(opts),
		app.WithRunFunc(func() error {
			return Run(opts)
		}),
	)
}

// Run runs the RAG API service with the given options.
func Run(opts *Options) error {
	opts.Log.AddInitialField("service.name", appName)
	opts.Log.AddInitialField("service.version", app.GetVersion())
	if err := opts.Log.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Info("Starting RAG API service...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backends := storage.NewManager()
	defer func() {
		if err := backends.CloseAll(); err != nil {
			logger.Errorw("Failed to close backend", "error", err)
		}
	}()

	qdrantClient, err := qdrantcomp.NewWithContext(ctx, opts.Qdrant)
	if err != nil {
		return fmt.Errorf("failed to initialize qdrant: %w", err)
	}
	backends.MustRegister("qdrant", qdrantClient)
	logger.Infow("Qdrant client initialized", "host", opts.Qdrant.Host, "port", opts.Qdrant.Port)

	embedClient := embedder.New(opts.Embedding)
	backends.MustRegister("embedding-service", embedClient)
	logger.Infow("Embedding service client initialized", "base_url", opts.Embedding.BaseURL)

	// The cache is optional. A missing Redis degrades to uncached queries
	// instead of failing startup.
	var redisClient *goredis.Client
	if opts.Cache.Enabled {
		rc, err := rediscomp.NewWithContext(ctx, opts.Cache.Redis)
		if err != nil {
			logger.Warnw("Redis unavailable, query cache disabled", "error", err)
		} else {
			backends.MustRegister("redis", rc)
			redisClient = rc.Client()
			logger.Infow("Redis client initialized", "host", opts.Cache.Redis.Host, "port", opts.Cache.Redis.Port)
		}
	}

	workers, err := pool.New("ingest", &pool.Config{
		Capacity:       opts.RAG.Workers,
		ExpiryDuration: time.Minute,
	})
	if err != nil {
		return fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer workers.Release()

	vectorStore := store.NewQdrantStore(qdrantClient)

	indexer := biz.NewIndexer(vectorStore, embedClient, workers, &biz.IndexerConfig{
		ChunkSize:      opts.RAG.ChunkSize,
		ChunkOverlap:   opts.RAG.ChunkOverlap,
		Collection:     opts.RAG.Collection,
		EmbedBatchSize: opts.RAG.EmbedBatchSize,
	})

	retriever := biz.NewRetriever(vectorStore, embedClient, &biz.RetrieverConfig{
		Collection:   opts.RAG.Collection,
		DefaultLimit: opts.RAG.DefaultLimit,
	})

	var cache *biz.QueryCache
	if redisClient != nil {
		cache = biz.NewQueryCache(redisClient, &biz.QueryCacheConfig{
			Enabled:   true,
			TTL:       opts.Cache.TTL,
			KeyPrefix: opts.Cache.KeyPrefix,
		})
	}

	svc := biz.NewRAGService(vectorStore, indexer, retriever, cache, &biz.ServiceConfig{
		Collection:     opts.RAG.Collection,
		EmbeddingDim:   opts.RAG.EmbeddingDim,
		Distance:       opts.RAG.Distance,
		ChunkSize:      opts.RAG.ChunkSize,
		ChunkOverlap:   opts.RAG.ChunkOverlap,
		DefaultLimit:   opts.RAG.DefaultLimit,
		EmbedBatchSize: opts.RAG.EmbedBatchSize,
	})

	if err := svc.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize collection: %w", err)
	}
	logger.Infow("Collection ready", "collection", opts.RAG.Collection, "dimension", opts.RAG.EmbeddingDim)

	ragHandler := handler.NewRAGHandler(svc, backends, opts.RAG.QueryTimeout)

	srv := server.New(opts.Server)
	router.Register(srv.Engine(), ragHandler)

	logger.Info("RAG API service is ready")
	return srv.Run(ctx)
}
