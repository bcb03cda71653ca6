package embedding

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/kart-io/logger"

	"github.com/literag/literag/internal/embedding/biz"
	"github.com/literag/literag/internal/embedding/handler"
	"github.com/literag/literag/internal/embedding/router"
	"github.com/literag/literag/pkg/app"
	rediscomp "github.com/literag/literag/pkg/component/redis"
	"github.com/literag/literag/pkg/llm"
	"github.com/literag/literag/pkg/middleware"
	"github.com/literag/literag/pkg/server"

	// Register embedding providers.
	_ "github.com/literag/literag/pkg/llm/ollama"
	_ "github.com/literag/literag/pkg/llm/openai"
)

const (
	appName        = "embedding-server"
	appDescription = `LiteRAG Embedding Service

The embedding generation service for the LiteRAG pipeline.

This server provides:
  - Batch text embedding via pluggable providers (ollama, openai)
  - Optional Redis-backed embedding cache`
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

// Run runs the embedding service with the given options.
func Run(opts *Options) error {
	opts.Log.AddInitialField("service.name", appName)
	opts.Log.AddInitialField("service.version", app.GetVersion())
	if err := opts.Log.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Info("Starting embedding service...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	provider, err := llm.NewEmbeddingProvider(opts.Provider.Provider, opts.Provider.ToConfigMap())
	if err != nil {
		return fmt.Errorf("failed to create embedding provider: %w", err)
	}
	logger.Infow("Embedding provider initialized",
		"provider", provider.Name(),
		"model", opts.Provider.Model,
		"dimension", opts.Provider.Dimension,
	)

	// The cache is optional. A missing Redis degrades to uncached
	// embedding calls instead of failing startup.
	if opts.Cache.Enabled {
		rc, err := rediscomp.NewWithContext(ctx, opts.Cache.Redis)
		if err != nil {
			logger.Warnw("Redis unavailable, embedding cache disabled", "error", err)
		} else {
			defer rc.Close()
			provider = llm.NewCachedEmbeddingProvider(provider, rc.Client(), &llm.EmbeddingCacheConfig{
				Enabled:   true,
				TTL:       opts.Cache.TTL,
				KeyPrefix: opts.Cache.KeyPrefix,
			})
			logger.Infow("Embedding cache enabled", "ttl", opts.Cache.TTL)
		}
	}

	svc := biz.NewEmbedderService(provider, &biz.EmbedderConfig{
		Model:        opts.Provider.Model,
		Dimension:    opts.Provider.Dimension,
		MaxBatchSize: opts.MaxBatchSize,
	})

	embeddingHandler := handler.NewEmbeddingHandler(svc)

	srv := server.New(opts.Server)
	srv.Engine().Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout:   opts.Provider.Timeout,
		SkipPaths: []string{"/health"},
	}))
	router.Register(srv.Engine(), embeddingHandler)

	logger.Info("Embedding service is ready")
	return srv.Run(ctx)
}
