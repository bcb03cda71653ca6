// Package ragapi provides the RAG API application.
package ragapi

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	embedderopts "github.com/literag/literag/pkg/options/embedder"
	logopts "github.com/literag/literag/pkg/options/logger"
	qdrantopts "github.com/literag/literag/pkg/options/qdrant"
	redisopts "github.com/literag/literag/pkg/options/redis"
	serveropts "github.com/literag/literag/pkg/options/server"
)

// Options contains all RAG API options.
type Options struct {
	// Server contains HTTP server configuration.
	Server *serveropts.Options `json:"server" mapstructure:"server"`

	// Log contains logger configuration.
	Log *logopts.Options `json:"log" mapstructure:"log"`

	// Qdrant contains vector database configuration.
	Qdrant *qdrantopts.Options `json:"qdrant" mapstructure:"qdrant"`

	// Embedding contains embedding service client configuration.
	Embedding *embedderopts.Options `json:"embedding" mapstructure:"embedding"`

	// RAG contains pipeline configuration.
	RAG *RAGOptions `json:"rag" mapstructure:"rag"`

	// Cache contains query cache configuration.
	Cache *CacheOptions `json:"cache" mapstructure:"cache"`
}

// RAGOptions contains pipeline configuration.
type RAGOptions struct {
	// ChunkSize is the chunk length in runes.
	ChunkSize int `json:"chunk-size" mapstructure:"chunk-size"`

	// ChunkOverlap is the overlap between chunks in runes.
	ChunkOverlap int `json:"chunk-overlap" mapstructure:"chunk-overlap"`

	// Collection is the vector collection name.
	Collection string `json:"collection" mapstructure:"collection"`

	// EmbeddingDim is the embedding vector dimension.
	EmbeddingDim int `json:"embedding-dim" mapstructure:"embedding-dim"`

	// Distance is the similarity metric: cosine, euclidean or dot.
	Distance string `json:"distance" mapstructure:"distance"`

	// DefaultLimit is the query result count when unspecified.
	DefaultLimit int `json:"default-limit" mapstructure:"default-limit"`

	// EmbedBatchSize is the number of chunks embedded per request.
	EmbedBatchSize int `json:"embed-batch-size" mapstructure:"embed-batch-size"`

	// QueryTimeout bounds query processing.
	QueryTimeout time.Duration `json:"query-timeout" mapstructure:"query-timeout"`

	// Workers is the ingestion worker pool size.
	Workers int `json:"workers" mapstructure:"workers"`
}

// NewRAGOptions creates pipeline options with defaults matching the
// all-MiniLM-L6-v2 embedding model.
func NewRAGOptions() *RAGOptions {
	return &RAGOptions{
		ChunkSize:      500,
		ChunkOverlap:   50,
		Collection:     "documents",
		EmbeddingDim:   384,
		Distance:       "cosine",
		DefaultLimit:   10,
		EmbedBatchSize: 32,
		QueryTimeout:   60 * time.Second,
		Workers:        8,
	}
}

// CacheOptions contains query cache configuration.
type CacheOptions struct {
	// Enabled turns the query cache on or off.
	Enabled bool `json:"enabled" mapstructure:"enabled"`

	// TTL is the cache entry expiry.
	TTL time.Duration `json:"ttl" mapstructure:"ttl"`

	// KeyPrefix is prepended to every cache key.
	KeyPrefix string `json:"key-prefix" mapstructure:"key-prefix"`

	// Redis contains the Redis connection configuration.
	Redis *redisopts.Options `json:"redis" mapstructure:"redis"`
}

// NewCacheOptions creates cache options with defaults. The cache is
// disabled until explicitly enabled.
func NewCacheOptions() *CacheOptions {
	return &CacheOptions{
		Enabled:   false,
		TTL:       1 * time.Hour,
		KeyPrefix: "rag:query:",
		Redis:     redisopts.NewOptions(),
	}
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	serverOpts := serveropts.NewOptions()
	serverOpts.Addr = ":8000"

	return &Options{
		Server:    serverOpts,
		Log:       logopts.NewOptions(),
		Qdrant:    qdrantopts.NewOptions(),
		Embedding: embedderopts.NewOptions(),
		RAG:       NewRAGOptions(),
		Cache:     NewCacheOptions(),
	}
}

// AddFlags adds flags to the flagset.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	o.Server.AddFlags(fs)
	o.Log.AddFlags(fs)
	o.Qdrant.AddFlags(fs)
	o.Embedding.AddFlags(fs)
	o.addRAGFlags(fs)
	o.addCacheFlags(fs)
}

func (o *Options) addRAGFlags(fs *pflag.FlagSet) {
	fs.IntVar(&o.RAG.ChunkSize, "rag.chunk-size", o.RAG.ChunkSize, "Size of text chunks in runes")
	fs.IntVar(&o.RAG.ChunkOverlap, "rag.chunk-overlap", o.RAG.ChunkOverlap, "Overlap between chunks in runes")
	fs.StringVar(&o.RAG.Collection, "rag.collection", o.RAG.Collection, "Vector collection name")
	fs.IntVar(&o.RAG.EmbeddingDim, "rag.embedding-dim", o.RAG.EmbeddingDim, "Embedding vector dimension")
	fs.StringVar(&o.RAG.Distance, "rag.distance", o.RAG.Distance, "Similarity metric (cosine, euclidean, dot)")
	fs.IntVar(&o.RAG.DefaultLimit, "rag.default-limit", o.RAG.DefaultLimit, "Default number of query results")
	fs.IntVar(&o.RAG.EmbedBatchSize, "rag.embed-batch-size", o.RAG.EmbedBatchSize, "Chunks embedded per request")
	fs.DurationVar(&o.RAG.QueryTimeout, "rag.query-timeout", o.RAG.QueryTimeout, "Query processing timeout")
	fs.IntVar(&o.RAG.Workers, "rag.workers", o.RAG.Workers, "Ingestion worker pool size")
}

func (o *Options) addCacheFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&o.Cache.Enabled, "cache.enabled", o.Cache.Enabled, "Enable query result cache")
	fs.DurationVar(&o.Cache.TTL, "cache.ttl", o.Cache.TTL, "Cache TTL duration")
	fs.StringVar(&o.Cache.KeyPrefix, "cache.key-prefix", o.Cache.KeyPrefix, "Cache key prefix")
	o.Cache.Redis.AddFlags(fs)
}

// Validate validates the options.
func (o *Options) Validate() error {
	if err := o.Server.Validate(); err != nil {
		return err
	}
	if err := o.Log.Validate(); err != nil {
		return err
	}
	if err := o.Qdrant.Validate(); err != nil {
		return err
	}
	if err := o.Embedding.Validate(); err != nil {
		return err
	}
	if o.RAG.ChunkSize <= 0 {
		return fmt.Errorf("rag.chunk-size must be positive")
	}
	if o.RAG.ChunkOverlap < 0 || o.RAG.ChunkOverlap >= o.RAG.ChunkSize {
		return fmt.Errorf("rag.chunk-overlap must be non-negative and smaller than rag.chunk-size")
	}
	if o.RAG.Collection == "" {
		return fmt.Errorf("rag.collection is required")
	}
	if o.RAG.EmbeddingDim <= 0 {
		return fmt.Errorf("rag.embedding-dim must be positive")
	}
	if o.RAG.DefaultLimit <= 0 {
		return fmt.Errorf("rag.default-limit must be positive")
	}
	if o.Cache.Enabled {
		if err := o.Cache.Redis.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Complete completes the options.
func (o *Options) Complete() error {
	return nil
}
