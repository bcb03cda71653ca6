package biz

import (
	"context"
	"fmt"
	"time"

	"github.com/kart-io/logger"

	"github.com/literag/literag/internal/model"
	"github.com/literag/literag/internal/ragapi/metrics"
	"github.com/literag/literag/internal/ragapi/store"
)

// Service is the business interface of the RAG API.
type Service interface {
	// Ingest chunks, embeds and stores a document.
	Ingest(ctx context.Context, text string, metadata map[string]any) (*model.IngestResult, error)

	// Query runs a semantic search over the stored chunks.
	Query(ctx context.Context, query string, limit int) (*model.QueryResult, error)

	// CollectionInfo reports the backing collection configuration and size.
	CollectionInfo(ctx context.Context) (*model.CollectionInfo, error)

	// Stats returns service statistics.
	Stats(ctx context.Context) (map[string]any, error)
}

// ServiceConfig configures the RAG service.
type ServiceConfig struct {
	// Collection is the vector collection name.
	Collection string
	// EmbeddingDim is the vector dimension.
	EmbeddingDim int
	// Distance is the similarity metric.
	Distance string
	// ChunkSize is the chunk length in runes.
	ChunkSize int
	// ChunkOverlap is the overlap between chunks in runes.
	ChunkOverlap int
	// DefaultLimit is the query result count when unspecified.
	DefaultLimit int
	// EmbedBatchSize is the number of chunks embedded per request.
	EmbedBatchSize int
}

// RAGService implements Service.
type RAGService struct {
	store     store.VectorStore
	indexer   *Indexer
	retriever *Retriever
	cache     *QueryCache
	config    *ServiceConfig
}

var _ Service = (*RAGService)(nil)

// NewRAGService creates the RAG service. The cache may be nil.
func NewRAGService(vs store.VectorStore, indexer *Indexer, retriever *Retriever, cache *QueryCache, config *ServiceConfig) *RAGService {
	if cache == nil {
		cache = NewQueryCache(nil, nil)
	}
	return &RAGService{
		store:     vs,
		indexer:   indexer,
		retriever: retriever,
		cache:     cache,
		config:    config,
	}
}

// Init ensures the vector collection exists.
func (s *RAGService) Init(ctx context.Context) error {
	return s.store.EnsureCollection(ctx, &store.CollectionConfig{
		Name:      s.config.Collection,
		Dimension: s.config.EmbeddingDim,
		Distance:  s.config.Distance,
	})
}

// Ingest chunks, embeds and stores a document.
func (s *RAGService) Ingest(ctx context.Context, text string, metadata map[string]any) (*model.IngestResult, error) {
	docID, chunks, err := s.indexer.Ingest(ctx, text, metadata)
	metrics.Get().RecordIngest(chunks, err)
	if err != nil {
		return nil, err
	}

	return &model.IngestResult{
		Message:    fmt.Sprintf("Ingested document with %d chunks", chunks),
		DocumentID: docID,
		Chunks:     chunks,
	}, nil
}

// Query runs a semantic search, serving repeated queries from the cache.
func (s *RAGService) Query(ctx context.Context, query string, limit int) (*model.QueryResult, error) {
	if limit <= 0 {
		limit = s.config.DefaultLimit
	}

	if cached, err := s.cache.Get(ctx, query, limit); err == nil && cached != nil {
		metrics.Get().RecordQuery(true, nil)
		return cached, nil
	}

	start := time.Now()
	results, err := s.retriever.Retrieve(ctx, query, limit)
	metrics.Get().RecordSearch(time.Since(start), err)
	metrics.Get().RecordQuery(false, err)
	if err != nil {
		return nil, err
	}

	result := &model.QueryResult{
		Query:   query,
		Results: results,
	}

	if err := s.cache.Set(ctx, query, limit, result); err != nil {
		logger.Debugw("query cache write failed", "error", err.Error())
	}

	return result, nil
}

// CollectionInfo reports the collection configuration and point count.
func (s *RAGService) CollectionInfo(ctx context.Context) (*model.CollectionInfo, error) {
	count, err := s.store.Count(ctx, s.config.Collection)
	if err != nil {
		return nil, fmt.Errorf("failed to get collection info: %w", err)
	}

	return &model.CollectionInfo{
		Collection: s.config.Collection,
		Dimension:  s.config.EmbeddingDim,
		Distance:   s.config.Distance,
		Points:     count,
	}, nil
}

// Stats returns service metrics, collection size and cache statistics.
func (s *RAGService) Stats(ctx context.Context) (map[string]any, error) {
	stats := metrics.Get().Stats()

	if count, err := s.store.Count(ctx, s.config.Collection); err == nil {
		stats["collection"] = map[string]any{
			"name":   s.config.Collection,
			"points": count,
		}
	}

	if cacheStats, err := s.cache.Stats(ctx); err == nil {
		stats["query_cache"] = cacheStats
	}

	return stats, nil
}
