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

// RetrieverConfig configures the retriever.
type RetrieverConfig struct {
	// Collection is the collection to search.
	Collection string
	// DefaultLimit is used when a query does not specify a limit.
	DefaultLimit int
}

// Retriever embeds queries and runs similarity searches.
type Retriever struct {
	store    store.VectorStore
	embedder Embedder
	config   *RetrieverConfig
}

// NewRetriever creates a retriever.
func NewRetriever(vs store.VectorStore, embedder Embedder, config *RetrieverConfig) *Retriever {
	if config.DefaultLimit <= 0 {
		config.DefaultLimit = 10
	}
	return &Retriever{
		store:    vs,
		embedder: embedder,
		config:   config,
	}
}

// Retrieve embeds the query and returns the most similar chunks.
// A non-positive limit falls back to the configured default.
func (r *Retriever) Retrieve(ctx context.Context, query string, limit int) ([]model.SearchResult, error) {
	if limit <= 0 {
		limit = r.config.DefaultLimit
	}

	start := time.Now()
	embedding, err := r.embedder.EmbedSingle(ctx, query)
	metrics.Get().RecordEmbedCall(time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	results, err := r.store.Search(ctx, r.config.Collection, embedding, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	logger.Debugw("retrieved chunks", "query_length", len(query), "limit", limit, "results", len(results))

	out := make([]model.SearchResult, len(results))
	for i, result := range results {
		out[i] = model.SearchResult{
			Text:     result.Text,
			Score:    result.Score,
			Metadata: result.Metadata,
		}
	}
	return out, nil
}
