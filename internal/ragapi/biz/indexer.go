package biz

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kart-io/logger"

	"github.com/literag/literag/internal/ragapi/metrics"
	"github.com/literag/literag/internal/ragapi/store"
	"github.com/literag/literag/pkg/pool"
)

// Embedder generates embeddings for text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedSingle(ctx context.Context, text string) ([]float32, error)
}

// IndexerConfig configures the document indexer.
type IndexerConfig struct {
	// ChunkSize is the chunk length in runes.
	ChunkSize int
	// ChunkOverlap is the overlap between chunks in runes.
	ChunkOverlap int
	// Collection is the target collection name.
	Collection string
	// EmbedBatchSize is the number of chunks embedded per request.
	EmbedBatchSize int
}

// Indexer chunks documents, embeds the chunks and stores them.
type Indexer struct {
	store    store.VectorStore
	embedder Embedder
	workers  *pool.Pool
	config   *IndexerConfig
}

// NewIndexer creates an indexer. The worker pool is optional; without it
// embedding batches run sequentially.
func NewIndexer(vs store.VectorStore, embedder Embedder, workers *pool.Pool, config *IndexerConfig) *Indexer {
	if config.EmbedBatchSize <= 0 {
		config.EmbedBatchSize = 32
	}
	return &Indexer{
		store:    vs,
		embedder: embedder,
		workers:  workers,
		config:   config,
	}
}

// Ingest chunks a document, embeds every chunk and upserts the points.
// It returns the generated document ID and the number of chunks stored.
func (i *Indexer) Ingest(ctx context.Context, text string, metadata map[string]any) (string, int, error) {
	chunks := ChunkText(text, i.config.ChunkSize, i.config.ChunkOverlap)
	if len(chunks) == 0 {
		return "", 0, fmt.Errorf("document produced no chunks")
	}

	docID := uuid.New().String()
	logger.Infow("chunked document", "document_id", docID, "chunks", len(chunks))

	embeddings, err := i.embedAll(ctx, chunks)
	if err != nil {
		return "", 0, fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return "", 0, fmt.Errorf("embedding count mismatch: got %d for %d chunks", len(embeddings), len(chunks))
	}

	storeChunks := make([]*store.Chunk, len(chunks))
	for idx, chunk := range chunks {
		storeChunks[idx] = &store.Chunk{
			ID:         uuid.New().String(),
			DocumentID: docID,
			ChunkIndex: idx,
			Text:       chunk,
			Metadata:   metadata,
			Embedding:  embeddings[idx],
		}
	}

	if err := i.store.Insert(ctx, i.config.Collection, storeChunks); err != nil {
		return "", 0, fmt.Errorf("failed to store chunks: %w", err)
	}

	logger.Infow("ingested document", "document_id", docID, "chunks", len(chunks))
	return docID, len(chunks), nil
}

// embedAll embeds chunks in batches. With a worker pool the batches run
// concurrently, preserving chunk order in the result.
func (i *Indexer) embedAll(ctx context.Context, chunks []string) ([][]float32, error) {
	batchSize := i.config.EmbedBatchSize
	if len(chunks) <= batchSize || i.workers == nil {
		return i.embedSequential(ctx, chunks, batchSize)
	}

	type batch struct {
		start int
		texts []string
	}
	var batches []batch
	for start := 0; start < len(chunks); start += batchSize {
		end := start + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batches = append(batches, batch{start: start, texts: chunks[start:end]})
	}

	embeddings := make([][]float32, len(chunks))
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for _, b := range batches {
		b := b
		wg.Add(1)
		err := i.workers.Submit(func() {
			defer wg.Done()

			vectors, err := i.embedBatch(ctx, b.texts)
			if err == nil && len(vectors) != len(b.texts) {
				err = fmt.Errorf("embedding count mismatch in batch at %d", b.start)
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			copy(embeddings[b.start:], vectors)
		})
		if err != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return embeddings, nil
}

func (i *Indexer) embedSequential(ctx context.Context, chunks []string, batchSize int) ([][]float32, error) {
	embeddings := make([][]float32, 0, len(chunks))
	for start := 0; start < len(chunks); start += batchSize {
		end := start + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		vectors, err := i.embedBatch(ctx, chunks[start:end])
		if err != nil {
			return nil, err
		}
		embeddings = append(embeddings, vectors...)
	}
	return embeddings, nil
}

// embedBatch runs one embedding service call and records it.
func (i *Indexer) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	start := time.Now()
	vectors, err := i.embedder.Embed(ctx, texts)
	metrics.Get().RecordEmbedCall(time.Since(start), err)
	return vectors, err
}
