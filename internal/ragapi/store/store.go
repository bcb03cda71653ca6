package store

import (
	"context"
)

// Chunk is a document fragment with its embedding.
type Chunk struct {
	// ID is the point ID, a UUID.
	ID string
	// DocumentID identifies the source document.
	DocumentID string
	// ChunkIndex is the position of the chunk within its document.
	ChunkIndex int
	// Text is the chunk content.
	Text string
	// Metadata carries caller-supplied document metadata.
	Metadata map[string]any
	// Embedding is the chunk vector.
	Embedding []float32
}

// SearchResult is a scored chunk from a similarity search.
type SearchResult struct {
	// ID is the point ID.
	ID string
	// Text is the chunk content.
	Text string
	// Score is the similarity score.
	Score float32
	// Metadata holds every payload field except the text.
	Metadata map[string]any
}

// CollectionConfig describes a vector collection.
type CollectionConfig struct {
	// Name is the collection name.
	Name string
	// Dimension is the vector dimension.
	Dimension int
	// Distance is the metric: cosine, euclidean or dot.
	Distance string
}

// VectorStore defines the vector storage interface.
type VectorStore interface {
	// EnsureCollection creates the collection if it does not exist.
	EnsureCollection(ctx context.Context, config *CollectionConfig) error

	// Insert upserts chunks into the collection.
	Insert(ctx context.Context, collection string, chunks []*Chunk) error

	// Search runs a vector similarity search.
	Search(ctx context.Context, collection string, embedding []float32, limit int) ([]*SearchResult, error)

	// Count returns the number of points in the collection.
	Count(ctx context.Context, collection string) (int64, error)

	// Close closes the underlying connection.
	Close() error
}
