// Package model defines the shared request and response types for the
// LiteRAG services.
package model

// Document is a document submitted for ingestion.
type Document struct {
	Text     string         `json:"text" binding:"required"`
	Metadata map[string]any `json:"metadata"`
}

// IngestResult reports the outcome of a document ingestion.
type IngestResult struct {
	Message    string `json:"message"`
	DocumentID string `json:"document_id"`
	Chunks     int    `json:"chunks"`
}

// QueryRequest is a semantic search request.
type QueryRequest struct {
	Query string `json:"query" binding:"required"`
	Limit int    `json:"limit"`
}

// SearchResult is a single scored chunk returned by a query.
type SearchResult struct {
	Text     string         `json:"text"`
	Score    float32        `json:"score"`
	Metadata map[string]any `json:"metadata"`
}

// QueryResult is the full result set for a query.
type QueryResult struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
}

// CollectionInfo describes the vector collection backing the service.
type CollectionInfo struct {
	Collection string `json:"collection"`
	Dimension  int    `json:"dimension"`
	Distance   string `json:"distance"`
	Points     int64  `json:"points"`
}

// EmbeddingRequest is a request to the embedding service.
type EmbeddingRequest struct {
	Texts []string `json:"texts" binding:"required"`
}

// EmbeddingResponse is the embedding service response.
type EmbeddingResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
	Dimension  int         `json:"dimension"`
	Model      string      `json:"model"`
}
