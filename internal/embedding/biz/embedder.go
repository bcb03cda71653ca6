// Package biz contains the embedding service business logic.
package biz

import (
	"context"
	"fmt"
	"strings"

	"github.com/kart-io/logger"

	"github.com/literag/literag/internal/model"
	"github.com/literag/literag/pkg/llm"
)

// Service generates embeddings for batches of texts.
type Service interface {
	// Embed generates one embedding per input text, in order.
	Embed(ctx context.Context, texts []string) (*model.EmbeddingResponse, error)

	// Ping checks the underlying provider.
	Ping(ctx context.Context) error

	// Model returns the embedding model name.
	Model() string

	// Dimension returns the configured vector dimension.
	Dimension() int
}

// EmbedderConfig configures the embedding service.
type EmbedderConfig struct {
	// Model is the embedding model name, reported in responses.
	Model string
	// Dimension is the expected vector dimension. Provider output with a
	// different dimension is rejected.
	Dimension int
	// MaxBatchSize caps the number of texts per provider call. Larger
	// requests are split into sequential batches. Zero means no cap.
	MaxBatchSize int
}

// EmbedderService implements Service on top of an EmbeddingProvider.
type EmbedderService struct {
	provider llm.EmbeddingProvider
	config   *EmbedderConfig
}

var _ Service = (*EmbedderService)(nil)

// NewEmbedderService creates the embedding service.
func NewEmbedderService(provider llm.EmbeddingProvider, config *EmbedderConfig) *EmbedderService {
	return &EmbedderService{
		provider: provider,
		config:   config,
	}
}

// Embed generates embeddings for the given texts.
func (s *EmbedderService) Embed(ctx context.Context, texts []string) (*model.EmbeddingResponse, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("texts cannot be empty")
	}
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("text at index %d is empty", i)
		}
	}

	batchSize := s.config.MaxBatchSize
	if batchSize <= 0 || batchSize > len(texts) {
		batchSize = len(texts)
	}

	embeddings := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += batchSize {
		end := start + batchSize
		if end > len(texts) {
			end = len(texts)
		}

		vectors, err := s.provider.Embed(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("embedding generation failed: %w", err)
		}
		if len(vectors) != end-start {
			return nil, fmt.Errorf("provider returned %d embeddings for %d texts", len(vectors), end-start)
		}
		embeddings = append(embeddings, vectors...)
	}
	for i, vec := range embeddings {
		if len(vec) != s.config.Dimension {
			return nil, fmt.Errorf("embedding %d has dimension %d, expected %d", i, len(vec), s.config.Dimension)
		}
	}

	logger.Debugw("Generated embeddings", "count", len(embeddings), "model", s.config.Model)

	return &model.EmbeddingResponse{
		Embeddings: embeddings,
		Dimension:  s.config.Dimension,
		Model:      s.config.Model,
	}, nil
}

// Ping checks the underlying provider.
func (s *EmbedderService) Ping(ctx context.Context) error {
	type pinger interface {
		Ping(ctx context.Context) error
	}
	if p, ok := s.provider.(pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Model returns the embedding model name.
func (s *EmbedderService) Model() string {
	return s.config.Model
}

// Dimension returns the configured vector dimension.
func (s *EmbedderService) Dimension() int {
	return s.config.Dimension
}
