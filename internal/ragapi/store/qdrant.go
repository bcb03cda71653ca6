package store

import (
	"context"
	"fmt"

	"github.com/kart-io/logger"
	"github.com/qdrant/go-client/qdrant"

	qdrantcomp "github.com/literag/literag/pkg/component/qdrant"
)

// QdrantStore implements VectorStore on Qdrant.
type QdrantStore struct {
	client *qdrant.Client
}

var _ VectorStore = (*QdrantStore)(nil)

// NewQdrantStore creates a vector store backed by the given Qdrant client.
func NewQdrantStore(client *qdrantcomp.Client) *QdrantStore {
	return &QdrantStore{client: client.Client()}
}

// EnsureCollection creates the collection if it does not exist.
func (s *QdrantStore) EnsureCollection(ctx context.Context, config *CollectionConfig) error {
	exists, err := s.client.CollectionExists(ctx, config.Name)
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}
	if exists {
		logger.Debugw("collection already exists", "collection", config.Name)
		return nil
	}

	distance := qdrant.Distance_Cosine
	switch config.Distance {
	case "euclidean":
		distance = qdrant.Distance_Euclid
	case "dot":
		distance = qdrant.Distance_Dot
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: config.Name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(config.Dimension),
			Distance: distance,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection %q: %w", config.Name, err)
	}

	logger.Infow("created collection", "collection", config.Name, "dimension", config.Dimension)
	return nil
}

// Insert upserts chunks into the collection in batches.
func (s *QdrantStore) Insert(ctx context.Context, collection string, chunks []*Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, len(chunks))
	for i, chunk := range chunks {
		payload := make(map[string]*qdrant.Value, len(chunk.Metadata)+3)
		payload["text"] = qdrant.NewValueString(chunk.Text)
		payload["chunk_index"] = qdrant.NewValueInt(int64(chunk.ChunkIndex))
		if chunk.DocumentID != "" {
			payload["document_id"] = qdrant.NewValueString(chunk.DocumentID)
		}
		for k, v := range chunk.Metadata {
			payload[k] = toQdrantValue(v)
		}

		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(chunk.ID),
			Vectors: qdrant.NewVectors(chunk.Embedding...),
			Payload: payload,
		}
	}

	const batchSize = 100
	for i := 0; i < len(points); i += batchSize {
		end := i + batchSize
		if end > len(points) {
			end = len(points)
		}

		_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: collection,
			Points:         points[i:end],
		})
		if err != nil {
			return fmt.Errorf("failed to upsert points %d-%d: %w", i, end, err)
		}
	}

	return nil
}

// Search runs a vector similarity search and returns the scored chunks.
func (s *QdrantStore) Search(ctx context.Context, collection string, embedding []float32, limit int) ([]*SearchResult, error) {
	results, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuery(embedding...),
		Limit:          uintPtr(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search vectors: %w", err)
	}

	out := make([]*SearchResult, 0, len(results))
	for _, point := range results {
		result := &SearchResult{
			Score:    point.Score,
			Metadata: make(map[string]any),
		}
		if point.Id != nil {
			result.ID = point.Id.GetUuid()
		}

		for k, v := range point.Payload {
			if k == "text" {
				result.Text = v.GetStringValue()
				continue
			}
			result.Metadata[k] = fromQdrantValue(v)
		}

		out = append(out, result)
	}

	return out, nil
}

// Count returns the exact number of points in the collection.
func (s *QdrantStore) Count(ctx context.Context, collection string) (int64, error) {
	count, err := s.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: collection,
		Exact:          boolPtr(true),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count points: %w", err)
	}
	return int64(count), nil
}

// Close closes the Qdrant connection.
func (s *QdrantStore) Close() error {
	return s.client.Close()
}

func toQdrantValue(v any) *qdrant.Value {
	switch val := v.(type) {
	case string:
		return qdrant.NewValueString(val)
	case int:
		return qdrant.NewValueInt(int64(val))
	case int64:
		return qdrant.NewValueInt(val)
	case float64:
		return qdrant.NewValueDouble(val)
	case float32:
		return qdrant.NewValueDouble(float64(val))
	case bool:
		return qdrant.NewValueBool(val)
	default:
		return qdrant.NewValueString(fmt.Sprintf("%v", v))
	}
}

func fromQdrantValue(v *qdrant.Value) any {
	if v == nil {
		return nil
	}
	switch kind := v.Kind.(type) {
	case *qdrant.Value_StringValue:
		return kind.StringValue
	case *qdrant.Value_IntegerValue:
		return kind.IntegerValue
	case *qdrant.Value_DoubleValue:
		return kind.DoubleValue
	case *qdrant.Value_BoolValue:
		return kind.BoolValue
	default:
		return nil
	}
}

func uintPtr(v uint64) *uint64 {
	return &v
}

func boolPtr(v bool) *bool {
	return &v
}
