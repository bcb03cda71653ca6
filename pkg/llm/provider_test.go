package llm

import (
	"context"
	"fmt"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockProvider struct {
	name  string
	calls int
}

func (m *mockProvider) Embed(_ context.Context, texts []string) ([][]float32, error) {
	m.calls++
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(i), 1.0}
	}
	return out, nil
}

func (m *mockProvider) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := m.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

func (m *mockProvider) Name() string { return m.name }

func TestRegisterAndNewEmbeddingProvider(t *testing.T) {
	RegisterEmbeddingProvider("mock", func(config map[string]any) (EmbeddingProvider, error) {
		name, _ := config["name"].(string)
		if name == "" {
			return nil, fmt.Errorf("name is required")
		}
		return &mockProvider{name: name}, nil
	})

	p, err := NewEmbeddingProvider("mock", map[string]any{"name": "test"})
	require.NoError(t, err)
	assert.Equal(t, "test", p.Name())

	_, err = NewEmbeddingProvider("mock", map[string]any{})
	assert.Error(t, err)

	_, err = NewEmbeddingProvider("nonexistent", nil)
	assert.Error(t, err)

	assert.Contains(t, ListProviders(), "mock")
}

func TestCachedProviderPassthroughWithoutRedis(t *testing.T) {
	mock := &mockProvider{name: "mock"}
	cached := NewCachedEmbeddingProvider(mock, nil, nil)

	embeddings, err := cached.Embed(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, embeddings, 2)
	assert.Equal(t, 1, mock.calls)

	vec, err := cached.EmbedSingle(context.Background(), "a")
	require.NoError(t, err)
	assert.Len(t, vec, 2)

	assert.Equal(t, "mock-cached", cached.Name())
	assert.NoError(t, cached.ClearCache(context.Background()))
}

type shortProvider struct{}

func (p *shortProvider) Embed(_ context.Context, texts []string) ([][]float32, error) {
	return [][]float32{{0.1, 0.2}}, nil
}

func (p *shortProvider) EmbedSingle(_ context.Context, _ string) ([]float32, error) {
	return []float32{0.1, 0.2}, nil
}

func (p *shortProvider) Name() string { return "short" }

func TestCachedProviderEmbedCountMismatch(t *testing.T) {
	// An unreachable Redis forces every text onto the provider, which
	// answers with a single vector for three texts.
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
	})
	defer rdb.Close()

	cached := NewCachedEmbeddingProvider(&shortProvider{}, rdb, &EmbeddingCacheConfig{
		Enabled:   true,
		TTL:       time.Minute,
		KeyPrefix: "emb-test:",
	})

	_, err := cached.Embed(context.Background(), []string{"a", "b", "c"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 embeddings for 3 texts")
}

func TestCachedProviderDisabled(t *testing.T) {
	mock := &mockProvider{name: "mock"}
	cached := NewCachedEmbeddingProvider(mock, nil, &EmbeddingCacheConfig{Enabled: false})

	_, err := cached.Embed(context.Background(), []string{"x"})
	require.NoError(t, err)
	assert.Equal(t, 1, mock.calls)
}
