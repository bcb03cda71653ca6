package embedder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	embedderopts "github.com/literag/literag/pkg/options/embedder"
)

func newTestClient(url string) *Client {
	opts := embedderopts.NewOptions()
	opts.BaseURL = url
	opts.Timeout = 5 * time.Second
	opts.MaxRetries = 0
	return New(opts)
}

func TestClientEmbed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/embeddings", r.URL.Path)

		var req EmbedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, []string{"hello", "world"}, req.Texts)

		resp := EmbedResponse{
			Embeddings: [][]float32{{0.1, 0.2}, {0.3, 0.4}},
			Dimension:  2,
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	embeddings, err := client.Embed(context.Background(), []string{"hello", "world"})
	require.NoError(t, err)
	require.Len(t, embeddings, 2)
	assert.Equal(t, []float32{0.1, 0.2}, embeddings[0])
}

func TestClientEmbedEmptyInput(t *testing.T) {
	client := newTestClient("http://localhost:0")
	embeddings, err := client.Embed(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, embeddings)
}

func TestClientEmbedCountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		resp := EmbedResponse{Embeddings: [][]float32{{0.1}}, Dimension: 1}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.Embed(context.Background(), []string{"a", "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding count mismatch")
}

func TestClientEmbedServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.Embed(context.Background(), []string{"a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestClientEmbedSingle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		resp := EmbedResponse{Embeddings: [][]float32{{0.5, 0.6}}, Dimension: 2}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	vec, err := client.EmbedSingle(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.6}, vec)
}

func TestClientPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	assert.NoError(t, client.Ping(context.Background()))
}

func TestClientRetry(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		resp := EmbedResponse{Embeddings: [][]float32{{0.1}}, Dimension: 1}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	opts := embedderopts.NewOptions()
	opts.BaseURL = srv.URL
	opts.MaxRetries = 2
	client := New(opts)

	_, err := client.Embed(context.Background(), []string{"a"})
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
}
