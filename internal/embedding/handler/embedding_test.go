package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/literag/literag/internal/model"
)

type fakeService struct {
	embedErr   error
	pingErr    error
	embedCalls int
}

func (s *fakeService) Embed(_ context.Context, texts []string) (*model.EmbeddingResponse, error) {
	s.embedCalls++
	if s.embedErr != nil {
		return nil, s.embedErr
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.1, 0.2, 0.3}
	}
	return &model.EmbeddingResponse{
		Embeddings: out,
		Dimension:  3,
		Model:      "all-minilm",
	}, nil
}

func (s *fakeService) Ping(_ context.Context) error { return s.pingErr }

func (s *fakeService) Model() string { return "all-minilm" }

func (s *fakeService) Dimension() int { return 3 }

func newTestRouter(svc *fakeService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	h := NewEmbeddingHandler(svc)
	engine.GET("/health", h.Health)
	engine.POST("/embeddings", h.Embed)
	return engine
}

func doRequest(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestEmbed(t *testing.T) {
	engine := newTestRouter(&fakeService{})

	w := doRequest(t, engine, http.MethodPost, "/embeddings", model.EmbeddingRequest{
		Texts: []string{"hello", "world"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp model.EmbeddingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Embeddings, 2)
	assert.Equal(t, 3, resp.Dimension)
	assert.Equal(t, "all-minilm", resp.Model)
}

func TestEmbedMissingTexts(t *testing.T) {
	engine := newTestRouter(&fakeService{})

	w := doRequest(t, engine, http.MethodPost, "/embeddings", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEmbedEmptyTexts(t *testing.T) {
	svc := &fakeService{}
	engine := newTestRouter(svc)

	w := doRequest(t, engine, http.MethodPost, "/embeddings", map[string]any{
		"texts": []string{},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, svc.embedCalls)
}

func TestEmbedBlankText(t *testing.T) {
	engine := newTestRouter(&fakeService{})

	w := doRequest(t, engine, http.MethodPost, "/embeddings", model.EmbeddingRequest{
		Texts: []string{"hello", "  "},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Message, "index 1")
}

func TestEmbedServiceError(t *testing.T) {
	engine := newTestRouter(&fakeService{embedErr: errors.New("model not loaded")})

	w := doRequest(t, engine, http.MethodPost, "/embeddings", model.EmbeddingRequest{
		Texts: []string{"hello"},
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHealth(t *testing.T) {
	engine := newTestRouter(&fakeService{})

	w := doRequest(t, engine, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, "all-minilm", resp["model"])
}

func TestHealthDegraded(t *testing.T) {
	engine := newTestRouter(&fakeService{pingErr: errors.New("provider unreachable")})

	w := doRequest(t, engine, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp["status"])
}
