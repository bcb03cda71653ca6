package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/literag/literag/internal/model"
)

type fakeService struct {
	ingestErr  error
	queryErr   error
	lastLimit  int
	lastText   string
	lastMeta   map[string]any
	queryDelay time.Duration
}

func (f *fakeService) Ingest(_ context.Context, text string, metadata map[string]any) (*model.IngestResult, error) {
	if f.ingestErr != nil {
		return nil, f.ingestErr
	}
	f.lastText = text
	f.lastMeta = metadata
	return &model.IngestResult{Message: "Ingested document with 3 chunks", DocumentID: "doc-1", Chunks: 3}, nil
}

func (f *fakeService) Query(ctx context.Context, query string, limit int) (*model.QueryResult, error) {
	if f.queryDelay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.queryDelay):
		}
	}
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	f.lastLimit = limit
	return &model.QueryResult{
		Query:   query,
		Results: []model.SearchResult{{Text: "chunk", Score: 0.9}},
	}, nil
}

func (f *fakeService) CollectionInfo(_ context.Context) (*model.CollectionInfo, error) {
	return &model.CollectionInfo{Collection: "documents", Dimension: 384, Distance: "cosine", Points: 42}, nil
}

func (f *fakeService) Stats(_ context.Context) (map[string]any, error) {
	return map[string]any{"uptime_seconds": 1.0}, nil
}

func newTestRouter(svc *fakeService, timeout time.Duration) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	h := NewRAGHandler(svc, nil, timeout)

	engine.GET("/health", h.Health)
	engine.POST("/ingest", h.Ingest)
	engine.POST("/ingest/file", h.IngestFile)
	engine.POST("/query", h.Query)
	engine.GET("/collections/info", h.CollectionInfo)
	engine.GET("/stats", h.Stats)
	engine.GET("/metrics", h.Metrics)
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
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

func TestIngest(t *testing.T) {
	svc := &fakeService{}
	engine := newTestRouter(svc, time.Minute)

	w := doJSON(t, engine, http.MethodPost, "/ingest", gin.H{
		"text":     "hello world",
		"metadata": gin.H{"source": "test"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello world", svc.lastText)
	assert.Equal(t, "test", svc.lastMeta["source"])

	var resp SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Code)
}

func TestIngestMissingText(t *testing.T) {
	engine := newTestRouter(&fakeService{}, time.Minute)
	w := doJSON(t, engine, http.MethodPost, "/ingest", gin.H{"metadata": gin.H{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIngestEmptyText(t *testing.T) {
	engine := newTestRouter(&fakeService{}, time.Minute)
	w := doJSON(t, engine, http.MethodPost, "/ingest", gin.H{"text": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIngestServiceError(t *testing.T) {
	engine := newTestRouter(&fakeService{ingestErr: fmt.Errorf("qdrant down")}, time.Minute)
	w := doJSON(t, engine, http.MethodPost, "/ingest", gin.H{"text": "hello"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestIngestFile(t *testing.T) {
	svc := &fakeService{}
	engine := newTestRouter(svc, time.Minute)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("file content to ingest"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/ingest/file", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "file content to ingest", svc.lastText)
	assert.Equal(t, "notes.txt", svc.lastMeta["filename"])
}

func TestIngestFileMissing(t *testing.T) {
	engine := newTestRouter(&fakeService{}, time.Minute)
	req := httptest.NewRequest(http.MethodPost, "/ingest/file", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuery(t *testing.T) {
	svc := &fakeService{}
	engine := newTestRouter(svc, time.Minute)

	w := doJSON(t, engine, http.MethodPost, "/query", gin.H{"query": "what is rag", "limit": 5})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, svc.lastLimit)

	var resp SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Message)
}

func TestQueryEmpty(t *testing.T) {
	engine := newTestRouter(&fakeService{}, time.Minute)
	w := doJSON(t, engine, http.MethodPost, "/query", gin.H{"query": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQueryTimeout(t *testing.T) {
	engine := newTestRouter(&fakeService{queryDelay: 200 * time.Millisecond}, 20*time.Millisecond)
	w := doJSON(t, engine, http.MethodPost, "/query", gin.H{"query": "slow"})
	assert.Equal(t, http.StatusRequestTimeout, w.Code)
}

func TestQueryServiceError(t *testing.T) {
	engine := newTestRouter(&fakeService{queryErr: fmt.Errorf("search failed")}, time.Minute)
	w := doJSON(t, engine, http.MethodPost, "/query", gin.H{"query": "boom"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCollectionInfo(t *testing.T) {
	engine := newTestRouter(&fakeService{}, time.Minute)
	req := httptest.NewRequest(http.MethodGet, "/collections/info", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "documents")
}

func TestHealth(t *testing.T) {
	engine := newTestRouter(&fakeService{}, time.Minute)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestMetricsEndpoint(t *testing.T) {
	engine := newTestRouter(&fakeService{}, time.Minute)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "literag_ragapi_queries_total")
}
