// Package handler provides the HTTP handlers of the RAG API.
package handler

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/literag/literag/internal/model"
	"github.com/literag/literag/internal/ragapi/biz"
	"github.com/literag/literag/internal/ragapi/metrics"
	"github.com/literag/literag/pkg/component/storage"
)

// RAGHandler handles RAG API HTTP requests.
type RAGHandler struct {
	service      biz.Service
	backends     *storage.Manager
	queryTimeout time.Duration
}

// NewRAGHandler creates a RAGHandler. The backends manager feeds the health
// endpoint; queryTimeout bounds query processing.
func NewRAGHandler(service biz.Service, backends *storage.Manager, queryTimeout time.Duration) *RAGHandler {
	if queryTimeout <= 0 {
		queryTimeout = 60 * time.Second
	}
	return &RAGHandler{
		service:      service,
		backends:     backends,
		queryTimeout: queryTimeout,
	}
}

// SuccessResponse is a standard success response.
type SuccessResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Health reports service and backend health.
func (h *RAGHandler) Health(c *gin.Context) {
	status := gin.H{"status": "healthy"}

	if h.backends != nil {
		checks := h.backends.HealthCheckAll(c.Request.Context())
		backends := make(gin.H, len(checks))
		healthy := true
		for name, check := range checks {
			backends[name] = check
			if !check.Healthy {
				healthy = false
			}
		}
		status["backends"] = backends
		if !healthy {
			status["status"] = "degraded"
			c.JSON(http.StatusServiceUnavailable, status)
			return
		}
	}

	c.JSON(http.StatusOK, status)
}

// Ingest chunks, embeds and stores a document.
func (h *RAGHandler) Ingest(c *gin.Context) {
	var doc model.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 400, Message: err.Error()})
		return
	}

	if strings.TrimSpace(doc.Text) == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 400, Message: "document text must not be empty"})
		return
	}
	if !utf8.ValidString(doc.Text) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 400, Message: "document text must be valid UTF-8"})
		return
	}

	result, err := h.service.Ingest(c.Request.Context(), doc.Text, doc.Metadata)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Code: 500, Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Code: 0, Message: result.Message, Data: result})
}

// IngestFile ingests an uploaded file as a UTF-8 text document.
// The filename and content type are attached as metadata.
func (h *RAGHandler) IngestFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 400, Message: "file field is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 400, Message: err.Error()})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Code: 500, Message: err.Error()})
		return
	}

	text := string(content)
	if strings.TrimSpace(text) == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 400, Message: "file is empty"})
		return
	}
	if !utf8.ValidString(text) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 400, Message: "file content must be valid UTF-8"})
		return
	}

	metadata := map[string]any{
		"filename":     fileHeader.Filename,
		"content_type": fileHeader.Header.Get("Content-Type"),
	}

	result, err := h.service.Ingest(c.Request.Context(), text, metadata)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Code: 500, Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Code: 0, Message: result.Message, Data: result})
}

// Query runs a semantic search.
func (h *RAGHandler) Query(c *gin.Context) {
	var req model.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 400, Message: err.Error()})
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 400, Message: "query must not be empty"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.queryTimeout)
	defer cancel()

	result, err := h.service.Query(ctx, req.Query, req.Limit)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			c.JSON(http.StatusRequestTimeout, ErrorResponse{
				Code:    408,
				Message: "Query timeout: the request took too long to process",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Code: 500, Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Code: 0, Message: "success", Data: result})
}

// CollectionInfo reports the vector collection configuration and size.
func (h *RAGHandler) CollectionInfo(c *gin.Context) {
	info, err := h.service.CollectionInfo(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Code: 500, Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Code: 0, Message: "success", Data: info})
}

// Stats returns service statistics.
func (h *RAGHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Code: 500, Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Code: 0, Message: "success", Data: stats})
}

// Metrics exposes metrics in Prometheus text format.
func (h *RAGHandler) Metrics(c *gin.Context) {
	c.String(http.StatusOK, metrics.Get().Export("literag", "ragapi"))
}
