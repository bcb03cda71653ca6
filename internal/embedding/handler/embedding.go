// Package handler provides the HTTP handlers of the embedding service.
package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/literag/literag/internal/embedding/biz"
	"github.com/literag/literag/internal/model"
)

// EmbeddingHandler handles embedding service HTTP requests.
type EmbeddingHandler struct {
	service biz.Service
}

// NewEmbeddingHandler creates an EmbeddingHandler.
func NewEmbeddingHandler(service biz.Service) *EmbeddingHandler {
	return &EmbeddingHandler{service: service}
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Health reports service health including the provider state.
func (h *EmbeddingHandler) Health(c *gin.Context) {
	status := gin.H{
		"status":    "healthy",
		"model":     h.service.Model(),
		"dimension": h.service.Dimension(),
	}

	if err := h.service.Ping(c.Request.Context()); err != nil {
		status["status"] = "degraded"
		status["error"] = err.Error()
		c.JSON(http.StatusServiceUnavailable, status)
		return
	}

	c.JSON(http.StatusOK, status)
}

// Embed generates embeddings for a batch of texts.
func (h *EmbeddingHandler) Embed(c *gin.Context) {
	var req model.EmbeddingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request: " + err.Error(),
		})
		return
	}

	// binding "required" accepts an empty non-nil slice.
	if len(req.Texts) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "At least one text is required",
		})
		return
	}

	for i, text := range req.Texts {
		if strings.TrimSpace(text) == "" {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Code:    http.StatusBadRequest,
				Message: fmt.Sprintf("Text at index %d is empty", i),
			})
			return
		}
	}

	resp, err := h.service.Embed(c.Request.Context(), req.Texts)
	if err != nil {
		logger.Errorw("Embedding request failed", "error", err, "texts", len(req.Texts))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Embedding generation failed: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}
