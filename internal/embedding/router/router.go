// Package router wires the embedding service routes.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/literag/literag/internal/embedding/handler"
)

// Register registers the embedding service routes on the engine.
func Register(engine *gin.Engine, h *handler.EmbeddingHandler) {
	engine.GET("/health", h.Health)
	engine.POST("/embeddings", h.Embed)
}
