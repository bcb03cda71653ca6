// Package router wires the RAG API routes.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/literag/literag/internal/ragapi/handler"
)

// Register registers the RAG API routes on the engine.
func Register(engine *gin.Engine, h *handler.RAGHandler) {
	engine.GET("/health", h.Health)
	engine.GET("/metrics", h.Metrics)

	engine.POST("/ingest", h.Ingest)
	engine.POST("/ingest/file", h.IngestFile)
	engine.POST("/query", h.Query)

	engine.GET("/collections/info", h.CollectionInfo)
	engine.GET("/stats", h.Stats)

	logger.Info("RAG API routes registered")
}
