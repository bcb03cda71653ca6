// Package store provides the vector storage layer for the RAG API.
//
// It defines the VectorStore abstraction and the Qdrant implementation
// used for chunk storage, similarity search and collection statistics.
package store
