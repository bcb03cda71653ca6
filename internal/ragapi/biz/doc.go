// Package biz provides the business logic layer of the RAG API.
//
// The logic is split into components:
//   - Indexer: chunks documents, embeds the chunks and stores them
//   - Retriever: embeds queries and runs similarity searches
//   - QueryCache: caches query results in Redis
//   - Service: composes the components behind one interface
package biz
