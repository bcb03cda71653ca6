// Package metrics collects business metrics for the RAG API.
package metrics

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics holds counters for queries, ingestion and embedding calls.
type Metrics struct {
	queriesTotal       uint64
	queriesCacheHits   uint64
	queriesCacheMisses uint64
	queriesErrors      uint64

	searchTotal    uint64
	searchErrors   uint64
	searchDuration float64

	embedCallsTotal    uint64
	embedCallsErrors   uint64
	embedCallsDuration float64

	documentsIngested uint64
	chunksIngested    uint64
	ingestErrors      uint64

	startTime  time.Time
	durationMu sync.Mutex
}

var (
	global *Metrics
	once   sync.Once
)

// Get returns the global metrics instance.
func Get() *Metrics {
	once.Do(func() {
		global = &Metrics{startTime: time.Now()}
	})
	return global
}

// RecordQuery records a query, its cache outcome and error state.
func (m *Metrics) RecordQuery(cacheHit bool, err error) {
	atomic.AddUint64(&m.queriesTotal, 1)
	if err != nil {
		atomic.AddUint64(&m.queriesErrors, 1)
		return
	}
	if cacheHit {
		atomic.AddUint64(&m.queriesCacheHits, 1)
	} else {
		atomic.AddUint64(&m.queriesCacheMisses, 1)
	}
}

// RecordSearch records a vector search operation.
func (m *Metrics) RecordSearch(duration time.Duration, err error) {
	atomic.AddUint64(&m.searchTotal, 1)
	if err != nil {
		atomic.AddUint64(&m.searchErrors, 1)
		return
	}

	m.durationMu.Lock()
	m.searchDuration += duration.Seconds()
	m.durationMu.Unlock()
}

// RecordEmbedCall records a call to the embedding service.
func (m *Metrics) RecordEmbedCall(duration time.Duration, err error) {
	atomic.AddUint64(&m.embedCallsTotal, 1)
	if err != nil {
		atomic.AddUint64(&m.embedCallsErrors, 1)
		return
	}

	m.durationMu.Lock()
	m.embedCallsDuration += duration.Seconds()
	m.durationMu.Unlock()
}

// RecordIngest records an ingestion outcome.
func (m *Metrics) RecordIngest(chunks int, err error) {
	if err != nil {
		atomic.AddUint64(&m.ingestErrors, 1)
		return
	}
	atomic.AddUint64(&m.documentsIngested, 1)
	atomic.AddUint64(&m.chunksIngested, uint64(chunks))
}

// Export renders the metrics in Prometheus text format.
func (m *Metrics) Export(namespace, subsystem string) string {
	var sb strings.Builder
	prefix := namespace
	if subsystem != "" {
		prefix = prefix + "_" + subsystem
	}

	counter := func(name, help string, value uint64) {
		sb.WriteString(fmt.Sprintf("# HELP %s_%s %s\n", prefix, name, help))
		sb.WriteString(fmt.Sprintf("# TYPE %s_%s counter\n", prefix, name))
		sb.WriteString(fmt.Sprintf("%s_%s %d\n\n", prefix, name, value))
	}
	gauge := func(name, help string, value float64) {
		sb.WriteString(fmt.Sprintf("# HELP %s_%s %s\n", prefix, name, help))
		sb.WriteString(fmt.Sprintf("# TYPE %s_%s gauge\n", prefix, name))
		sb.WriteString(fmt.Sprintf("%s_%s %.4f\n\n", prefix, name, value))
	}

	counter("queries_total", "Total number of queries.", atomic.LoadUint64(&m.queriesTotal))
	counter("queries_cache_hits_total", "Number of query cache hits.", atomic.LoadUint64(&m.queriesCacheHits))
	counter("queries_cache_misses_total", "Number of query cache misses.", atomic.LoadUint64(&m.queriesCacheMisses))
	counter("queries_errors_total", "Number of query errors.", atomic.LoadUint64(&m.queriesErrors))

	hits := atomic.LoadUint64(&m.queriesCacheHits)
	misses := atomic.LoadUint64(&m.queriesCacheMisses)
	hitRate := 0.0
	if hits+misses > 0 {
		hitRate = float64(hits) / float64(hits+misses)
	}
	gauge("cache_hit_rate", "Query cache hit rate (0-1).", hitRate)

	counter("search_total", "Total number of vector searches.", atomic.LoadUint64(&m.searchTotal))
	counter("search_errors_total", "Number of vector search errors.", atomic.LoadUint64(&m.searchErrors))

	counter("embed_calls_total", "Total number of embedding service calls.", atomic.LoadUint64(&m.embedCallsTotal))
	counter("embed_calls_errors_total", "Number of embedding service errors.", atomic.LoadUint64(&m.embedCallsErrors))

	m.durationMu.Lock()
	searchDuration := m.searchDuration
	embedDuration := m.embedCallsDuration
	m.durationMu.Unlock()

	sb.WriteString(fmt.Sprintf("# HELP %s_search_duration_seconds_total Total search duration.\n", prefix))
	sb.WriteString(fmt.Sprintf("# TYPE %s_search_duration_seconds_total counter\n", prefix))
	sb.WriteString(fmt.Sprintf("%s_search_duration_seconds_total %.6f\n\n", prefix, searchDuration))

	sb.WriteString(fmt.Sprintf("# HELP %s_embed_calls_duration_seconds_total Total embedding call duration.\n", prefix))
	sb.WriteString(fmt.Sprintf("# TYPE %s_embed_calls_duration_seconds_total counter\n", prefix))
	sb.WriteString(fmt.Sprintf("%s_embed_calls_duration_seconds_total %.6f\n\n", prefix, embedDuration))

	counter("documents_ingested_total", "Total documents ingested.", atomic.LoadUint64(&m.documentsIngested))
	counter("chunks_ingested_total", "Total chunks ingested.", atomic.LoadUint64(&m.chunksIngested))
	counter("ingest_errors_total", "Number of ingestion errors.", atomic.LoadUint64(&m.ingestErrors))

	gauge("uptime_seconds", "Service uptime in seconds.", time.Since(m.startTime).Seconds())

	return sb.String()
}

// Stats returns the current metrics as a structured map.
func (m *Metrics) Stats() map[string]any {
	m.durationMu.Lock()
	searchDuration := m.searchDuration
	embedDuration := m.embedCallsDuration
	m.durationMu.Unlock()

	hits := atomic.LoadUint64(&m.queriesCacheHits)
	misses := atomic.LoadUint64(&m.queriesCacheMisses)
	hitRate := 0.0
	if hits+misses > 0 {
		hitRate = float64(hits) / float64(hits+misses)
	}

	searchTotal := atomic.LoadUint64(&m.searchTotal)
	avgSearch := 0.0
	if searchTotal > 0 {
		avgSearch = searchDuration / float64(searchTotal)
	}

	embedTotal := atomic.LoadUint64(&m.embedCallsTotal)
	avgEmbed := 0.0
	if embedTotal > 0 {
		avgEmbed = embedDuration / float64(embedTotal)
	}

	return map[string]any{
		"queries": map[string]any{
			"total":          atomic.LoadUint64(&m.queriesTotal),
			"cache_hits":     hits,
			"cache_misses":   misses,
			"cache_hit_rate": hitRate,
			"errors":         atomic.LoadUint64(&m.queriesErrors),
		},
		"search": map[string]any{
			"total":               searchTotal,
			"total_duration_secs": searchDuration,
			"avg_duration_secs":   avgSearch,
			"errors":              atomic.LoadUint64(&m.searchErrors),
		},
		"embedding": map[string]any{
			"calls_total":         embedTotal,
			"total_duration_secs": embedDuration,
			"avg_duration_secs":   avgEmbed,
			"errors":              atomic.LoadUint64(&m.embedCallsErrors),
		},
		"ingestion": map[string]any{
			"documents": atomic.LoadUint64(&m.documentsIngested),
			"chunks":    atomic.LoadUint64(&m.chunksIngested),
			"errors":    atomic.LoadUint64(&m.ingestErrors),
		},
		"uptime_seconds": time.Since(m.startTime).Seconds(),
	}
}

// Reset zeroes all counters. Test use only.
func (m *Metrics) Reset() {
	atomic.StoreUint64(&m.queriesTotal, 0)
	atomic.StoreUint64(&m.queriesCacheHits, 0)
	atomic.StoreUint64(&m.queriesCacheMisses, 0)
	atomic.StoreUint64(&m.queriesErrors, 0)
	atomic.StoreUint64(&m.searchTotal, 0)
	atomic.StoreUint64(&m.searchErrors, 0)
	atomic.StoreUint64(&m.embedCallsTotal, 0)
	atomic.StoreUint64(&m.embedCallsErrors, 0)
	atomic.StoreUint64(&m.documentsIngested, 0)
	atomic.StoreUint64(&m.chunksIngested, 0)
	atomic.StoreUint64(&m.ingestErrors, 0)

	m.durationMu.Lock()
	m.searchDuration = 0
	m.embedCallsDuration = 0
	m.startTime = time.Now()
	m.durationMu.Unlock()
}
