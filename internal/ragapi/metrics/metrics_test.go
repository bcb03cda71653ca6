package metrics

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecordQuery(t *testing.T) {
	m := Get()
	m.Reset()

	m.RecordQuery(true, nil)
	m.RecordQuery(false, nil)
	m.RecordQuery(false, errors.New("boom"))

	stats := m.Stats()
	queries := stats["queries"].(map[string]any)
	assert.Equal(t, uint64(3), queries["total"])
	assert.Equal(t, uint64(1), queries["cache_hits"])
	assert.Equal(t, uint64(1), queries["cache_misses"])
	assert.Equal(t, uint64(1), queries["errors"])
	assert.InDelta(t, 0.5, queries["cache_hit_rate"], 0.001)
}

func TestRecordIngest(t *testing.T) {
	m := Get()
	m.Reset()

	m.RecordIngest(12, nil)
	m.RecordIngest(3, nil)
	m.RecordIngest(0, errors.New("boom"))

	stats := m.Stats()
	ingestion := stats["ingestion"].(map[string]any)
	assert.Equal(t, uint64(2), ingestion["documents"])
	assert.Equal(t, uint64(15), ingestion["chunks"])
	assert.Equal(t, uint64(1), ingestion["errors"])
}

func TestRecordSearchAndEmbed(t *testing.T) {
	m := Get()
	m.Reset()

	m.RecordSearch(100*time.Millisecond, nil)
	m.RecordSearch(0, errors.New("down"))
	m.RecordEmbedCall(50*time.Millisecond, nil)

	stats := m.Stats()
	search := stats["search"].(map[string]any)
	assert.Equal(t, uint64(2), search["total"])
	assert.Equal(t, uint64(1), search["errors"])
	assert.InDelta(t, 0.05, search["avg_duration_secs"].(float64), 0.06)
}

func TestExportPrometheusFormat(t *testing.T) {
	m := Get()
	m.Reset()

	m.RecordQuery(false, nil)
	m.RecordIngest(5, nil)

	out := m.Export("literag", "ragapi")

	assert.True(t, strings.Contains(out, "# TYPE literag_ragapi_queries_total counter"))
	assert.True(t, strings.Contains(out, "literag_ragapi_queries_total 1"))
	assert.True(t, strings.Contains(out, "literag_ragapi_chunks_ingested_total 5"))
	assert.True(t, strings.Contains(out, "# TYPE literag_ragapi_uptime_seconds gauge"))
}
