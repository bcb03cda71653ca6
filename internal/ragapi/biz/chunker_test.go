package biz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkTextShortInput(t *testing.T) {
	chunks := ChunkText("hello world", 500, 50)
	require.Len(t, chunks, 1)
	assert.Equal(t, "hello world", chunks[0])
}

func TestChunkTextEmptyInput(t *testing.T) {
	assert.Nil(t, ChunkText("", 500, 50))
	assert.Nil(t, ChunkText("   \n  ", 500, 50))
}

func TestChunkTextSplitsLongInput(t *testing.T) {
	text := strings.Repeat("a", 1200)
	chunks := ChunkText(text, 500, 50)

	require.GreaterOrEqual(t, len(chunks), 3)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len([]rune(chunk)), 500)
		assert.NotEmpty(t, chunk)
	}
}

func TestChunkTextOverlap(t *testing.T) {
	// No sentence boundaries, so chunks split at exactly chunkSize with
	// overlap runes shared between neighbors.
	text := strings.Repeat("x", 250)
	chunks := ChunkText(text, 100, 20)

	require.GreaterOrEqual(t, len(chunks), 3)
	assert.Equal(t, 100, len(chunks[0]))
	assert.Equal(t, 100, len(chunks[1]))
}

func TestChunkTextBreaksAtSentenceBoundary(t *testing.T) {
	// A period placed in the second half of the first chunk should end it.
	text := strings.Repeat("a", 80) + "." + strings.Repeat("b", 120)
	chunks := ChunkText(text, 100, 10)

	require.GreaterOrEqual(t, len(chunks), 2)
	assert.True(t, strings.HasSuffix(chunks[0], "."), "first chunk should end at the period, got %q", chunks[0])
	assert.Equal(t, 81, len(chunks[0]))
}

func TestChunkTextIgnoresEarlyBoundary(t *testing.T) {
	// A period in the first half of the chunk is not used as a break point.
	text := strings.Repeat("a", 20) + "." + strings.Repeat("b", 200)
	chunks := ChunkText(text, 100, 10)

	require.NotEmpty(t, chunks)
	assert.Equal(t, 100, len(chunks[0]))
}

func TestChunkTextNewlineBoundary(t *testing.T) {
	text := strings.Repeat("a", 70) + "\n" + strings.Repeat("b", 150)
	chunks := ChunkText(text, 100, 10)

	require.GreaterOrEqual(t, len(chunks), 2)
	assert.Equal(t, strings.Repeat("a", 70), chunks[0])
}

func TestChunkTextUnicode(t *testing.T) {
	text := strings.Repeat("世界和平是人类共同的愿望", 60)
	chunks := ChunkText(text, 100, 10)

	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len([]rune(chunk)), 100)
	}
	// Joining covers the original text modulo overlap trimming.
	assert.Contains(t, text, chunks[0])
}

func TestChunkTextDefaultsOnInvalidParams(t *testing.T) {
	text := strings.Repeat("a", 600)
	chunks := ChunkText(text, 0, -1)
	require.NotEmpty(t, chunks)
	assert.LessOrEqual(t, len([]rune(chunks[0])), DefaultChunkSize)
}
