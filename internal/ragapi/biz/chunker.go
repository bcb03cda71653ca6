package biz

import (
	"strings"
)

const (
	// DefaultChunkSize is the chunk length in runes.
	DefaultChunkSize = 500
	// DefaultChunkOverlap is the overlap between consecutive chunks in runes.
	DefaultChunkOverlap = 50
)

// ChunkText splits text into overlapping chunks of at most chunkSize runes.
// A chunk is cut back to the last sentence boundary ('.' or '\n') when that
// boundary lies in the second half of the chunk, so sentences are kept whole
// where possible. Empty chunks are dropped.
func ChunkText(text string, chunkSize, overlap int) []string {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = DefaultChunkOverlap
	}

	runes := []rune(text)
	if len(runes) <= chunkSize {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil
		}
		return []string{trimmed}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}

		// Prefer a sentence boundary if one falls in the second half.
		if end < len(runes) {
			breakPoint := -1
			for j := end - 1; j >= start; j-- {
				if runes[j] == '.' || runes[j] == '\n' {
					breakPoint = j
					break
				}
			}
			if breakPoint > start+chunkSize/2 {
				end = breakPoint + 1
			}
		}

		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end >= len(runes) {
			break
		}
		start = end - overlap
	}

	return chunks
}
