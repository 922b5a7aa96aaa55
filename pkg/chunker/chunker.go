// Package chunker splits extracted document text into overlapping
// fixed-size windows sized for embedding.
package chunker

import "strings"

const defaultChunkSize = 1500

// Chunk normalizes whitespace in text (runs collapsed to a single space,
// ends trimmed) and splits it into windows of size characters, each window
// starting size-overlap characters after the previous one. The final window
// is truncated to whatever text remains. Empty or whitespace-only input
// yields no chunks.
//
// The advance step is clamped to at least one character so that an overlap
// at or above the chunk size cannot stall the loop.
func Chunk(text string, size, overlap int) []string {
	normalized := strings.Join(strings.Fields(text), " ")
	if normalized == "" {
		return nil
	}

	if size <= 0 {
		size = defaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	step := size - overlap
	if step < 1 {
		step = 1
	}

	runes := []rune(normalized)
	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}
