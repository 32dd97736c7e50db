package analyze

import (
	"strings"

	"github.com/aksharatantra/multidecode/internal/domain/docmodel"
)

// SplitChunks cuts text into fixed-size windows of chunkSize runes, each
// window starting overlap runes before the previous one ended. Windows are
// trimmed and empty ones dropped, so pure-whitespace regions produce no
// chunk. Empty input produces no chunks at all.
//
// Rune offsets, not byte offsets: a window boundary must never split a UTF-8
// sequence.
func SplitChunks(text string, chunkSize, overlap int) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	if chunkSize <= 0 {
		chunkSize = len(runes)
	}

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize
	}

	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		piece := strings.TrimSpace(string(runes[start:end]))
		if piece != "" {
			chunks = append(chunks, piece)
		}
	}
	return chunks
}

// NumberChunks tags chunk strings with their 1-based position.
func NumberChunks(chunks []string) []docmodel.TextChunk {
	out := make([]docmodel.TextChunk, len(chunks))
	for i, c := range chunks {
		out[i] = docmodel.TextChunk{Number: i + 1, Text: c}
	}
	return out
}
