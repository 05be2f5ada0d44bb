package grounding

import (
	"fmt"
	"strings"

	"github.com/poiesic/minuted/core"
)

// MaxContextChunks caps how many chunks are packed into generator context.
const MaxContextChunks = 8

// PackContext renders retrieved chunks as generator context: one block per
// chunk with its source range header, deduplicated by chunk identity in
// ranking order, capped at MaxContextChunks.
func PackContext(retrieved []core.RetrievedChunk) string {
	seen := make(map[string]bool, len(retrieved))
	blocks := make([]string, 0, MaxContextChunks)

	for _, chunk := range retrieved {
		if chunk.ChunkID == "" || seen[chunk.ChunkID] {
			continue
		}
		seen[chunk.ChunkID] = true

		block := fmt.Sprintf("SOURCE: %s:%d-%d\n%s", chunk.File, chunk.LineStart, chunk.LineEnd, chunk.Text)
		blocks = append(blocks, strings.TrimSpace(block))

		if len(blocks) >= MaxContextChunks {
			break
		}
	}

	return strings.Join(blocks, "\n\n---\n\n")
}
