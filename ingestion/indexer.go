package ingestion

import (
	"context"
	"log/slog"

	"github.com/poiesic/minuted/core"
	"github.com/poiesic/minuted/sparse"
	"github.com/poiesic/minuted/storage"
)

// DefaultBatchSize is how many chunks are embedded and upserted together.
const DefaultBatchSize = 32

// Indexer streams chunks into the vector index in bounded batches so a
// full meeting never sits in memory at once. Add buffers a chunk and
// flushes when the batch fills; Flush drains the remainder. The
// collection is created lazily on the first flush, once the embedding
// dimension is known from the first batch.
//
// An Indexer serves one indexing run and is not safe for concurrent use.
type Indexer struct {
	index     storage.VectorIndex
	embedder  *batchEmbedder
	batchSize int
	buf       []core.Chunk
	total     int
	ensured   bool
	logger    *slog.Logger
}

// NewIndexer creates an indexer writing through the given vector index.
func NewIndexer(index storage.VectorIndex, embedder *batchEmbedder, batchSize int, logger *slog.Logger) *Indexer {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Indexer{
		index:     index,
		embedder:  embedder,
		batchSize: batchSize,
		buf:       make([]core.Chunk, 0, batchSize),
		logger:    logger.With("component", "indexer"),
	}
}

// Add buffers a chunk, flushing a full batch to the store.
func (ix *Indexer) Add(ctx context.Context, chunk core.Chunk) error {
	ix.buf = append(ix.buf, chunk)
	if len(ix.buf) >= ix.batchSize {
		return ix.flush(ctx)
	}
	return nil
}

// Flush writes any buffered chunks.
func (ix *Indexer) Flush(ctx context.Context) error {
	if len(ix.buf) == 0 {
		return nil
	}
	return ix.flush(ctx)
}

// Total returns the number of points written so far.
func (ix *Indexer) Total() int {
	return ix.total
}

func (ix *Indexer) flush(ctx context.Context) error {
	batch := ix.buf
	ix.buf = ix.buf[:0]

	texts := make([]string, len(batch))
	for i, chunk := range batch {
		texts[i] = chunk.Text
	}

	embeddings, err := ix.embedder.embed(ctx, texts)
	if err != nil {
		return err
	}

	if !ix.ensured {
		if err := ix.index.EnsureCollection(ctx, len(embeddings[0])); err != nil {
			return err
		}
		ix.ensured = true
	}

	points := make([]core.IndexedPoint, len(batch))
	for i, chunk := range batch {
		points[i] = core.IndexedPoint{
			ID:     core.PointID(chunk.ChunkID()),
			Dense:  embeddings[i],
			Sparse: sparse.EncodeDoc(chunk.Text),
			Chunk:  chunk,
		}
	}

	if err := ix.index.UpsertPoints(ctx, points); err != nil {
		return err
	}

	ix.total += len(points)
	ix.logger.Debug("flushed batch", "points", len(points), "total", ix.total)
	return nil
}
