package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/minuted/ai"
)

const (
	defaultEmbedMaxAttempts = 3
	defaultEmbedBaseDelay   = 500 * time.Millisecond
)

// batchEmbedder wraps an ai.Embedder with bounded retry. Transient
// embedding failures are retried with exponential backoff; once attempts
// are exhausted the error surfaces as ErrEmbeddingUnavailable.
type batchEmbedder struct {
	embedder    ai.Embedder
	maxAttempts int
	baseDelay   time.Duration
	logger      *slog.Logger
}

func newBatchEmbedder(embedder ai.Embedder, logger *slog.Logger) *batchEmbedder {
	if logger == nil {
		logger = slog.Default()
	}
	return &batchEmbedder{
		embedder:    embedder,
		maxAttempts: defaultEmbedMaxAttempts,
		baseDelay:   defaultEmbedBaseDelay,
		logger:      logger.With("component", "batch-embedder"),
	}
}

// embed generates dense vectors for a batch of texts.
func (be *batchEmbedder) embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = be.embedder.EmbedTexts(ctx, texts)
		return err
	}, be.maxAttempts, be.baseDelay)

	if err != nil {
		be.logger.Error("embedding batch failed", "texts", len(texts), "attempts", be.maxAttempts, "err", err)
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingUnavailable, err)
	}

	if len(embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding result mismatch. expected %d, received %d", len(texts), len(embeddings))
	}

	return embeddings, nil
}
