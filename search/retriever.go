package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/poiesic/minuted/ai"
	"github.com/poiesic/minuted/core"
	"github.com/poiesic/minuted/sparse"
	"github.com/poiesic/minuted/storage"
	"github.com/poiesic/minuted/transcript"
)

const (
	// minPool is the smallest candidate pool fetched regardless of topK.
	minPool = 20

	// legacyScanLimit caps how many points the legacy time-window fallback
	// scrolls when stored payloads predate numeric time fields.
	legacyScanLimit = 500
)

// Retriever runs hybrid dense+sparse retrieval over indexed meeting chunks.
// All retrieval is hard-scoped to a single meeting.
type Retriever struct {
	index    storage.VectorIndex
	embedder ai.Embedder
	logger   *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRetriever creates a new retriever.
func NewRetriever(index storage.VectorIndex, provider ai.AIProvider, opts ...Option) (*Retriever, error) {
	if index == nil {
		return nil, ErrVectorIndexRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	r := &Retriever{
		index:    index,
		embedder: provider.Embedder(),
		logger:   slog.Default().With("component", "retriever"),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// poolSize is the over-fetched candidate pool for a wanted result count.
// A speaker filter discards candidates after fusion, so it fetches a
// deeper pool.
func poolSize(topK int, speakerFiltered bool) int {
	factor := 2
	if speakerFiltered {
		factor = 4
	}
	pool := factor * topK
	if pool < minPool {
		pool = minPool
	}
	return pool
}

// Retrieve runs one fused query against a meeting and returns up to topK
// chunks, best first. An empty speaker means no speaker filter.
func (r *Retriever) Retrieve(ctx context.Context, meetingID, query string, topK int, speaker string) ([]core.RetrievedChunk, error) {
	return r.RetrieveWithMonitor(ctx, meetingID, query, topK, speaker, nil)
}

// RetrieveWithMonitor is Retrieve with hooks into the retrieval stages.
func (r *Retriever) RetrieveWithMonitor(ctx context.Context, meetingID, query string, topK int, speaker string, monitor RetrievalMonitor) ([]core.RetrievedChunk, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if topK < 1 {
		return nil, nil
	}

	monitor.Start(meetingID, []string{query})

	chunks, err := r.retrieveOne(ctx, meetingID, query, topK, speaker, monitor)
	if err != nil {
		return nil, err
	}

	if len(chunks) > topK {
		chunks = chunks[:topK]
	}
	monitor.Finish(chunks)
	return chunks, nil
}

// RetrieveMulti runs several query variants and merges their results: each
// variant gets an equal share of topK (rounded up), duplicate chunks keep
// the highest score, and the merged set is re-ranked. The merge is
// order-independent, so equivalent query sets retrieve equivalent results.
func (r *Retriever) RetrieveMulti(ctx context.Context, meetingID string, queries []string, topK int, speaker string) ([]core.RetrievedChunk, error) {
	return r.RetrieveMultiWithMonitor(ctx, meetingID, queries, topK, speaker, nil)
}

// RetrieveMultiWithMonitor is RetrieveMulti with hooks into the retrieval stages.
func (r *Retriever) RetrieveMultiWithMonitor(ctx context.Context, meetingID string, queries []string, topK int, speaker string, monitor RetrievalMonitor) ([]core.RetrievedChunk, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if len(queries) == 0 {
		return nil, ErrNoQueries
	}
	if len(queries) == 1 {
		return r.RetrieveWithMonitor(ctx, meetingID, queries[0], topK, speaker, monitor)
	}
	if topK < 1 {
		return nil, nil
	}

	monitor.Start(meetingID, queries)

	// Equal share per variant, rounded up
	perQuery := (topK + len(queries) - 1) / len(queries)

	best := make(map[string]core.RetrievedChunk)
	for _, query := range queries {
		chunks, err := r.retrieveOne(ctx, meetingID, query, perQuery, speaker, monitor)
		if err != nil {
			return nil, err
		}
		if len(chunks) > perQuery {
			chunks = chunks[:perQuery]
		}
		for _, chunk := range chunks {
			if existing, ok := best[chunk.ChunkID]; !ok || chunk.Score > existing.Score {
				best[chunk.ChunkID] = chunk
			}
		}
	}

	merged := make([]core.RetrievedChunk, 0, len(best))
	for _, chunk := range best {
		merged = append(merged, chunk)
	}
	sortByScore(merged)

	if len(merged) > topK {
		merged = merged[:topK]
	}
	monitor.Finish(merged)
	return merged, nil
}

// RetrieveByTime returns chunks whose time span contains the given second.
// Points indexed before numeric time fields existed are handled by a
// bounded fallback scan that parses the stored timestamp strings.
func (r *Retriever) RetrieveByTime(ctx context.Context, meetingID string, second int, topK int, speaker string) ([]core.RetrievedChunk, error) {
	if topK < 1 {
		return nil, nil
	}

	pool := poolSize(topK, speaker != "")

	chunks, err := r.index.QueryTimeWindow(ctx, meetingID, second, pool)
	if err != nil {
		return nil, err
	}

	if len(chunks) == 0 {
		chunks, err = r.legacyTimeScan(ctx, meetingID, second)
		if err != nil {
			return nil, err
		}
	}

	if speaker != "" {
		chunks = filterBySpeaker(chunks, speaker)
	}
	if len(chunks) > topK {
		chunks = chunks[:topK]
	}
	return chunks, nil
}

// retrieveOne runs one fused query with over-fetch and speaker filtering,
// without the final topK truncation.
func (r *Retriever) retrieveOne(ctx context.Context, meetingID, query string, topK int, speaker string, monitor RetrievalMonitor) ([]core.RetrievedChunk, error) {
	dense, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		r.logger.Error("error embedding query", "err", err)
		return nil, err
	}

	pool := poolSize(topK, speaker != "")

	chunks, err := r.index.QueryHybrid(ctx, meetingID, dense, sparse.EncodeQuery(query), pool)
	if err != nil {
		r.logger.Error("error querying index", "meeting", meetingID, "err", err)
		return nil, err
	}
	monitor.AfterQueryRetrieval(query, chunks)

	if speaker != "" {
		chunks = filterBySpeaker(chunks, speaker)
		monitor.AfterSpeakerFilter(speaker, chunks)
	}

	return chunks, nil
}

// legacyTimeScan scrolls a bounded window of a meeting's points and checks
// time containment against the stored timestamp strings.
func (r *Retriever) legacyTimeScan(ctx context.Context, meetingID string, second int) ([]core.RetrievedChunk, error) {
	scanned, err := r.index.ScrollMeeting(ctx, meetingID, legacyScanLimit)
	if err != nil {
		return nil, err
	}
	if len(scanned) == legacyScanLimit {
		r.logger.Warn("legacy time scan hit its cap; matches beyond it are missed",
			"meeting", meetingID, "cap", legacyScanLimit)
	}

	var matches []core.RetrievedChunk
	for _, chunk := range scanned {
		if chunk.TimeStart == "" || chunk.TimeEnd == "" {
			continue
		}
		start := transcript.TimestampSeconds(chunk.TimeStart)
		end := transcript.TimestampSeconds(chunk.TimeEnd)
		if start <= second && second <= end {
			matches = append(matches, chunk)
		}
	}
	return matches, nil
}

// filterBySpeaker keeps chunks whose speaker set contains the name,
// compared case-insensitively.
func filterBySpeaker(chunks []core.RetrievedChunk, speaker string) []core.RetrievedChunk {
	filtered := make([]core.RetrievedChunk, 0, len(chunks))
	for _, chunk := range chunks {
		for _, s := range chunk.Speakers {
			if strings.EqualFold(s, speaker) {
				filtered = append(filtered, chunk)
				break
			}
		}
	}
	return filtered
}

// sortByScore orders chunks best first, breaking score ties by chunk ID
// so rankings are deterministic.
func sortByScore(chunks []core.RetrievedChunk) {
	sort.Slice(chunks, func(i, j int) bool {
		if chunks[i].Score != chunks[j].Score {
			return chunks[i].Score > chunks[j].Score
		}
		return chunks[i].ChunkID < chunks[j].ChunkID
	})
}
