package search

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/minuted/ai/mock"
	"github.com/poiesic/minuted/core"
	"github.com/poiesic/minuted/sparse"
)

// fakeIndex serves canned hybrid results keyed by the query's sparse
// encoding, which lets tests wire per-query result sets without a server.
type fakeIndex struct {
	byQuery     map[string][]core.RetrievedChunk
	timeWindow  []core.RetrievedChunk
	scrolled    []core.RetrievedChunk
	lastLimit   int
	scrollCalls int
}

func queryKey(sv core.SparseVector) string {
	return fmt.Sprint(sv.Indices)
}

func (f *fakeIndex) EnsureCollection(ctx context.Context, denseDim int) error { return nil }

func (f *fakeIndex) UpsertPoints(ctx context.Context, points []core.IndexedPoint) error { return nil }

func (f *fakeIndex) QueryHybrid(ctx context.Context, meetingID string, dense []float32, sv core.SparseVector, limit int) ([]core.RetrievedChunk, error) {
	f.lastLimit = limit
	chunks := f.byQuery[queryKey(sv)]
	if len(chunks) > limit {
		chunks = chunks[:limit]
	}
	return chunks, nil
}

func (f *fakeIndex) QueryTimeWindow(ctx context.Context, meetingID string, second int, limit int) ([]core.RetrievedChunk, error) {
	var matches []core.RetrievedChunk
	for _, chunk := range f.timeWindow {
		if chunk.TimeStartSec <= second && second <= chunk.TimeEndSec {
			matches = append(matches, chunk)
		}
	}
	return matches, nil
}

func (f *fakeIndex) ScrollMeeting(ctx context.Context, meetingID string, limit int) ([]core.RetrievedChunk, error) {
	f.scrollCalls++
	return f.scrolled, nil
}

func (f *fakeIndex) Close() error { return nil }

func chunkWith(id string, score float32, speakers ...string) core.RetrievedChunk {
	return core.RetrievedChunk{
		ChunkID:   id,
		MeetingID: "mtg-1",
		File:      "a.txt",
		Text:      "text " + id,
		LineStart: 1,
		LineEnd:   8,
		Speakers:  speakers,
		Score:     score,
	}
}

func newTestRetriever(t *testing.T, index *fakeIndex) *Retriever {
	t.Helper()
	r, err := NewRetriever(index, mock.NewMockProvider())
	require.NoError(t, err)
	return r
}

func TestNewRetriever_Validation(t *testing.T) {
	t.Run("nil index", func(t *testing.T) {
		_, err := NewRetriever(nil, mock.NewMockProvider())
		assert.ErrorIs(t, err, ErrVectorIndexRequired)
	})
	t.Run("nil provider", func(t *testing.T) {
		_, err := NewRetriever(&fakeIndex{}, nil)
		assert.ErrorIs(t, err, ErrAIProviderRequired)
	})
}

func TestRetrieve_TruncatesToTopK(t *testing.T) {
	index := &fakeIndex{byQuery: map[string][]core.RetrievedChunk{
		queryKey(sparse.EncodeQuery("roadmap")): {
			chunkWith("c1", 0.9), chunkWith("c2", 0.8), chunkWith("c3", 0.7), chunkWith("c4", 0.6),
		},
	}}
	r := newTestRetriever(t, index)

	chunks, err := r.Retrieve(context.Background(), "mtg-1", "roadmap", 2, "")
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "c1", chunks[0].ChunkID)
	assert.Equal(t, "c2", chunks[1].ChunkID)
}

func TestRetrieve_OverFetchPool(t *testing.T) {
	index := &fakeIndex{byQuery: map[string][]core.RetrievedChunk{}}
	r := newTestRetriever(t, index)
	ctx := context.Background()

	tests := []struct {
		name    string
		topK    int
		speaker string
		want    int
	}{
		{"small topK floors at 20", 5, "", 20},
		{"2x without speaker", 15, "", 30},
		{"4x with speaker", 15, "Alice", 60},
		{"speaker floors at 20", 3, "Alice", 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Retrieve(ctx, "mtg-1", "q", tt.topK, tt.speaker)
			require.NoError(t, err)
			assert.Equal(t, tt.want, index.lastLimit)
		})
	}
}

func TestRetrieve_SpeakerFilter(t *testing.T) {
	index := &fakeIndex{byQuery: map[string][]core.RetrievedChunk{
		queryKey(sparse.EncodeQuery("alerts")): {
			chunkWith("c1", 0.9, "Bob"),
			chunkWith("c2", 0.8, "Alice", "Bob"),
			chunkWith("c3", 0.7, "ALICE"),
			chunkWith("c4", 0.6, "Carol"),
		},
	}}
	r := newTestRetriever(t, index)

	chunks, err := r.Retrieve(context.Background(), "mtg-1", "alerts", 10, "alice")
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "c2", chunks[0].ChunkID)
	assert.Equal(t, "c3", chunks[1].ChunkID)
}

func TestRetrieveMulti_MergeKeepsMaxScore(t *testing.T) {
	index := &fakeIndex{byQuery: map[string][]core.RetrievedChunk{
		queryKey(sparse.EncodeQuery("first query")): {
			chunkWith("shared", 0.5), chunkWith("only-a", 0.4),
		},
		queryKey(sparse.EncodeQuery("second query")): {
			chunkWith("shared", 0.9), chunkWith("only-b", 0.3),
		},
	}}
	r := newTestRetriever(t, index)

	chunks, err := r.RetrieveMulti(context.Background(), "mtg-1", []string{"first query", "second query"}, 4, "")
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, "shared", chunks[0].ChunkID)
	assert.InDelta(t, 0.9, chunks[0].Score, 1e-6)
}

func TestRetrieveMulti_OrderIndependent(t *testing.T) {
	index := &fakeIndex{byQuery: map[string][]core.RetrievedChunk{
		queryKey(sparse.EncodeQuery("first query")): {
			chunkWith("c1", 0.8), chunkWith("c2", 0.6),
		},
		queryKey(sparse.EncodeQuery("second query")): {
			chunkWith("c2", 0.7), chunkWith("c3", 0.5),
		},
	}}
	r := newTestRetriever(t, index)
	ctx := context.Background()

	forward, err := r.RetrieveMulti(ctx, "mtg-1", []string{"first query", "second query"}, 6, "")
	require.NoError(t, err)
	backward, err := r.RetrieveMulti(ctx, "mtg-1", []string{"second query", "first query"}, 6, "")
	require.NoError(t, err)

	assert.Equal(t, forward, backward)
}

func TestRetrieveMulti_SingleQueryBypass(t *testing.T) {
	index := &fakeIndex{byQuery: map[string][]core.RetrievedChunk{
		queryKey(sparse.EncodeQuery("only")): {chunkWith("c1", 0.9)},
	}}
	r := newTestRetriever(t, index)

	chunks, err := r.RetrieveMulti(context.Background(), "mtg-1", []string{"only"}, 3, "")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "c1", chunks[0].ChunkID)
}

func TestRetrieveMulti_NoQueries(t *testing.T) {
	r := newTestRetriever(t, &fakeIndex{})

	_, err := r.RetrieveMulti(context.Background(), "mtg-1", nil, 3, "")
	assert.ErrorIs(t, err, ErrNoQueries)
}

func TestRetrieveByTime_Containment(t *testing.T) {
	window := chunkWith("c1", 0)
	window.TimeStartSec = 10
	window.TimeEndSec = 40

	index := &fakeIndex{timeWindow: []core.RetrievedChunk{window}}
	r := newTestRetriever(t, index)
	ctx := context.Background()

	tests := []struct {
		second int
		found  bool
	}{
		{25, true},
		{10, true},
		{40, true},
		{5, false},
		{45, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("t=%d", tt.second), func(t *testing.T) {
			chunks, err := r.RetrieveByTime(ctx, "mtg-1", tt.second, 5, "")
			require.NoError(t, err)
			if tt.found {
				require.Len(t, chunks, 1)
				assert.Equal(t, "c1", chunks[0].ChunkID)
			} else {
				assert.Empty(t, chunks)
			}
		})
	}
}

func TestRetrieveByTime_LegacyFallback(t *testing.T) {
	legacy := chunkWith("old", 0)
	legacy.TimeStart = "00:05:00"
	legacy.TimeEnd = "00:06:30"

	outside := chunkWith("outside", 0)
	outside.TimeStart = "00:10:00"
	outside.TimeEnd = "00:11:00"

	index := &fakeIndex{scrolled: []core.RetrievedChunk{legacy, outside}}
	r := newTestRetriever(t, index)

	chunks, err := r.RetrieveByTime(context.Background(), "mtg-1", 330, 5, "")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "old", chunks[0].ChunkID)
	assert.Equal(t, 1, index.scrollCalls)
}
