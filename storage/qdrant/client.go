package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/poiesic/minuted/core"
	"github.com/poiesic/minuted/storage"
)

const (
	defaultCollection = "meeting_chunks"
	defaultTimeout    = 15 * time.Second

	denseVectorName  = "dense"
	sparseVectorName = "sparse"
)

// Index is a hybrid dense+sparse vector index backed by a Qdrant server,
// talked to over its HTTP API.
type Index struct {
	location   string
	collection string
	apiKey     string
	client     *http.Client
	logger     *slog.Logger
}

var _ storage.VectorIndex = (*Index)(nil)

// Option configures an Index.
type Option func(*Index) error

// WithCollection sets the collection name.
func WithCollection(name string) Option {
	return func(idx *Index) error {
		if name == "" {
			return errors.New("collection name cannot be empty")
		}
		idx.collection = name
		return nil
	}
}

// WithAPIKey sets the API key sent with every request.
func WithAPIKey(key string) Option {
	return func(idx *Index) error {
		idx.apiKey = key
		return nil
	}
}

// WithHTTPClient replaces the HTTP client. Useful for tests.
func WithHTTPClient(client *http.Client) Option {
	return func(idx *Index) error {
		if client == nil {
			return errors.New("http client cannot be nil")
		}
		idx.client = client
		return nil
	}
}

// NewIndex creates a vector index client for the Qdrant server at location
// (e.g. "http://localhost:6333").
func NewIndex(location string, opts ...Option) (storage.VectorIndex, error) {
	if location == "" {
		return nil, errors.New("qdrant location cannot be empty")
	}

	idx := &Index{
		location:   strings.TrimRight(location, "/"),
		collection: defaultCollection,
		client:     &http.Client{Timeout: defaultTimeout},
		logger:     slog.Default().With("component", "qdrant-index"),
	}

	for _, opt := range opts {
		if err := opt(idx); err != nil {
			return nil, err
		}
	}

	return idx, nil
}

// Close is a no-op; the index holds no persistent connections.
func (idx *Index) Close() error {
	return nil
}

// EnsureCollection creates the chunk collection if it doesn't already exist.
func (idx *Index) EnsureCollection(ctx context.Context, denseDim int) error {
	exists, err := idx.collectionExists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	req := map[string]any{
		"vectors": map[string]any{
			denseVectorName: map[string]any{
				"size":     denseDim,
				"distance": "Cosine",
			},
		},
		"sparse_vectors": map[string]any{
			sparseVectorName: map[string]any{},
		},
	}

	path := fmt.Sprintf("/collections/%s", url.PathEscape(idx.collection))

	var rsp qdrantEnvelope[json.RawMessage]
	if err := idx.do(ctx, http.MethodPut, path, req, &rsp); err != nil {
		return err
	}
	if !strings.EqualFold(rsp.Status.State, "ok") {
		return fmt.Errorf("%w: %s", storage.ErrUnavailable, rsp.Status.Error)
	}

	idx.logger.Info("created collection", "collection", idx.collection, "dense_dim", denseDim)
	return nil
}

func (idx *Index) collectionExists(ctx context.Context) (bool, error) {
	path := fmt.Sprintf("/collections/%s", url.PathEscape(idx.collection))

	var rsp qdrantEnvelope[json.RawMessage]
	err := idx.do(ctx, http.MethodGet, path, nil, &rsp)
	if err != nil {
		if strings.Contains(err.Error(), "404") {
			return false, nil
		}
		return false, err
	}

	return strings.EqualFold(rsp.Status.State, "ok"), nil
}

// UpsertPoints writes points to the collection. Point IDs are derived from
// chunk identity, so re-upserting overwrites rather than duplicates.
func (idx *Index) UpsertPoints(ctx context.Context, points []core.IndexedPoint) error {
	if len(points) == 0 {
		return nil
	}

	reqPoints := make([]map[string]any, 0, len(points))
	for _, p := range points {
		reqPoints = append(reqPoints, map[string]any{
			"id": p.ID,
			"vector": map[string]any{
				denseVectorName: p.Dense,
				sparseVectorName: map[string]any{
					"indices": p.Sparse.Indices,
					"values":  p.Sparse.Values,
				},
			},
			"payload": chunkPayload(p.Chunk),
		})
	}

	req := map[string]any{"points": reqPoints}

	path := fmt.Sprintf("/collections/%s/points?wait=true", url.PathEscape(idx.collection))

	var rsp qdrantEnvelope[json.RawMessage]
	if err := idx.do(ctx, http.MethodPut, path, req, &rsp); err != nil {
		return err
	}
	if !strings.EqualFold(rsp.Status.State, "ok") && len(rsp.Status.Error) > 0 {
		return fmt.Errorf("%w: %s", storage.ErrUnavailable, rsp.Status.Error)
	}

	return nil
}

// QueryHybrid runs dense and sparse prefetch queries fused with reciprocal
// rank fusion, scoped to one meeting.
func (idx *Index) QueryHybrid(ctx context.Context, meetingID string, dense []float32, sparse core.SparseVector, limit int) ([]core.RetrievedChunk, error) {
	if limit < 1 {
		return nil, nil
	}

	filter := meetingFilter(meetingID)

	req := map[string]any{
		"prefetch": []map[string]any{
			{
				"query":  dense,
				"using":  denseVectorName,
				"limit":  limit,
				"filter": filter,
			},
			{
				"query": map[string]any{
					"indices": sparse.Indices,
					"values":  sparse.Values,
				},
				"using":  sparseVectorName,
				"limit":  limit,
				"filter": filter,
			},
		},
		"query":        map[string]any{"fusion": "rrf"},
		"limit":        limit,
		"with_payload": true,
	}

	path := fmt.Sprintf("/collections/%s/points/query", url.PathEscape(idx.collection))

	var rsp qdrantEnvelope[qdrantQueryResult]
	if err := idx.do(ctx, http.MethodPost, path, req, &rsp); err != nil {
		return nil, err
	}

	return chunksFromPoints(rsp.Result.Points), nil
}

// QueryTimeWindow returns chunks whose [time_start_sec, time_end_sec] span
// contains the given second. Points without time metadata never match.
func (idx *Index) QueryTimeWindow(ctx context.Context, meetingID string, second int, limit int) ([]core.RetrievedChunk, error) {
	if limit < 1 {
		return nil, nil
	}

	req := map[string]any{
		"filter": map[string]any{
			"must": []map[string]any{
				{
					"key":   "meeting_id",
					"match": map[string]any{"value": meetingID},
				},
				{
					"key":   "time_start_sec",
					"range": map[string]any{"lte": second},
				},
				{
					"key":   "time_end_sec",
					"range": map[string]any{"gte": second},
				},
			},
		},
		"limit":        limit,
		"with_payload": true,
	}

	return idx.scroll(ctx, req)
}

// ScrollMeeting returns up to limit chunks of a meeting in storage order.
func (idx *Index) ScrollMeeting(ctx context.Context, meetingID string, limit int) ([]core.RetrievedChunk, error) {
	if limit < 1 {
		return nil, nil
	}

	req := map[string]any{
		"filter":       meetingFilter(meetingID),
		"limit":        limit,
		"with_payload": true,
	}

	return idx.scroll(ctx, req)
}

func (idx *Index) scroll(ctx context.Context, req map[string]any) ([]core.RetrievedChunk, error) {
	path := fmt.Sprintf("/collections/%s/points/scroll", url.PathEscape(idx.collection))

	var rsp qdrantEnvelope[qdrantScrollResult]
	if err := idx.do(ctx, http.MethodPost, path, req, &rsp); err != nil {
		return nil, err
	}

	return chunksFromPoints(rsp.Result.Points), nil
}

func (idx *Index) do(ctx context.Context, method string, path string, req any, rsp any) error {
	u := idx.location + path

	var buf io.Reader
	if req != nil {
		data, err := json.Marshal(req)
		if err != nil {
			return err
		}
		buf = bytes.NewReader(data)
	}

	request, err := http.NewRequestWithContext(ctx, method, u, buf)
	if err != nil {
		return err
	}

	request.Header.Set("Content-Type", "application/json")

	if len(idx.apiKey) > 0 {
		request.Header.Set("api-key", idx.apiKey)
		request.Header.Set("Authorization", "Bearer "+idx.apiKey)
	}

	response, err := idx.client.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}

	if response.StatusCode >= 500 {
		return fmt.Errorf("%w: http %d: %s", storage.ErrUnavailable, response.StatusCode, string(payload))
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("qdrant http %d: %s", response.StatusCode, string(payload))
	}

	if rsp != nil && len(payload) > 0 {
		if err := json.Unmarshal(payload, rsp); err != nil {
			return err
		}
	}

	return nil
}

func meetingFilter(meetingID string) map[string]any {
	return map[string]any{
		"must": []map[string]any{
			{
				"key":   "meeting_id",
				"match": map[string]any{"value": meetingID},
			},
		},
	}
}

func chunksFromPoints(points []qdrantScoredPoint) []core.RetrievedChunk {
	results := make([]core.RetrievedChunk, 0, len(points))
	for _, point := range points {
		results = append(results, chunkFromPayload(point))
	}
	return results
}
