package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/minuted/ai"
	"github.com/poiesic/minuted/ai/mock"
	"github.com/poiesic/minuted/answer"
	"github.com/poiesic/minuted/core"
	"github.com/poiesic/minuted/ingestion"
	"github.com/poiesic/minuted/storage"
	"github.com/poiesic/minuted/storage/badger"
)

const sampleTranscript = `[00:00:00] Alice: Kickoff for the quarterly review.
[00:00:10] Bob: The rollout slipped a week.
[00:00:20] Alice: Deadline moves to Friday then.`

const groundedAnswerJSON = `{"answer": "The deadline moved to Friday [call.txt:1-3].", "citations": [{"file": "call.txt", "line_start": 1, "line_end": 3}]}`

// fakeIndex is a no-op vector index for exercising the HTTP layer.
type fakeIndex struct {
	mu     sync.Mutex
	points int
}

func (f *fakeIndex) EnsureCollection(context.Context, int) error { return nil }

func (f *fakeIndex) UpsertPoints(_ context.Context, points []core.IndexedPoint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.points += len(points)
	return nil
}

func (f *fakeIndex) QueryHybrid(context.Context, string, []float32, core.SparseVector, int) ([]core.RetrievedChunk, error) {
	return nil, nil
}

func (f *fakeIndex) QueryTimeWindow(context.Context, string, int, int) ([]core.RetrievedChunk, error) {
	return nil, nil
}

func (f *fakeIndex) ScrollMeeting(context.Context, string, int) ([]core.RetrievedChunk, error) {
	return nil, nil
}

func (f *fakeIndex) Close() error { return nil }

// fakeRetriever serves canned evidence for ask-flow tests.
type fakeRetriever struct {
	chunks []core.RetrievedChunk
}

func (f *fakeRetriever) RetrieveMulti(context.Context, string, []string, int, string) ([]core.RetrievedChunk, error) {
	return f.chunks, nil
}

func (f *fakeRetriever) RetrieveByTime(context.Context, string, int, int, string) ([]core.RetrievedChunk, error) {
	return f.chunks, nil
}

func evidenceChunk() core.RetrievedChunk {
	return core.RetrievedChunk{
		ChunkID:   "m1:call.txt:1",
		MeetingID: "m1",
		File:      "call.txt",
		Text:      sampleTranscript,
		LineStart: 1,
		LineEnd:   3,
		Speakers:  []string{"Alice", "Bob"},
		Score:     0.8,
	}
}

type testEnv struct {
	server   *Server
	meetings storage.MeetingRepository
	jobs     storage.JobRepository
}

func newTestServer(t *testing.T, opts ...Option) *testEnv {
	t.Helper()

	meetings, jobs, asks, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		asks.Close()
		backend.Close()
	})

	provider := mock.NewMockProvider().(*mock.MockProvider)
	provider.GetMockGenerator().GenerateFunc = func(ctx context.Context, req ai.GenerateRequest) (string, error) {
		if strings.Contains(req.System, "search queries") {
			return `{"queries": ["deadline"]}`, nil
		}
		if req.StreamFunc != nil {
			for _, tok := range []string{"The deadline ", "moved."} {
				if err := req.StreamFunc(ctx, []byte(tok)); err != nil {
					return "", err
				}
			}
		}
		return groundedAnswerJSON, nil
	}

	pipeline, err := ingestion.NewPipeline(meetings, jobs, &fakeIndex{}, provider)
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	answerer, err := answer.NewAnswerer(&fakeRetriever{chunks: []core.RetrievedChunk{evidenceChunk()}}, provider, meetings, asks)
	require.NoError(t, err)

	srv, err := New(pipeline, answerer, meetings, jobs, opts...)
	require.NoError(t, err)

	require.NoError(t, meetings.PutMeeting(context.Background(), &core.Meeting{
		Id:        "m1",
		Title:     "quarterly review",
		Files:     []string{"call.txt"},
		CreatedAt: time.Now(),
		Stats: core.MeetingStats{
			TurnCount:  3,
			ChunkCount: 1,
			Speakers:   []core.SpeakerStat{{Name: "Alice", Turns: 2}, {Name: "Bob", Turns: 1}},
		},
	}))

	return &testEnv{server: srv, meetings: meetings, jobs: jobs}
}

func multipartUpload(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestHealthz(t *testing.T) {
	env := newTestServer(t)

	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}

func TestHandleUpload(t *testing.T) {
	t.Run("accepts transcript and enqueues job", func(t *testing.T) {
		env := newTestServer(t)
		body, contentType := multipartUpload(t, "files", "standup.txt", sampleTranscript)

		req := httptest.NewRequest(http.MethodPost, "/api/meetings", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		env.server.Handler().ServeHTTP(rec, req)

		require.Equal(t, http.StatusAccepted, rec.Code)

		var job jobResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &job))
		assert.NotEmpty(t, job.ID)

		require.Eventually(t, func() bool {
			stored, err := env.jobs.GetJob(context.Background(), job.ID)
			return err == nil && stored.State == core.JobStateDone
		}, 5*time.Second, 20*time.Millisecond)
	})

	t.Run("rejects non-transcript content", func(t *testing.T) {
		env := newTestServer(t)
		body, contentType := multipartUpload(t, "files", "notes.txt", "shopping list\nmilk\neggs")

		req := httptest.NewRequest(http.MethodPost, "/api/meetings", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		env.server.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "not a transcript")
	})

	t.Run("rejects empty upload", func(t *testing.T) {
		env := newTestServer(t)
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("title", "empty"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/meetings", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		env.server.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleGetMeeting(t *testing.T) {
	env := newTestServer(t)

	t.Run("found", func(t *testing.T) {
		rec := httptest.NewRecorder()
		env.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/meetings/m1", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var m meetingResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
		assert.Equal(t, "m1", m.ID)
		assert.Equal(t, "quarterly review", m.Title)
		assert.Len(t, m.Stats.Speakers, 2)
	})

	t.Run("missing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		env.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/meetings/nope", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandleMeetingStats(t *testing.T) {
	env := newTestServer(t)

	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/meetings/m1/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var stats statsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 3, stats.TurnCount)
	assert.Equal(t, "Alice", stats.Speakers[0].Name)
}

func TestHandleListMeetings(t *testing.T) {
	env := newTestServer(t)

	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/meetings", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var out []meetingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "m1", out[0].ID)
}

func askBody(t *testing.T, v askRequest) *bytes.Reader {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(raw)
}

func TestHandleAsk(t *testing.T) {
	t.Run("grounded answer", func(t *testing.T) {
		env := newTestServer(t)
		req := httptest.NewRequest(http.MethodPost, "/api/meetings/m1/ask",
			askBody(t, askRequest{Question: "When is the deadline?"}))
		rec := httptest.NewRecorder()
		env.server.Handler().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp askResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Refused)
		assert.Equal(t, "The deadline moved to Friday [call.txt:1-3].", resp.Answer)
		require.Len(t, resp.Citations, 1)
		assert.Equal(t, citationResponse{File: "call.txt", LineStart: 1, LineEnd: 3}, resp.Citations[0])
	})

	t.Run("malformed body", func(t *testing.T) {
		env := newTestServer(t)
		req := httptest.NewRequest(http.MethodPost, "/api/meetings/m1/ask", strings.NewReader("{"))
		rec := httptest.NewRecorder()
		env.server.Handler().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown meeting", func(t *testing.T) {
		env := newTestServer(t)
		req := httptest.NewRequest(http.MethodPost, "/api/meetings/ghost/ask",
			askBody(t, askRequest{Question: "anything?"}))
		rec := httptest.NewRecorder()
		env.server.Handler().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("empty question", func(t *testing.T) {
		env := newTestServer(t)
		req := httptest.NewRequest(http.MethodPost, "/api/meetings/m1/ask",
			askBody(t, askRequest{Question: "   "}))
		rec := httptest.NewRecorder()
		env.server.Handler().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleAsk_Stream(t *testing.T) {
	env := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/meetings/m1/ask",
		askBody(t, askRequest{Question: "When is the deadline?", Stream: true}))
	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "event: token")
	assert.Contains(t, body, "data: The deadline ")
	assert.Contains(t, body, "event: citations")
	assert.Contains(t, body, `"file":"call.txt"`)
}

func TestAskRateLimit(t *testing.T) {
	env := newTestServer(t, WithAskRateLimit(2, time.Minute))

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/meetings/m1/ask",
			askBody(t, askRequest{Question: "When is the deadline?"}))
		req.RemoteAddr = "10.0.0.9:1234"
		rec := httptest.NewRecorder()
		env.server.Handler().ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, do().Code)
	assert.Equal(t, http.StatusOK, do().Code)

	limited := do()
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.NotEmpty(t, limited.Header().Get("Retry-After"))

	// Other endpoints stay unthrottled.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/meetings/m1", nil)
	req.RemoteAddr = "10.0.0.9:1234"
	env.server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleGetJob(t *testing.T) {
	env := newTestServer(t)

	t.Run("missing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		env.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/jobs/nope", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("found", func(t *testing.T) {
		job := &core.IngestJob{Id: "j1", State: core.JobStatePending}
		require.NoError(t, env.jobs.PutJob(context.Background(), job))

		rec := httptest.NewRecorder()
		env.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/jobs/j1", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var got jobResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "j1", got.ID)
		assert.Equal(t, "pending", got.State)
	})
}

func TestNew_Validation(t *testing.T) {
	env := newTestServer(t)
	pipeline := env.server.pipeline
	answerer := env.server.answerer

	tests := []struct {
		name string
		call func() (*Server, error)
		want error
	}{
		{"nil pipeline", func() (*Server, error) { return New(nil, answerer, env.meetings, env.jobs) }, ErrPipelineRequired},
		{"nil answerer", func() (*Server, error) { return New(pipeline, nil, env.meetings, env.jobs) }, ErrAnswererRequired},
		{"nil meetings", func() (*Server, error) { return New(pipeline, answerer, nil, env.jobs) }, ErrMeetingRepositoryRequired},
		{"nil jobs", func() (*Server, error) { return New(pipeline, answerer, env.meetings, nil) }, ErrJobRepositoryRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.call()
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("invalid rate limit", func(t *testing.T) {
		_, err := New(pipeline, answerer, env.meetings, env.jobs, WithAskRateLimit(0, time.Minute))
		assert.ErrorIs(t, err, ErrInvalidRateLimit)
	})
}

func TestFixedWindowLimiter(t *testing.T) {
	limiter := newFixedWindowLimiter(2, time.Minute)
	now := time.Unix(1000, 0)
	limiter.now = func() time.Time { return now }

	ok, _ := limiter.Allow("a")
	assert.True(t, ok)
	ok, _ = limiter.Allow("a")
	assert.True(t, ok)

	ok, retry := limiter.Allow("a")
	assert.False(t, ok)
	assert.Equal(t, time.Minute, retry)

	// Separate keys have separate windows.
	ok, _ = limiter.Allow("b")
	assert.True(t, ok)

	// The window resets wholesale at its boundary.
	now = now.Add(time.Minute)
	ok, _ = limiter.Allow("a")
	assert.True(t, ok)
}
