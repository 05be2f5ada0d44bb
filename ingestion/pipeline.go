package ingestion

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/minuted/ai"
	"github.com/poiesic/minuted/core"
	"github.com/poiesic/minuted/storage"
	"github.com/poiesic/minuted/transcript"
)

// File is one uploaded transcript file.
type File struct {
	Name    string
	Content []byte
}

// Result reports the outcome of an ingest run. Duplicate is set when the
// uploaded content matched an already-indexed meeting, in which case
// Meeting is the existing record and nothing was re-indexed.
type Result struct {
	Meeting   *core.Meeting
	Duplicate bool
}

// Pipeline orchestrates meeting ingestion: parse, chunk, embed, upsert,
// stats, and the meeting/job records around it. Synchronous ingestion runs
// on the caller's goroutine; async jobs run on a bounded worker pool.
type Pipeline struct {
	meetings      storage.MeetingRepository
	jobs          storage.JobRepository
	index         storage.VectorIndex
	provider      ai.AIProvider
	pool          *ants.Pool
	turnsPerChunk int
	batchSize     int
	logger        *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for async ingest jobs.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithTurnsPerChunk sets the chunk quota used when splitting transcripts.
// Default is transcript.DefaultTurnsPerChunk.
func WithTurnsPerChunk(n int) Option {
	return func(p *Pipeline) error {
		if n < 1 {
			return fmt.Errorf("%w: %d", transcript.ErrInvalidTurnsPerChunk, n)
		}
		p.turnsPerChunk = n
		return nil
	}
}

// WithBatchSize sets how many chunks are embedded and upserted per batch.
// Default is DefaultBatchSize.
func WithBatchSize(n int) Option {
	return func(p *Pipeline) error {
		if n < 1 {
			n = DefaultBatchSize
		}
		p.batchSize = n
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	meetings storage.MeetingRepository,
	jobs storage.JobRepository,
	index storage.VectorIndex,
	provider ai.AIProvider,
	opts ...Option,
) (*Pipeline, error) {
	if meetings == nil {
		return nil, ErrMeetingRepositoryRequired
	}
	if jobs == nil {
		return nil, ErrJobRepositoryRequired
	}
	if index == nil {
		return nil, ErrVectorIndexRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		meetings:      meetings,
		jobs:          jobs,
		index:         index,
		provider:      provider,
		pool:          pool,
		turnsPerChunk: transcript.DefaultTurnsPerChunk,
		batchSize:     DefaultBatchSize,
		logger:        slog.Default().With("component", "ingest-pipeline"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Ingest indexes an uploaded meeting synchronously. If the uploaded
// content hashes to an already-indexed meeting, the existing record is
// returned with Duplicate set and nothing is re-indexed.
func (p *Pipeline) Ingest(ctx context.Context, title string, files []File) (*Result, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	// Reject uploads with no recognizable turn line before any work
	contents := make([][]byte, len(files))
	for i, file := range files {
		if err := core.ValidateFileName(file.Name); err != nil {
			return nil, err
		}
		if !transcript.HasTurnLine(bytes.NewReader(file.Content)) {
			return nil, transcript.ErrNotTranscript
		}
		contents[i] = file.Content
	}

	hash := core.ContentHash(contents)
	existing, err := p.meetings.FindMeetingByContentHash(ctx, hash)
	if err == nil {
		p.logger.Info("duplicate upload", "meeting", existing.Id, "hash", hash)
		return &Result{Meeting: existing, Duplicate: true}, nil
	}
	if err != storage.ErrNotFound {
		return nil, err
	}

	meetingID := core.NewMeetingID()
	indexer := NewIndexer(p.index, newBatchEmbedder(p.provider.Embedder(), p.logger), p.batchSize, p.logger)

	var allTurns []core.Turn
	fileNames := make([]string, len(files))

	for i, file := range files {
		fileNames[i] = file.Name

		chunker, err := transcript.NewChunker(meetingID, file.Name, transcript.WithTurnsPerChunk(p.turnsPerChunk))
		if err != nil {
			return nil, err
		}

		err = transcript.ParseReader(bytes.NewReader(file.Content), func(turn core.Turn) error {
			allTurns = append(allTurns, turn)
			if chunk := chunker.Add(turn); chunk != nil {
				return indexer.Add(ctx, *chunk)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}

		if chunk := chunker.Flush(); chunk != nil {
			if err := indexer.Add(ctx, *chunk); err != nil {
				return nil, err
			}
		}
	}

	if err := indexer.Flush(ctx); err != nil {
		return nil, err
	}

	stats := transcript.ComputeStats(allTurns)
	stats.ChunkCount = indexer.Total()

	meeting := &core.Meeting{
		Id:          meetingID,
		Title:       title,
		Files:       fileNames,
		ContentHash: hash,
		CreatedAt:   time.Now().UTC(),
		Stats:       stats,
	}

	if err := p.meetings.PutMeeting(ctx, meeting); err != nil {
		return nil, err
	}

	p.logger.Info("meeting indexed",
		"meeting", meetingID,
		"files", len(files),
		"turns", stats.TurnCount,
		"chunks", stats.ChunkCount)

	return &Result{Meeting: meeting}, nil
}

// IngestAsync enqueues an ingest job on the worker pool and returns it in
// the pending state. Job state moves to running, then done or failed with
// the error captured on the record. Poll JobRepository.GetJob for progress.
func (p *Pipeline) IngestAsync(ctx context.Context, title string, files []File) (*core.IngestJob, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	job := &core.IngestJob{
		Id:    core.NewJobID(),
		State: core.JobStatePending,
	}
	if err := p.jobs.PutJob(ctx, job); err != nil {
		return nil, err
	}

	submitted := *job
	err := p.pool.Submit(func() {
		// The upload request that spawned the job may be gone by now.
		jobCtx := context.Background()

		submitted.State = core.JobStateRunning
		if err := p.jobs.PutJob(jobCtx, &submitted); err != nil {
			p.logger.Error("error updating job state", "job", submitted.Id, "err", err)
		}

		result, err := p.Ingest(jobCtx, title, files)
		if err != nil {
			submitted.State = core.JobStateFailed
			submitted.Error = err.Error()
		} else {
			submitted.State = core.JobStateDone
			submitted.MeetingID = result.Meeting.Id
			submitted.ChunkCount = result.Meeting.Stats.ChunkCount
		}

		if err := p.jobs.PutJob(jobCtx, &submitted); err != nil {
			p.logger.Error("error updating job state", "job", submitted.Id, "err", err)
		}
	})
	if err != nil {
		job.State = core.JobStateFailed
		job.Error = err.Error()
		if putErr := p.jobs.PutJob(ctx, job); putErr != nil {
			p.logger.Error("error updating job state", "job", job.Id, "err", putErr)
		}
		return nil, err
	}

	return job, nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
