package storage

import (
	"context"

	"github.com/poiesic/minuted/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// MeetingRepository provides operations for managing indexed meetings.
type MeetingRepository interface {
	Repository
	// PutMeeting stores or replaces a meeting record.
	// Also maintains the content-hash index used for duplicate detection.
	PutMeeting(ctx context.Context, meeting *core.Meeting) error

	// GetMeeting retrieves a single meeting by ID.
	// Returns ErrNotFound if the meeting doesn't exist.
	GetMeeting(ctx context.Context, id string) (*core.Meeting, error)

	// FindMeetingByContentHash finds a meeting whose transcript content hash
	// matches. Used to detect re-submission of identical material.
	// Returns ErrNotFound if no matching meeting exists.
	FindMeetingByContentHash(ctx context.Context, hash string) (*core.Meeting, error)

	// ListMeetings returns all stored meetings ordered by creation time,
	// newest first.
	ListMeetings(ctx context.Context) ([]*core.Meeting, error)
}

// JobRepository provides operations for tracking async ingestion jobs.
type JobRepository interface {
	Repository
	// PutJob stores or replaces a job record.
	PutJob(ctx context.Context, job *core.IngestJob) error

	// GetJob retrieves a job by ID.
	// Returns ErrNotFound if the job doesn't exist.
	GetJob(ctx context.Context, id string) (*core.IngestJob, error)
}

// AskMemoryRepository provides per-meeting question/answer history used for
// follow-up question rewriting. The history is bounded: when the cap is
// reached the oldest entries are evicted.
type AskMemoryRepository interface {
	Repository
	// AppendAsk records a question/answer exchange for a meeting.
	AppendAsk(ctx context.Context, meetingID string, record *core.AskRecord) error

	// RecentAsks returns up to limit of the most recent exchanges for a
	// meeting, oldest first.
	RecentAsks(ctx context.Context, meetingID string, limit int) ([]*core.AskRecord, error)
}

// VectorIndex provides hybrid dense+sparse vector storage and retrieval for
// transcript chunks. Implementations must be thread-safe.
type VectorIndex interface {
	// EnsureCollection creates the chunk collection if it doesn't already
	// exist. denseDim is the dimensionality of the dense vectors.
	EnsureCollection(ctx context.Context, denseDim int) error

	// UpsertPoints writes points to the collection. Re-upserting a point
	// with the same ID overwrites it.
	UpsertPoints(ctx context.Context, points []core.IndexedPoint) error

	// QueryHybrid runs a fused dense+sparse query scoped to one meeting and
	// returns up to limit chunks ordered by fused score, best first.
	QueryHybrid(ctx context.Context, meetingID string, dense []float32, sparse core.SparseVector, limit int) ([]core.RetrievedChunk, error)

	// QueryTimeWindow returns chunks of a meeting whose time span contains
	// the given second, up to limit. Chunks without time metadata are not
	// matched.
	QueryTimeWindow(ctx context.Context, meetingID string, second int, limit int) ([]core.RetrievedChunk, error)

	// ScrollMeeting returns up to limit chunks of a meeting without
	// scoring, in storage order. Used as a fallback when payloads predate
	// time metadata.
	ScrollMeeting(ctx context.Context, meetingID string, limit int) ([]core.RetrievedChunk, error)

	// Close releases resources held by the index client.
	Close() error
}
