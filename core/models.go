package core

//go:generate go run ../cmd/musgen

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/google/uuid"
)

// PointNamespace is the fixed UUID namespace for deriving vector-store
// point IDs from chunk IDs.
var PointNamespace = uuid.MustParse("12345678-1234-5678-1234-567812345678")

// Turn is a single speaker utterance extracted from raw transcript text.
// Continuation lines are merged into the turn that precedes them, so a
// turn's Raw may span several source lines while LineNo stays the line
// the turn started on.
type Turn struct {
	LineNo    int    // 1-based source line the turn starts on
	Timestamp string // HH:MM:SS as written in the transcript
	Speaker   string
	Text      string // space-joined utterance text
	Raw       string // newline-joined original line(s)
}

// Chunk is a contiguous group of turns treated as one retrievable,
// citable unit. Chunks are created once by the chunker and never
// modified afterwards.
type Chunk struct {
	MeetingID    string
	File         string
	Index        int // 1-based position in the file's chunk stream
	Text         string
	LineStart    int
	LineEnd      int
	TimeStart    string
	TimeEnd      string
	TimeStartSec int
	TimeEndSec   int
	Speakers     []string // sorted distinct speaker names
}

// ChunkID returns the content-addressed identity of the chunk. Identical
// meeting, file and position always produce the same ID, which is what
// makes re-indexing idempotent.
func (c *Chunk) ChunkID() string {
	return fmt.Sprintf("%s:%s:%d", c.MeetingID, c.File, c.Index)
}

// PointID derives the deterministic vector-store point ID for a chunk ID
// (UUIDv5 in the fixed namespace). Re-indexing the same chunk overwrites
// its point instead of creating a duplicate.
func PointID(chunkID string) string {
	return uuid.NewSHA1(PointNamespace, []byte(chunkID)).String()
}

// SparseVector is a hashed bag-of-words vector. Indices and Values are
// parallel slices; doc-mode encoding keeps Indices sorted ascending.
type SparseVector struct {
	Indices []uint32
	Values  []float32
}

// IndexedPoint is one vector-store record: a chunk together with its
// dense and sparse vectors, keyed by the content-derived point ID.
type IndexedPoint struct {
	ID     string
	Dense  []float32
	Sparse SparseVector
	Chunk  Chunk
}

// RetrievedChunk is a chunk as returned by retrieval, with the payload
// read back from the vector store and the fused relevance score. It lives
// only for the duration of one request.
type RetrievedChunk struct {
	ChunkID      string
	MeetingID    string
	File         string
	Text         string
	LineStart    int
	LineEnd      int
	TimeStart    string
	TimeEnd      string
	TimeStartSec int
	TimeEndSec   int
	Speakers     []string
	Score        float32
}

// SourceRange is a 1-based inclusive line span within a transcript file.
// Retrieval produces them as evidence; the generator claims them as
// citations; the guardrail only lets citations through that overlap
// evidence on the same file.
type SourceRange struct {
	File      string
	LineStart int
	LineEnd   int
}

// SpeakerStat summarizes one speaker's participation in a meeting.
// DurationSec is floor time: the span from each of the speaker's turns
// until the next turn, summed.
type SpeakerStat struct {
	Name        string
	Turns       int
	Words       int
	DurationSec int
}

// MeetingStats summarizes an indexed meeting. Computed in the same pass
// as chunking, so it reflects exactly what was indexed. Speakers are
// sorted most-participating first (duration, then turns, then words).
type MeetingStats struct {
	TurnCount      int
	ChunkCount     int
	WordCount      int
	DurationSec    int // last timestamp minus first timestamp
	FirstTimestamp string
	LastTimestamp  string
	Speakers       []SpeakerStat
}

// Meeting is the registry record for an uploaded meeting.
type Meeting struct {
	Id          string
	Title       string
	Files       []string
	ContentHash string
	CreatedAt   time.Time
	Stats       MeetingStats
}

// JobState tracks an ingest job through its lifecycle.
type JobState int

const (
	JobStatePending JobState = iota + 1
	JobStateRunning
	JobStateDone
	JobStateFailed
)

func (s JobState) String() string {
	switch s {
	case JobStatePending:
		return "pending"
	case JobStateRunning:
		return "running"
	case JobStateDone:
		return "done"
	case JobStateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IngestJob records one asynchronous ingest run for a meeting.
type IngestJob struct {
	Id         string
	MeetingID  string
	State      JobState
	Error      string
	ChunkCount int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AskRecord is one remembered question/answer exchange, kept per meeting
// so follow-up questions can be resolved against recent context.
type AskRecord struct {
	Question string
	Answer   string
	AskedAt  time.Time
}

// ContentHash produces a deterministic digest of an uploaded file set
// using BLAKE2b. Files are hashed in order with a zero-byte separator,
// so the same contents always hash the same and reordered or split
// content does not.
func ContentHash(files [][]byte) string {
	h, _ := blake2b.New(32, nil)
	for i, f := range files {
		if i > 0 {
			h.Write([]byte{0})
		}
		h.Write(f)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// NewMeetingID returns a fresh random meeting identifier.
func NewMeetingID() string {
	return uuid.NewString()
}

// NewJobID returns a fresh random job identifier.
func NewJobID() string {
	return uuid.NewString()
}
