package transcript

import (
	"fmt"
	"sort"
	"strings"

	"github.com/poiesic/minuted/core"
)

// DefaultTurnsPerChunk is the chunk quota used when no option overrides it.
const DefaultTurnsPerChunk = 8

// Chunker groups an ordered turn stream into fixed-size chunks. It holds
// at most one chunk's worth of turns; Add returns a completed chunk as
// soon as the quota fills, and Flush drains the final partial chunk.
// A Chunker is bound to one meeting file and is not safe for concurrent
// use.
type Chunker struct {
	meetingID string
	file      string
	quota     int
	index     int
	buf       []core.Turn
}

// ChunkerOption configures a Chunker.
type ChunkerOption func(*Chunker) error

// WithTurnsPerChunk sets the chunk quota. Default is DefaultTurnsPerChunk.
func WithTurnsPerChunk(n int) ChunkerOption {
	return func(c *Chunker) error {
		if n < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidTurnsPerChunk, n)
		}
		c.quota = n
		return nil
	}
}

// NewChunker creates a chunker for one transcript file of a meeting.
func NewChunker(meetingID, file string, opts ...ChunkerOption) (*Chunker, error) {
	if err := core.ValidateMeetingID(meetingID); err != nil {
		return nil, err
	}
	if err := core.ValidateFileName(file); err != nil {
		return nil, err
	}

	c := &Chunker{
		meetingID: meetingID,
		file:      file,
		quota:     DefaultTurnsPerChunk,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Add buffers one turn and returns the completed chunk when the quota
// fills, nil otherwise.
func (c *Chunker) Add(turn core.Turn) *core.Chunk {
	c.buf = append(c.buf, turn)
	if len(c.buf) >= c.quota {
		return c.flush()
	}
	return nil
}

// Flush returns the final partial chunk, or nil when no turns are
// buffered. The chunker can keep being used afterwards; indices continue
// from where they left off.
func (c *Chunker) Flush() *core.Chunk {
	return c.flush()
}

func (c *Chunker) flush() *core.Chunk {
	if len(c.buf) == 0 {
		return nil
	}

	c.index++

	first := c.buf[0]
	last := c.buf[len(c.buf)-1]

	distinct := make(map[string]struct{}, len(c.buf))
	lines := make([]string, len(c.buf))
	for i, t := range c.buf {
		distinct[t.Speaker] = struct{}{}
		lines[i] = fmt.Sprintf("[%s] %s: %s", t.Timestamp, t.Speaker, t.Text)
	}

	speakers := make([]string, 0, len(distinct))
	for s := range distinct {
		speakers = append(speakers, s)
	}
	sort.Strings(speakers)

	chunk := &core.Chunk{
		MeetingID:    c.meetingID,
		File:         c.file,
		Index:        c.index,
		Text:         strings.TrimSpace(strings.Join(lines, "\n")),
		LineStart:    first.LineNo,
		LineEnd:      last.LineNo,
		TimeStart:    first.Timestamp,
		TimeEnd:      last.Timestamp,
		TimeStartSec: TimestampSeconds(first.Timestamp),
		TimeEndSec:   TimestampSeconds(last.Timestamp),
		Speakers:     speakers,
	}

	c.buf = c.buf[:0]
	return chunk
}

// ChunkTurns chunks an in-memory turn slice: the batch form of feeding
// every turn through Add and then Flush. Zero turns yield zero chunks.
func ChunkTurns(meetingID, file string, turns []core.Turn, opts ...ChunkerOption) ([]core.Chunk, error) {
	c, err := NewChunker(meetingID, file, opts...)
	if err != nil {
		return nil, err
	}

	var chunks []core.Chunk
	for _, t := range turns {
		if ch := c.Add(t); ch != nil {
			chunks = append(chunks, *ch)
		}
	}
	if ch := c.Flush(); ch != nil {
		chunks = append(chunks, *ch)
	}
	return chunks, nil
}
