package transcript

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/minuted/core"
)

func makeTurns(n int) []core.Turn {
	turns := make([]core.Turn, n)
	for i := range turns {
		turns[i] = core.Turn{
			LineNo:    i + 1,
			Timestamp: fmt.Sprintf("00:%02d:%02d", i/60, i%60),
			Speaker:   fmt.Sprintf("Speaker%d", i%3),
			Text:      fmt.Sprintf("utterance %d", i),
		}
	}
	return turns
}

func TestChunkTurns(t *testing.T) {
	t.Run("ceil split across quota", func(t *testing.T) {
		chunks, err := ChunkTurns("m1", "standup.txt", makeTurns(20))
		require.NoError(t, err)
		require.Len(t, chunks, 3) // ceil(20/8)

		assert.Equal(t, 1, chunks[0].LineStart)
		assert.Equal(t, 8, chunks[0].LineEnd)
		assert.Equal(t, 9, chunks[1].LineStart)
		assert.Equal(t, 16, chunks[1].LineEnd)
		assert.Equal(t, 17, chunks[2].LineStart)
		assert.Equal(t, 20, chunks[2].LineEnd)

		for i, c := range chunks {
			assert.LessOrEqual(t, c.LineStart, c.LineEnd)
			assert.Equal(t, i+1, c.Index)
			assert.Equal(t, fmt.Sprintf("m1:standup.txt:%d", i+1), c.ChunkID())
		}
	})

	t.Run("single chunk under quota", func(t *testing.T) {
		turns, err := Parse(strings.NewReader("[00:00:00] Alex: Hello.\n[00:00:05] Sam: Hi there."))
		require.NoError(t, err)

		chunks, err := ChunkTurns("m1", "standup.txt", turns)
		require.NoError(t, err)
		require.Len(t, chunks, 1)

		c := chunks[0]
		assert.Equal(t, 1, c.LineStart)
		assert.Equal(t, 2, c.LineEnd)
		assert.Equal(t, []string{"Alex", "Sam"}, c.Speakers)
		assert.Equal(t, "00:00:00", c.TimeStart)
		assert.Equal(t, "00:00:05", c.TimeEnd)
		assert.Equal(t, 0, c.TimeStartSec)
		assert.Equal(t, 5, c.TimeEndSec)
		assert.Equal(t, "[00:00:00] Alex: Hello.\n[00:00:05] Sam: Hi there.", c.Text)
	})

	t.Run("zero turns yield zero chunks", func(t *testing.T) {
		chunks, err := ChunkTurns("m1", "standup.txt", nil)
		require.NoError(t, err)
		assert.Empty(t, chunks)
	})

	t.Run("text is exactly the formatted turn lines", func(t *testing.T) {
		turns := makeTurns(3)
		chunks, err := ChunkTurns("m1", "standup.txt", turns, WithTurnsPerChunk(2))
		require.NoError(t, err)
		require.Len(t, chunks, 2)

		want := fmt.Sprintf("[%s] %s: %s\n[%s] %s: %s",
			turns[0].Timestamp, turns[0].Speaker, turns[0].Text,
			turns[1].Timestamp, turns[1].Speaker, turns[1].Text)
		assert.Equal(t, want, chunks[0].Text)
	})

	t.Run("speakers sorted distinct", func(t *testing.T) {
		turns := []core.Turn{
			{LineNo: 1, Timestamp: "00:00:00", Speaker: "Zoe", Text: "a"},
			{LineNo: 2, Timestamp: "00:00:01", Speaker: "Alex", Text: "b"},
			{LineNo: 3, Timestamp: "00:00:02", Speaker: "Zoe", Text: "c"},
		}
		chunks, err := ChunkTurns("m1", "f.txt", turns)
		require.NoError(t, err)
		require.Len(t, chunks, 1)
		assert.Equal(t, []string{"Alex", "Zoe"}, chunks[0].Speakers)
	})
}

func TestChunker_Streaming(t *testing.T) {
	c, err := NewChunker("m1", "standup.txt", WithTurnsPerChunk(2))
	require.NoError(t, err)

	turns := makeTurns(5)

	var chunks []*core.Chunk
	for _, turn := range turns {
		if ch := c.Add(turn); ch != nil {
			chunks = append(chunks, ch)
		}
	}
	require.Len(t, chunks, 2, "quota chunks emitted as soon as they fill")

	final := c.Flush()
	require.NotNil(t, final)
	chunks = append(chunks, final)

	assert.Equal(t, 3, final.Index)
	assert.Equal(t, 5, final.LineStart)
	assert.Equal(t, 5, final.LineEnd)

	assert.Nil(t, c.Flush(), "flush on empty buffer yields nothing")

	for _, ch := range chunks {
		require.NoError(t, core.ValidateChunk(ch))
	}
}

func TestNewChunker_Invalid(t *testing.T) {
	_, err := NewChunker("m1", "f.txt", WithTurnsPerChunk(0))
	assert.ErrorIs(t, err, ErrInvalidTurnsPerChunk)

	_, err = NewChunker("", "f.txt")
	assert.ErrorIs(t, err, core.ErrEmptyMeetingID)

	_, err = NewChunker("m1", "  ")
	assert.ErrorIs(t, err, core.ErrEmptyFileName)
}
