package transcript

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/minuted/core"
)

func TestParse(t *testing.T) {
	t.Run("two turns", func(t *testing.T) {
		turns, err := Parse(strings.NewReader("[00:00:00] Alex: Hello.\n[00:00:05] Sam: Hi there."))
		require.NoError(t, err)
		require.Len(t, turns, 2)

		assert.Equal(t, 1, turns[0].LineNo)
		assert.Equal(t, "00:00:00", turns[0].Timestamp)
		assert.Equal(t, "Alex", turns[0].Speaker)
		assert.Equal(t, "Hello.", turns[0].Text)

		assert.Equal(t, 2, turns[1].LineNo)
		assert.Equal(t, "00:00:05", turns[1].Timestamp)
		assert.Equal(t, "Sam", turns[1].Speaker)
		assert.Equal(t, "Hi there.", turns[1].Text)
	})

	t.Run("continuation line merges into previous turn", func(t *testing.T) {
		turns, err := Parse(strings.NewReader("[00:00:00] Alex: Line one\n  continuation here"))
		require.NoError(t, err)
		require.Len(t, turns, 1)

		assert.Equal(t, "Line one continuation here", turns[0].Text)
		assert.Equal(t, "[00:00:00] Alex: Line one\n  continuation here", turns[0].Raw)
		assert.Equal(t, 1, turns[0].LineNo)
	})

	t.Run("orphan line synthesizes unknown turn", func(t *testing.T) {
		turns, err := Parse(strings.NewReader("hello before any turn\n[00:00:05] Sam: Hi"))
		require.NoError(t, err)
		require.Len(t, turns, 2)

		assert.Equal(t, "00:00:00", turns[0].Timestamp)
		assert.Equal(t, "Unknown", turns[0].Speaker)
		assert.Equal(t, "hello before any turn", turns[0].Text)
		assert.Equal(t, 1, turns[0].LineNo)
	})

	t.Run("empty input", func(t *testing.T) {
		turns, err := Parse(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, turns)

		turns, err = Parse(strings.NewReader("   \n\n  "))
		require.NoError(t, err)
		assert.Empty(t, turns)
	})

	t.Run("blank lines keep source line numbers", func(t *testing.T) {
		turns, err := Parse(strings.NewReader("[00:00:00] Alex: one\n\n[00:00:05] Sam: two"))
		require.NoError(t, err)
		require.Len(t, turns, 2)

		assert.Equal(t, 1, turns[0].LineNo)
		assert.Equal(t, 3, turns[1].LineNo)
	})

	t.Run("overlong speaker treated as continuation", func(t *testing.T) {
		speaker := strings.Repeat("a", 61)
		turns, err := Parse(strings.NewReader("[00:00:00] Alex: hi\n[00:00:05] " + speaker + ": text"))
		require.NoError(t, err)
		require.Len(t, turns, 1)
		assert.Contains(t, turns[0].Text, speaker)
	})
}

func TestTurnLine(t *testing.T) {
	matches := []string{
		"[00:00:00] Alex: Hello world",
		"[01:23:45] Speaker Name: Some text here",
	}
	for _, line := range matches {
		assert.True(t, TurnLine.MatchString(line), "expected match: %q", line)
	}

	rejects := []string{
		"plain text",
		"[00:00:00] No colon",
		"[00:00] Alex: Short timestamp",
	}
	for _, line := range rejects {
		assert.False(t, TurnLine.MatchString(line), "expected no match: %q", line)
	}
}

func TestParseReader_Streaming(t *testing.T) {
	input := "[00:00:00] Alex: one\n[00:00:05] Sam: two\n[00:00:10] Alex: three"

	var seen []string
	err := ParseReader(strings.NewReader(input), func(turn core.Turn) error {
		seen = append(seen, turn.Text)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"}, seen)
}

func TestParseReader_EmitError(t *testing.T) {
	wantErr := errors.New("stop")
	calls := 0

	err := ParseReader(strings.NewReader("[00:00:00] Alex: one\n[00:00:05] Sam: two"), func(core.Turn) error {
		calls++
		return wantErr
	})

	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 1, calls)
}

func TestHasTurnLine(t *testing.T) {
	assert.True(t, HasTurnLine(strings.NewReader("[00:00:00] Alex: Hello")))
	assert.True(t, HasTurnLine(strings.NewReader("junk\n[00:00:00] A: x\nmore")))

	assert.False(t, HasTurnLine(strings.NewReader("")))
	assert.False(t, HasTurnLine(strings.NewReader("no timestamp here")))
	assert.False(t, HasTurnLine(strings.NewReader("  \n  ")))
}
