package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/minuted/core"
)

func TestComputeStats(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		stats := ComputeStats(nil)
		assert.Zero(t, stats.TurnCount)
		assert.Zero(t, stats.DurationSec)
		assert.Equal(t, "00:00:00", stats.FirstTimestamp)
		assert.Equal(t, "00:00:00", stats.LastTimestamp)
		assert.Empty(t, stats.Speakers)
	})

	t.Run("participation and floor time", func(t *testing.T) {
		turns := []core.Turn{
			{LineNo: 1, Timestamp: "00:00:00", Speaker: "Alice", Text: "one two three"},
			{LineNo: 2, Timestamp: "00:00:30", Speaker: "Bob", Text: "four"},
			{LineNo: 3, Timestamp: "00:00:40", Speaker: "Alice", Text: "five six"},
			{LineNo: 4, Timestamp: "00:01:00", Speaker: "Bob", Text: "seven"},
		}

		stats := ComputeStats(turns)

		assert.Equal(t, 4, stats.TurnCount)
		assert.Equal(t, 7, stats.WordCount)
		assert.Equal(t, 60, stats.DurationSec)
		assert.Equal(t, "00:00:00", stats.FirstTimestamp)
		assert.Equal(t, "00:01:00", stats.LastTimestamp)

		require.Len(t, stats.Speakers, 2)

		// Alice held the floor 0:00-0:30 and 0:40-1:00, Bob 0:30-0:40
		// and nothing after the final turn.
		assert.Equal(t, "Alice", stats.Speakers[0].Name)
		assert.Equal(t, 50, stats.Speakers[0].DurationSec)
		assert.Equal(t, 2, stats.Speakers[0].Turns)
		assert.Equal(t, 5, stats.Speakers[0].Words)

		assert.Equal(t, "Bob", stats.Speakers[1].Name)
		assert.Equal(t, 10, stats.Speakers[1].DurationSec)
	})

	t.Run("blank speaker counts as Unknown", func(t *testing.T) {
		turns := []core.Turn{
			{LineNo: 1, Timestamp: "00:00:00", Speaker: "  ", Text: "hello"},
		}
		stats := ComputeStats(turns)
		require.Len(t, stats.Speakers, 1)
		assert.Equal(t, "Unknown", stats.Speakers[0].Name)
	})

	t.Run("out of order turns are sorted by time", func(t *testing.T) {
		turns := []core.Turn{
			{LineNo: 1, Timestamp: "00:01:00", Speaker: "Bob", Text: "later"},
			{LineNo: 2, Timestamp: "00:00:00", Speaker: "Alice", Text: "earlier"},
		}
		stats := ComputeStats(turns)
		assert.Equal(t, "00:00:00", stats.FirstTimestamp)
		assert.Equal(t, "00:01:00", stats.LastTimestamp)
		assert.Equal(t, 60, stats.DurationSec)
	})
}

func TestFormatOverview(t *testing.T) {
	t.Run("empty stats", func(t *testing.T) {
		assert.Empty(t, FormatOverview(core.MeetingStats{}))
	})

	t.Run("renders duration and participation", func(t *testing.T) {
		stats := core.MeetingStats{
			TurnCount:   4,
			DurationSec: 90,
			Speakers: []core.SpeakerStat{
				{Name: "Alice", Turns: 3, DurationSec: 80},
				{Name: "Bob", Turns: 1, DurationSec: 10},
			},
		}

		out := FormatOverview(stats)
		assert.Contains(t, out, "Total call duration: 1:30")
		assert.Contains(t, out, "Who talked the most: Alice. Who talked the least: Bob.")
		assert.Contains(t, out, "Alice (1:20, 3 turns)")
	})
}
