package storage

import (
	"testing"
	"time"

	"github.com/poiesic/minuted/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalMeeting(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name    string
		meeting *core.Meeting
	}{
		{
			name: "minimal meeting",
			meeting: &core.Meeting{
				Id:          "mtg-1",
				Title:       "Standup",
				Files:       []string{"standup.txt"},
				ContentHash: "abc123",
				CreatedAt:   now,
			},
		},
		{
			name: "meeting with stats",
			meeting: &core.Meeting{
				Id:          "mtg-2",
				Title:       "Q3 Planning",
				Files:       []string{"part1.txt", "part2.txt"},
				ContentHash: "def456",
				CreatedAt:   now,
				Stats: core.MeetingStats{
					TurnCount:  128,
					ChunkCount: 16,
					Speakers: []core.SpeakerStat{
						{Name: "Alice", Turns: 70},
						{Name: "Bob", Turns: 58},
					},
					FirstTimestamp: "00:00:05",
					LastTimestamp:  "00:48:12",
				},
			},
		},
		{
			name: "unicode title",
			meeting: &core.Meeting{
				Id:          "mtg-3",
				Title:       "Réunion générale 会議",
				Files:       []string{"réunion.txt"},
				ContentHash: "fed789",
				CreatedAt:   now,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalMeeting(tt.meeting)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalMeeting(data)
			require.NoError(t, err)
			require.NotNil(t, decoded)

			assert.Equal(t, tt.meeting.Id, decoded.Id)
			assert.Equal(t, tt.meeting.Title, decoded.Title)
			assert.Equal(t, tt.meeting.Files, decoded.Files)
			assert.Equal(t, tt.meeting.ContentHash, decoded.ContentHash)
			assert.True(t, tt.meeting.CreatedAt.Equal(decoded.CreatedAt))
			assert.Equal(t, tt.meeting.Stats.TurnCount, decoded.Stats.TurnCount)
			assert.Equal(t, tt.meeting.Stats.ChunkCount, decoded.Stats.ChunkCount)
			if len(tt.meeting.Stats.Speakers) == 0 {
				assert.Empty(t, decoded.Stats.Speakers)
			} else {
				assert.Equal(t, tt.meeting.Stats.Speakers, decoded.Stats.Speakers)
			}
		})
	}
}

func TestUnmarshalMeeting_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"invalid data", []byte{0xFF, 0xFF, 0xFF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalMeeting(tt.data)
			assert.Error(t, err)
		})
	}
}

func TestMarshalUnmarshalIngestJob(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	job := &core.IngestJob{
		Id:        "job-1",
		MeetingID: "mtg-1",
		State:     core.JobStateRunning,
		Error:     "",
		CreatedAt: now,
		UpdatedAt: now,
	}

	data := MarshalIngestJob(job)
	require.NotEmpty(t, data)

	decoded, err := UnmarshalIngestJob(data)
	require.NoError(t, err)
	assert.Equal(t, job.Id, decoded.Id)
	assert.Equal(t, job.MeetingID, decoded.MeetingID)
	assert.Equal(t, job.State, decoded.State)
	assert.True(t, job.CreatedAt.Equal(decoded.CreatedAt))

	t.Run("failed job carries error", func(t *testing.T) {
		failed := &core.IngestJob{
			Id:        "job-2",
			MeetingID: "mtg-1",
			State:     core.JobStateFailed,
			Error:     "embedding service unavailable",
			CreatedAt: now,
			UpdatedAt: now,
		}
		decoded, err := UnmarshalIngestJob(MarshalIngestJob(failed))
		require.NoError(t, err)
		assert.Equal(t, core.JobStateFailed, decoded.State)
		assert.Equal(t, failed.Error, decoded.Error)
	})
}

func TestMarshalUnmarshalAskRecord(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	record := &core.AskRecord{
		Question: "Who owns the database migration?",
		Answer:   "Priya owns the migration [notes.txt:12-19].",
		AskedAt:  now,
	}

	data := MarshalAskRecord(record)
	require.NotEmpty(t, data)

	decoded, err := UnmarshalAskRecord(data)
	require.NoError(t, err)
	assert.Equal(t, record.Question, decoded.Question)
	assert.Equal(t, record.Answer, decoded.Answer)
	assert.True(t, record.AskedAt.Equal(decoded.AskedAt))
}

func TestRoundTripConsistency(t *testing.T) {
	t.Run("multiple marshal-unmarshal cycles", func(t *testing.T) {
		now := time.Now().UTC().Truncate(time.Microsecond)
		original := &core.Meeting{
			Id:          "mtg-cycle",
			Title:       "Retro",
			Files:       []string{"retro.txt"},
			ContentHash: "0011ff",
			CreatedAt:   now,
			Stats: core.MeetingStats{
				TurnCount:  12,
				ChunkCount: 2,
				Speakers:   []core.SpeakerStat{{Name: "Dana", Turns: 12}},
			},
		}

		// Perform 3 marshal-unmarshal cycles
		current := original
		for i := 0; i < 3; i++ {
			data := MarshalMeeting(current)
			decoded, err := UnmarshalMeeting(data)
			require.NoError(t, err)
			current = decoded
		}

		assert.Equal(t, original.Id, current.Id)
		assert.Equal(t, original.Title, current.Title)
		assert.Equal(t, original.Files, current.Files)
		assert.Equal(t, original.Stats.Speakers, current.Stats.Speakers)
	})
}
