package core

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateMeetingID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr error
	}{
		{
			name:    "valid id",
			id:      "weekly-sync-2026-08",
			wantErr: nil,
		},
		{
			name:    "uuid id",
			id:      "b7f9d1d2-8a4e-4f0e-9a2f-0c1d2e3f4a5b",
			wantErr: nil,
		},
		{
			name:    "empty id",
			id:      "",
			wantErr: ErrEmptyMeetingID,
		},
		{
			name:    "too long",
			id:      strings.Repeat("x", MaxMeetingIDLen+1),
			wantErr: ErrMeetingIDTooLong,
		},
		{
			name:    "contains space",
			id:      "weekly sync",
			wantErr: ErrInvalidMeeting,
		},
		{
			name:    "contains newline",
			id:      "weekly\nsync",
			wantErr: ErrInvalidMeeting,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMeetingID(tt.id)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateMeetingID() unexpected error: %v", err)
				}
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateMeetingID() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateChunk(t *testing.T) {
	valid := func() *Chunk {
		return &Chunk{
			MeetingID: "m1",
			File:      "standup.txt",
			Index:     1,
			Text:      "[00:00:00] Alex: Hello.",
			LineStart: 1,
			LineEnd:   1,
			Speakers:  []string{"Alex"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Chunk)
		chunk   *Chunk
		wantErr error
	}{
		{
			name:    "valid chunk",
			mutate:  func(c *Chunk) {},
			wantErr: nil,
		},
		{
			name:    "nil chunk",
			chunk:   nil,
			wantErr: ErrInvalidChunk,
		},
		{
			name:    "empty meeting id",
			mutate:  func(c *Chunk) { c.MeetingID = "" },
			wantErr: ErrEmptyMeetingID,
		},
		{
			name:    "empty file",
			mutate:  func(c *Chunk) { c.File = "  " },
			wantErr: ErrEmptyFileName,
		},
		{
			name:    "zero index",
			mutate:  func(c *Chunk) { c.Index = 0 },
			wantErr: ErrInvalidChunk,
		},
		{
			name:    "empty text",
			mutate:  func(c *Chunk) { c.Text = "" },
			wantErr: ErrEmptyChunkText,
		},
		{
			name:    "line start before 1",
			mutate:  func(c *Chunk) { c.LineStart = 0 },
			wantErr: ErrInvalidLineRange,
		},
		{
			name:    "line end before line start",
			mutate:  func(c *Chunk) { c.LineStart = 5; c.LineEnd = 3 },
			wantErr: ErrInvalidLineRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunk := tt.chunk
			if tt.mutate != nil {
				chunk = valid()
				tt.mutate(chunk)
			}

			err := ValidateChunk(chunk)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateChunk() unexpected error: %v", err)
				}
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateChunk() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateQuestion(t *testing.T) {
	tests := []struct {
		name     string
		question string
		wantErr  error
	}{
		{
			name:     "valid question",
			question: "What did Alex decide about the rollout?",
			wantErr:  nil,
		},
		{
			name:     "empty",
			question: "",
			wantErr:  ErrEmptyQuestion,
		},
		{
			name:     "whitespace only",
			question: "   \t  ",
			wantErr:  ErrEmptyQuestion,
		},
		{
			name:     "too long",
			question: strings.Repeat("why ", MaxQuestionLen/2),
			wantErr:  ErrQuestionTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuestion(tt.question)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateQuestion() unexpected error: %v", err)
				}
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateQuestion() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
