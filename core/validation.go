// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	// MaxMeetingIDLen bounds meeting identifiers so they stay usable as
	// chunk ID components and storage keys.
	MaxMeetingIDLen = 128

	// MaxQuestionLen bounds ask questions before they reach retrieval.
	MaxQuestionLen = 2000
)

// ValidateMeetingID validates a meeting identifier.
//
// Validation rules:
//   - must not be empty
//   - must not exceed MaxMeetingIDLen
//   - must not contain whitespace or control characters
func ValidateMeetingID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMeeting, ErrEmptyMeetingID)
	}

	if len(id) > MaxMeetingIDLen {
		return fmt.Errorf("%w: %w: %d bytes", ErrInvalidMeeting, ErrMeetingIDTooLong, len(id))
	}

	for _, r := range id {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return fmt.Errorf("%w: meeting id contains whitespace or control characters", ErrInvalidMeeting)
		}
	}

	return nil
}

// ValidateFileName validates a transcript file name within a meeting.
func ValidateFileName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMeeting, ErrEmptyFileName)
	}
	return nil
}

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - MeetingID and File must be valid
//   - Index must be 1-based
//   - Text must not be empty (a chunk never spans zero turns)
//   - 1 <= LineStart <= LineEnd
//
// NOT validated (derived fields):
//   - TimeStartSec/TimeEndSec (0 is a legal parse result)
//   - Speakers (synthesized turns may all share one name)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if err := ValidateMeetingID(chunk.MeetingID); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, err)
	}

	if err := ValidateFileName(chunk.File); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, err)
	}

	if chunk.Index < 1 {
		return fmt.Errorf("%w: index %d is not 1-based", ErrInvalidChunk, chunk.Index)
	}

	if chunk.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyChunkText)
	}

	if chunk.LineStart < 1 || chunk.LineEnd < chunk.LineStart {
		return fmt.Errorf("%w: %w: [%d,%d]", ErrInvalidChunk, ErrInvalidLineRange, chunk.LineStart, chunk.LineEnd)
	}

	return nil
}

// ValidateQuestion validates an ask question.
func ValidateQuestion(question string) error {
	if strings.TrimSpace(question) == "" {
		return ErrEmptyQuestion
	}

	if len(question) > MaxQuestionLen {
		return fmt.Errorf("%w: %d bytes", ErrQuestionTooLong, len(question))
	}

	return nil
}
