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

import "errors"

// Domain validation errors
var (
	// ErrInvalidMeeting indicates a Meeting failed validation.
	ErrInvalidMeeting = errors.New("invalid meeting")

	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrEmptyMeetingID indicates a meeting identifier is empty.
	ErrEmptyMeetingID = errors.New("meeting id cannot be empty")

	// ErrMeetingIDTooLong indicates a meeting identifier exceeds the limit.
	ErrMeetingIDTooLong = errors.New("meeting id too long")

	// ErrEmptyFileName indicates a transcript file name is empty.
	ErrEmptyFileName = errors.New("file name cannot be empty")

	// ErrEmptyChunkText indicates a chunk carries no text.
	ErrEmptyChunkText = errors.New("chunk text cannot be empty")

	// ErrInvalidLineRange indicates line_start/line_end are not ordered 1-based.
	ErrInvalidLineRange = errors.New("invalid line range")

	// ErrEmptyQuestion indicates an ask request carries no question.
	ErrEmptyQuestion = errors.New("question cannot be empty")

	// ErrQuestionTooLong indicates an ask request exceeds the question limit.
	ErrQuestionTooLong = errors.New("question too long")
)
