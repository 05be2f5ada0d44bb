package transcript

import "errors"

var (
	// ErrNotTranscript indicates the input contains no parseable turn line.
	ErrNotTranscript = errors.New("input has no parseable transcript lines")

	// ErrInvalidTurnsPerChunk indicates a non-positive chunk quota.
	ErrInvalidTurnsPerChunk = errors.New("turns per chunk must be positive")
)
