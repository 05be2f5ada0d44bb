package server

import "errors"

var (
	// ErrPipelineRequired is returned when an ingest pipeline is not provided.
	ErrPipelineRequired = errors.New("ingest pipeline required")

	// ErrAnswererRequired is returned when an answerer is not provided.
	ErrAnswererRequired = errors.New("answerer required")

	// ErrMeetingRepositoryRequired is returned when a meeting repository is not provided.
	ErrMeetingRepositoryRequired = errors.New("meeting repository required")

	// ErrJobRepositoryRequired is returned when a job repository is not provided.
	ErrJobRepositoryRequired = errors.New("job repository required")

	// ErrInvalidRateLimit is returned when the ask rate limit is configured
	// below 1 request per window.
	ErrInvalidRateLimit = errors.New("rate limit must be greater than 0")
)
