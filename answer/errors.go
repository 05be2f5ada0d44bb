package answer

import "errors"

var (
	// ErrRetrieverRequired is returned when a retriever is not provided.
	ErrRetrieverRequired = errors.New("retriever required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrMeetingRepositoryRequired is returned when a meeting repository is not provided.
	ErrMeetingRepositoryRequired = errors.New("meeting repository required")

	// ErrAskMemoryRequired is returned when an ask-memory repository is not provided.
	ErrAskMemoryRequired = errors.New("ask memory repository required")

	// ErrInvalidTopK is returned when topK is configured below 1.
	ErrInvalidTopK = errors.New("topK must be greater than 0")
)
