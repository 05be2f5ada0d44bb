package ai

import "context"

// StreamFunc receives response tokens as they arrive during streaming
// generation. Returning an error aborts the stream.
type StreamFunc func(ctx context.Context, chunk []byte) error

// GenerateRequest describes one completion call.
type GenerateRequest struct {
	// System is the system prompt. May be empty.
	System string

	// User is the user message.
	User string

	// Temperature controls sampling randomness. Zero means deterministic-ish
	// output, which is what retrieval-grounded answering wants.
	Temperature float64

	// JSONMode asks the model to emit a JSON object. The output is still
	// untrusted text; callers parse it leniently.
	JSONMode bool

	// MaxTokens caps the response length. Zero means the provider default.
	MaxTokens int

	// StreamFunc, when set, receives response tokens incrementally.
	StreamFunc StreamFunc
}
