package mock

import (
	"context"

	"github.com/poiesic/minuted/ai"
)

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via function fields.
type MockGenerator struct {
	// GenerateFunc is called by Generate if set.
	// If nil, echoes the user message back as the response.
	GenerateFunc func(ctx context.Context, req ai.GenerateRequest) (string, error)

	callCount int
}

// NewMockGenerator creates a mock generator with default echo behavior.
// Note: Returns concrete type to allow test assertions via GetMockGenerator().
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Generate produces a mock completion for the request.
// Default behavior: returns the user message unchanged, streaming it through
// StreamFunc first when one is set.
func (m *MockGenerator) Generate(ctx context.Context, req ai.GenerateRequest) (string, error) {
	m.callCount++

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}

	if req.StreamFunc != nil {
		if err := req.StreamFunc(ctx, []byte(req.User)); err != nil {
			return "", err
		}
	}
	return req.User, nil
}

// CallCount returns the number of times Generate was called.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockGenerator) Reset() {
	m.callCount = 0
	m.GenerateFunc = nil
}
