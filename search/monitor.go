package search

import "github.com/poiesic/minuted/core"

// RetrievalMonitor provides hooks to observe the retrieval process.
// Implement this interface to track intermediate steps and results.
type RetrievalMonitor interface {
	Start(meetingID string, queries []string)
	AfterQueryRetrieval(query string, chunks []core.RetrievedChunk)
	AfterSpeakerFilter(speaker string, chunks []core.RetrievedChunk)
	Finish(results []core.RetrievedChunk)
}

// noopMonitor is a no-op implementation of RetrievalMonitor
type noopMonitor struct{}

var _ RetrievalMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ []string)                         {}
func (n *noopMonitor) AfterQueryRetrieval(_ string, _ []core.RetrievedChunk) {}
func (n *noopMonitor) AfterSpeakerFilter(_ string, _ []core.RetrievedChunk)  {}
func (n *noopMonitor) Finish(_ []core.RetrievedChunk)                     {}
