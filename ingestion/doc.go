// Package ingestion provides pipeline orchestration for indexing meetings.
//
// The Pipeline type manages the ingestion workflow for an uploaded meeting:
//   - Rejecting content with no recognizable transcript lines
//   - Duplicate detection via a content hash over the uploaded file set
//   - Parsing and chunking transcripts in a single streaming pass
//   - Embedding chunk batches (with bounded retry) and upserting hybrid
//     dense+sparse points to the vector index
//   - Computing meeting statistics and persisting the meeting record
//
// Synchronous ingestion runs on the caller's goroutine. IngestAsync enqueues
// a job on a bounded worker pool and tracks its state in the job repository.
package ingestion
