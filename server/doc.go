// Package server exposes the HTTP API over the ingestion pipeline and
// the answerer: multipart transcript upload with async ingest jobs,
// meeting and stats lookup, and rate-limited question answering with
// optional SSE streaming.
package server
