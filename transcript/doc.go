// Package transcript turns raw meeting transcript text into speaker turns
// and citation-addressable chunks.
//
// The parser recognizes lines of the form "[HH:MM:SS] Speaker: text" and
// merges continuation lines into the preceding turn. The chunker groups an
// ordered turn stream into fixed-size chunks that carry the line range,
// time range and speaker set needed for retrieval filtering and citation
// checking. Both operate streaming-first so large transcripts never have
// to be buffered whole; the batch entry points simply collect the stream.
package transcript
