// Package answer orchestrates question answering over indexed meetings.
//
// An Answerer resolves follow-up questions against the meeting's recent
// exchanges, routes explicit clock references to time-window retrieval
// and "what did X say" phrasings to speaker-filtered retrieval, expands
// the question into multiple search queries, and packs the retrieved
// evidence as generator context. Generator output is untrusted: parsed
// citations are clamped to retrieved evidence, and answers that end up
// with no valid citation degrade to a fixed refusal string.
package answer
