// Package grounding enforces that answers cite only retrieved transcript
// evidence.
//
// The guardrail works on 1-based inclusive line ranges: retrieval defines
// the allowed ranges for a request, the generator claims citations, and
// NormalizeAndFilter keeps only claims that overlap allowed evidence,
// clamped to the intersection. An answer left with no citations degrades
// to a fixed refusal string rather than an ungrounded claim.
//
// The package also owns the two text boundaries around the generator:
// PackContext renders retrieved chunks into the prompt, and ParseAnswer
// leniently decodes the generator's output, tolerating code fences,
// damaged JSON and citations left in free text.
package grounding
