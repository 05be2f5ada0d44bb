package grounding

import "github.com/poiesic/minuted/core"

// RefusalNotFound is returned in place of an answer that has no citation
// into the retrieved transcript.
const RefusalNotFound = "Not found in transcript."

// AllowedRanges returns the source ranges of the retrieved chunks. These
// are the only ranges a citation may reference: evidence comes strictly
// from the current request's retrieval.
func AllowedRanges(retrieved []core.RetrievedChunk) []core.SourceRange {
	allowed := make([]core.SourceRange, 0, len(retrieved))
	seen := make(map[core.SourceRange]bool, len(retrieved))
	for _, chunk := range retrieved {
		if chunk.File == "" || chunk.LineStart < 1 || chunk.LineEnd < chunk.LineStart {
			continue
		}
		r := core.SourceRange{File: chunk.File, LineStart: chunk.LineStart, LineEnd: chunk.LineEnd}
		if seen[r] {
			continue
		}
		seen[r] = true
		allowed = append(allowed, r)
	}
	return allowed
}

// Overlaps reports whether two 1-based inclusive line ranges on the same
// file share at least one line.
func Overlaps(a, b core.SourceRange) bool {
	if a.File != b.File {
		return false
	}
	return !(a.LineEnd < b.LineStart || b.LineEnd < a.LineStart)
}

// NormalizeAndFilter keeps only citations that overlap an allowed range on
// the same file, clamped to the intersection, deduplicated in order of
// first appearance. An empty allowed set passes citations through
// unmodified; callers treat empty retrieval as "not found" upstream.
func NormalizeAndFilter(citations, allowed []core.SourceRange) []core.SourceRange {
	if len(allowed) == 0 {
		return citations
	}

	byFile := make(map[string][]core.SourceRange)
	for _, r := range allowed {
		byFile[r.File] = append(byFile[r.File], r)
	}

	normalized := make([]core.SourceRange, 0, len(citations))
	seen := make(map[core.SourceRange]bool)

	for _, c := range citations {
		for _, r := range byFile[c.File] {
			if !Overlaps(c, r) {
				continue
			}
			clamped := core.SourceRange{
				File:      c.File,
				LineStart: max(c.LineStart, r.LineStart),
				LineEnd:   min(c.LineEnd, r.LineEnd),
			}
			if !seen[clamped] {
				seen[clamped] = true
				normalized = append(normalized, clamped)
			}
			break
		}
	}

	return normalized
}

// RequireCitationsOrRefuse returns the answer verbatim when it carries at
// least one citation, and the fixed refusal string otherwise.
func RequireCitationsOrRefuse(answer string, citations []core.SourceRange) string {
	if len(citations) > 0 {
		return answer
	}
	return RefusalNotFound
}
