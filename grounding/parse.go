package grounding

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/poiesic/minuted/core"
)

// citePattern matches [file:start-end] citation markers in free text.
var citePattern = regexp.MustCompile(`\[([^\]:]+):(\d+)-(\d+)\]`)

// Answer is the structured output expected from the generator.
type Answer struct {
	Answer    string
	Citations []core.SourceRange
}

type answerJSON struct {
	Answer    string `json:"answer"`
	Citations []struct {
		File      string `json:"file"`
		LineStart int    `json:"line_start"`
		LineEnd   int    `json:"line_end"`
	} `json:"citations"`
}

// ParseAnswer leniently parses generator output as the answer schema.
// It tries, in order: the raw text as JSON (code fences stripped, common
// quoting damage repaired), the first embedded {...} block, and finally a
// scan of the free text for [file:start-end] markers. It never fails; the
// worst case is an empty schema.
func ParseAnswer(raw string) Answer {
	text := stripCodeFences(strings.TrimSpace(raw))

	if parsed, ok := parseAnswerJSON(text); ok {
		return parsed
	}
	if parsed, ok := parseAnswerJSON(repairJSON(text)); ok {
		return parsed
	}
	if block := extractJSONBlock(text); block != "" {
		if parsed, ok := parseAnswerJSON(block); ok {
			return parsed
		}
	}

	// Free text: treat the whole output as the answer and mine it for
	// citation markers.
	return Answer{
		Answer:    text,
		Citations: ExtractCitations(text),
	}
}

// ExtractCitations scans free text for [file:start-end] markers,
// deduplicated in order of first appearance.
func ExtractCitations(text string) []core.SourceRange {
	var citations []core.SourceRange
	seen := make(map[core.SourceRange]bool)

	for _, m := range citePattern.FindAllStringSubmatch(text, -1) {
		start, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		end, err := strconv.Atoi(m[3])
		if err != nil {
			continue
		}
		c := core.SourceRange{File: m[1], LineStart: start, LineEnd: end}
		if seen[c] {
			continue
		}
		seen[c] = true
		citations = append(citations, c)
	}

	return citations
}

func parseAnswerJSON(text string) (Answer, bool) {
	var decoded answerJSON
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		return Answer{}, false
	}

	answer := Answer{Answer: strings.TrimSpace(decoded.Answer)}
	for _, c := range decoded.Citations {
		if c.File == "" || c.LineStart < 1 || c.LineEnd < c.LineStart {
			continue
		}
		answer.Citations = append(answer.Citations, core.SourceRange{
			File:      c.File,
			LineStart: c.LineStart,
			LineEnd:   c.LineEnd,
		})
	}

	// Some models cite inline even when asked for structured output.
	if len(answer.Citations) == 0 {
		answer.Citations = ExtractCitations(answer.Answer)
	}

	return answer, true
}

// stripCodeFences removes a surrounding markdown code fence, with or
// without a language tag.
func stripCodeFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}

	trimmed := strings.TrimPrefix(text, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		// Drop the fence line ("```json" etc.)
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// extractJSONBlock returns the first balanced {...} block in the text, or
// "" when there is none.
func extractJSONBlock(text string) string {
	start := strings.Index(text, "{")
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
