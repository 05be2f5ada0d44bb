package answer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/poiesic/minuted/transcript"
)

var (
	// Bracketed timestamps the way the transcript writes them.
	bracketTimeRe = regexp.MustCompile(`\[(\d{2}:\d{2}:\d{2})\]`)

	// Standalone clock references: HH:MM:SS or M:SS ("at 3:45").
	clockTimeRe = regexp.MustCompile(`\b(\d{1,2}:\d{2}(?::\d{2})?)\b`)

	// "minute 12" style references.
	minuteRe = regexp.MustCompile(`(?i)\bminute\s+(\d+)\b`)
)

// followUpPhrases mark a question as continuing the previous exchange
// rather than opening a new topic.
var followUpPhrases = []string{
	"more detail", "elaborate", "expand", "tell me more", "what else",
	"go on", "continue", "give me more", "further detail",
	"what about", "how about", "and then",
}

// parseTimeRefs extracts clock references from a question as seconds
// since meeting start, deduplicated in order of appearance.
func parseTimeRefs(question string) []int {
	if strings.TrimSpace(question) == "" {
		return nil
	}

	var refs []int
	seen := make(map[int]bool)
	add := func(sec int) {
		if !seen[sec] {
			seen[sec] = true
			refs = append(refs, sec)
		}
	}

	for _, m := range bracketTimeRe.FindAllStringSubmatch(question, -1) {
		add(transcript.TimestampSeconds(m[1]))
	}
	for _, m := range clockTimeRe.FindAllStringSubmatch(question, -1) {
		add(transcript.TimestampSeconds(m[1]))
	}
	for _, m := range minuteRe.FindAllStringSubmatch(question, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil {
			add(n * 60)
		}
	}

	return refs
}

// parseSpeaker binds a question like "what did Alice say" to one of the
// meeting's known speakers. Matching requires a speaker-directed phrase,
// not a bare name mention, to avoid false positives on names that come
// up in passing.
func parseSpeaker(question string, known []string) string {
	q := strings.ToLower(strings.TrimSpace(question))
	if q == "" {
		return ""
	}

	for _, name := range known {
		s := strings.TrimSpace(name)
		if s == "" {
			continue
		}
		sl := regexp.QuoteMeta(strings.ToLower(s))
		patterns := []string{
			`what did\s+` + sl + `\s+(?:say|think|mention|suggest)`,
			`\b` + sl + `\s+said\b`,
			`\b` + sl + `\s+think`,
			`\b` + sl + `'s\b`,
			`focus on\s+` + sl,
			`\bonly\s+` + sl + `\b`,
			`\bfrom\s+` + sl + `\b`,
		}
		for _, p := range patterns {
			if regexp.MustCompile(p).MatchString(q) {
				return s
			}
		}
	}

	return ""
}

// isFollowUp reports whether a question continues the prior exchange.
// Short vague questions ("why?", "what about cost?") only count when
// there is a prior exchange to continue.
func isFollowUp(question string, hasMemory bool) bool {
	q := strings.ToLower(strings.TrimSpace(question))
	if q == "" {
		return false
	}

	if hasMemory && (len(strings.Fields(q)) <= 3 || len(q) <= 15) {
		return true
	}
	for _, p := range followUpPhrases {
		if strings.Contains(q, p) {
			return true
		}
	}
	return false
}
