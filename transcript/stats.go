package transcript

import (
	"fmt"
	"sort"
	"strings"

	"github.com/poiesic/minuted/core"
)

// ComputeStats aggregates meeting-level statistics from a turn stream:
// total duration, first/last timestamps and per-speaker participation.
// A speaker's duration is floor time, the span from each of their turns
// until the next turn (or end of meeting), summed. ChunkCount is not
// known at this level and is filled in by the ingest pipeline.
func ComputeStats(turns []core.Turn) core.MeetingStats {
	if len(turns) == 0 {
		return core.MeetingStats{
			FirstTimestamp: "00:00:00",
			LastTimestamp:  "00:00:00",
		}
	}

	ordered := make([]core.Turn, len(turns))
	copy(ordered, turns)
	sort.SliceStable(ordered, func(i, j int) bool {
		si, sj := TimestampSeconds(ordered[i].Timestamp), TimestampSeconds(ordered[j].Timestamp)
		if si != sj {
			return si < sj
		}
		return ordered[i].LineNo < ordered[j].LineNo
	})

	startSec := TimestampSeconds(ordered[0].Timestamp)
	endSec := TimestampSeconds(ordered[len(ordered)-1].Timestamp)
	duration := endSec - startSec
	if duration < 0 {
		duration = 0
	}

	type acc struct {
		turns    int
		words    int
		duration int
	}
	bySpeaker := make(map[string]*acc)

	totalWords := 0
	for i, t := range ordered {
		name := strings.TrimSpace(t.Speaker)
		if name == "" {
			name = "Unknown"
		}
		a := bySpeaker[name]
		if a == nil {
			a = &acc{}
			bySpeaker[name] = a
		}

		words := len(strings.Fields(t.Text))
		a.turns++
		a.words += words
		totalWords += words

		cur := TimestampSeconds(t.Timestamp)
		next := endSec
		if i+1 < len(ordered) {
			next = TimestampSeconds(ordered[i+1].Timestamp)
		}
		if d := next - cur; d > 0 {
			a.duration += d
		}
	}

	names := make([]string, 0, len(bySpeaker))
	for name := range bySpeaker {
		names = append(names, name)
	}
	sort.Strings(names)

	speakers := make([]core.SpeakerStat, 0, len(names))
	for _, name := range names {
		a := bySpeaker[name]
		speakers = append(speakers, core.SpeakerStat{
			Name:        name,
			Turns:       a.turns,
			Words:       a.words,
			DurationSec: a.duration,
		})
	}

	// Most-participating first so "who talked the most/least" reads off
	// the ends of the slice. Ties keep alphabetical order.
	sort.SliceStable(speakers, func(i, j int) bool {
		if speakers[i].DurationSec != speakers[j].DurationSec {
			return speakers[i].DurationSec > speakers[j].DurationSec
		}
		if speakers[i].Turns != speakers[j].Turns {
			return speakers[i].Turns > speakers[j].Turns
		}
		return speakers[i].Words > speakers[j].Words
	})

	return core.MeetingStats{
		TurnCount:      len(turns),
		WordCount:      totalWords,
		DurationSec:    duration,
		FirstTimestamp: ordered[0].Timestamp,
		LastTimestamp:  ordered[len(ordered)-1].Timestamp,
		Speakers:       speakers,
	}
}

// FormatOverview renders stats as a context block for the generator so
// duration and participation questions can be answered from stored stats
// instead of guessed from retrieved spans. Returns "" when there is
// nothing to summarize.
func FormatOverview(stats core.MeetingStats) string {
	if stats.TurnCount == 0 && len(stats.Speakers) == 0 {
		return ""
	}

	parts := []string{
		"Meeting overview (use for questions about duration or who spoke most/least):",
		fmt.Sprintf("Total call duration: %s", SecondsToDisplay(stats.DurationSec)),
	}

	if len(stats.Speakers) > 0 {
		most := stats.Speakers[0].Name
		least := most
		if len(stats.Speakers) > 1 {
			least = stats.Speakers[len(stats.Speakers)-1].Name
		}
		parts = append(parts, fmt.Sprintf("Who talked the most: %s. Who talked the least: %s.", most, least))

		entries := make([]string, len(stats.Speakers))
		for i, s := range stats.Speakers {
			entries[i] = fmt.Sprintf("%s (%s, %d turns)", s.Name, SecondsToDisplay(s.DurationSec), s.Turns)
		}
		parts = append(parts, "Per-speaker duration (speaking time): "+strings.Join(entries, "; "))
	}

	return strings.Join(parts, "\n")
}
