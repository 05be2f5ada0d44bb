package transcript

import (
	"fmt"
	"strconv"
	"strings"
)

// TimestampSeconds converts a transcript timestamp to total seconds.
// It accepts HH:MM:SS, M:SS and bare SS; missing components default to
// zero. Unparsable values yield 0 rather than an error, because stored
// timestamps are data, not input to validate.
func TimestampSeconds(ts string) int {
	s := strings.TrimSpace(ts)
	if s == "" {
		return 0
	}

	parts := strings.Split(s, ":")
	switch len(parts) {
	case 1:
		parts = []string{"0", "0", parts[0]}
	case 2:
		parts = []string{"0", parts[0], parts[1]}
	case 3:
	default:
		return 0
	}

	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0
	}
	sec, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return 0
	}

	return h*3600 + m*60 + sec
}

// SecondsToDisplay formats seconds as H:MM:SS, or M:SS when under an
// hour. Negative input clamps to zero.
func SecondsToDisplay(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
