// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package transcript

import (
	"bufio"
	"io"
	"regexp"
	"strings"

	"github.com/poiesic/minuted/core"
)

// TurnLine matches one spoken transcript line: "[HH:MM:SS] Speaker: text".
// The speaker segment is capped at 60 characters and may not contain a
// colon, which keeps free-form prose from being mistaken for a turn.
var TurnLine = regexp.MustCompile(`^\[(\d{2}:\d{2}:\d{2})\]\s*([^:]{1,60}):\s*(.+)$`)

// maxLineBytes bounds a single transcript line for the scanner.
const maxLineBytes = 1 << 20

// ParseReader lexes transcript text into speaker turns in a single linear
// pass, calling emit for each completed turn. A turn is complete once the
// next turn line (or end of input) is seen, because lines that do not
// match TurnLine are folded into the preceding turn: space-joined into its
// Text, newline-joined into its Raw. A non-matching line before any turn
// synthesizes a turn with timestamp "00:00:00" and speaker "Unknown".
// Blank lines are skipped and counted for line numbering.
//
// If emit returns an error, parsing stops and the error is returned.
func ParseReader(r io.Reader, emit func(core.Turn) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var pending *core.Turn
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if m := TurnLine.FindStringSubmatch(trimmed); m != nil {
			if pending != nil {
				if err := emit(*pending); err != nil {
					return err
				}
			}
			pending = &core.Turn{
				LineNo:    lineNo,
				Timestamp: m[1],
				Speaker:   strings.TrimSpace(m[2]),
				Text:      strings.TrimSpace(m[3]),
				Raw:       line,
			}
			continue
		}

		if pending != nil {
			pending.Text += " " + trimmed
			pending.Raw += "\n" + line
			continue
		}

		// Orphan continuation before any turn.
		pending = &core.Turn{
			LineNo:    lineNo,
			Timestamp: "00:00:00",
			Speaker:   "Unknown",
			Text:      trimmed,
			Raw:       line,
		}
	}

	if err := scanner.Err(); err != nil {
		return err
	}

	if pending != nil {
		return emit(*pending)
	}

	return nil
}

// Parse collects the turn stream produced by ParseReader.
func Parse(r io.Reader) ([]core.Turn, error) {
	var turns []core.Turn
	err := ParseReader(r, func(t core.Turn) error {
		turns = append(turns, t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return turns, nil
}

// HasTurnLine reports whether at least one line of the input matches
// TurnLine. It is the upload-time precondition check; the parser itself
// accepts any text and does not use it.
func HasTurnLine(r io.Reader) bool {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		if TurnLine.MatchString(strings.TrimSpace(scanner.Text())) {
			return true
		}
	}
	return false
}
