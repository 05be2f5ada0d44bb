package qdrant

import (
	"encoding/json"
	"strings"

	"github.com/poiesic/minuted/core"
)

type qdrantEnvelope[T any] struct {
	Status qdrantStatus `json:"status"`
	Result T            `json:"result"`
}

type qdrantStatus struct {
	State string `json:"status"`
	Error string `json:"error,omitempty"`
}

// Qdrant reports status either as the string "ok" or as an object
// carrying an error message.
func (s *qdrantStatus) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		s.State = strings.ToLower(v)
		return nil
	}

	var obj struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	if obj.Error != "" {
		s.State = "error"
		s.Error = obj.Error
	}
	return nil
}

type qdrantScoredPoint struct {
	Id      string         `json:"id"`
	Score   float64        `json:"score"`
	Payload map[string]any `json:"payload"`
}

type qdrantQueryResult struct {
	Points []qdrantScoredPoint `json:"points"`
}

type qdrantScrollResult struct {
	Points         []qdrantScoredPoint `json:"points"`
	NextPageOffset any                 `json:"next_page_offset"`
}

// Payload readers tolerate missing or mistyped fields so that points
// written by older versions still decode.

func payloadString(payload map[string]any, key string) string {
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}

func payloadInt(payload map[string]any, key string) int {
	switch v := payload[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

func payloadStrings(payload map[string]any, key string) []string {
	raw, ok := payload[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// chunkPayload builds the stored payload for a chunk.
func chunkPayload(chunk core.Chunk) map[string]any {
	return map[string]any{
		"chunk_id":       chunk.ChunkID(),
		"meeting_id":     chunk.MeetingID,
		"file":           chunk.File,
		"text":           chunk.Text,
		"line_start":     chunk.LineStart,
		"line_end":       chunk.LineEnd,
		"time_start":     chunk.TimeStart,
		"time_end":       chunk.TimeEnd,
		"time_start_sec": chunk.TimeStartSec,
		"time_end_sec":   chunk.TimeEndSec,
		"speakers":       chunk.Speakers,
	}
}

// chunkFromPayload reads a retrieved point back into a chunk.
func chunkFromPayload(point qdrantScoredPoint) core.RetrievedChunk {
	payload := point.Payload
	return core.RetrievedChunk{
		ChunkID:      payloadString(payload, "chunk_id"),
		MeetingID:    payloadString(payload, "meeting_id"),
		File:         payloadString(payload, "file"),
		Text:         payloadString(payload, "text"),
		LineStart:    payloadInt(payload, "line_start"),
		LineEnd:      payloadInt(payload, "line_end"),
		TimeStart:    payloadString(payload, "time_start"),
		TimeEnd:      payloadString(payload, "time_end"),
		TimeStartSec: payloadInt(payload, "time_start_sec"),
		TimeEndSec:   payloadInt(payload, "time_end_sec"),
		Speakers:     payloadStrings(payload, "speakers"),
		Score:        float32(point.Score),
	}
}
