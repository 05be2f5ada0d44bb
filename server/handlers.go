package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/poiesic/minuted/answer"
	"github.com/poiesic/minuted/core"
	"github.com/poiesic/minuted/ingestion"
	"github.com/poiesic/minuted/storage"
	"github.com/poiesic/minuted/transcript"
)

// maxUploadBytes caps multipart uploads held in memory.
const maxUploadBytes = 32 << 20

type meetingResponse struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Files     []string      `json:"files"`
	CreatedAt time.Time     `json:"created_at"`
	Stats     statsResponse `json:"stats"`
}

type statsResponse struct {
	TurnCount      int               `json:"turn_count"`
	ChunkCount     int               `json:"chunk_count"`
	WordCount      int               `json:"word_count"`
	DurationSec    int               `json:"duration_sec"`
	FirstTimestamp string            `json:"first_timestamp"`
	LastTimestamp  string            `json:"last_timestamp"`
	Speakers       []speakerResponse `json:"speakers"`
}

type speakerResponse struct {
	Name        string `json:"name"`
	Turns       int    `json:"turns"`
	Words       int    `json:"words"`
	DurationSec int    `json:"duration_sec"`
}

type jobResponse struct {
	ID         string    `json:"id"`
	MeetingID  string    `json:"meeting_id,omitempty"`
	State      string    `json:"state"`
	Error      string    `json:"error,omitempty"`
	ChunkCount int       `json:"chunk_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type askRequest struct {
	Question string `json:"question"`
	Speaker  string `json:"speaker,omitempty"`
	TopK     int    `json:"top_k,omitempty"`
	Stream   bool   `json:"stream,omitempty"`
}

type askResponse struct {
	Answer    string             `json:"answer"`
	Citations []citationResponse `json:"citations"`
	Refused   bool               `json:"refused"`
}

type citationResponse struct {
	File      string `json:"file"`
	LineStart int    `json:"line_start"`
	LineEnd   int    `json:"line_end"`
}

func toMeetingResponse(m *core.Meeting) meetingResponse {
	return meetingResponse{
		ID:        m.Id,
		Title:     m.Title,
		Files:     m.Files,
		CreatedAt: m.CreatedAt,
		Stats:     toStatsResponse(m.Stats),
	}
}

func toStatsResponse(stats core.MeetingStats) statsResponse {
	speakers := make([]speakerResponse, len(stats.Speakers))
	for i, s := range stats.Speakers {
		speakers[i] = speakerResponse{Name: s.Name, Turns: s.Turns, Words: s.Words, DurationSec: s.DurationSec}
	}
	return statsResponse{
		TurnCount:      stats.TurnCount,
		ChunkCount:     stats.ChunkCount,
		WordCount:      stats.WordCount,
		DurationSec:    stats.DurationSec,
		FirstTimestamp: stats.FirstTimestamp,
		LastTimestamp:  stats.LastTimestamp,
		Speakers:       speakers,
	}
}

func toJobResponse(job *core.IngestJob) jobResponse {
	return jobResponse{
		ID:         job.Id,
		MeetingID:  job.MeetingID,
		State:      job.State.String(),
		Error:      job.Error,
		ChunkCount: job.ChunkCount,
		CreatedAt:  job.CreatedAt,
		UpdatedAt:  job.UpdatedAt,
	}
}

func toCitations(ranges []core.SourceRange) []citationResponse {
	out := make([]citationResponse, len(ranges))
	for i, r := range ranges {
		out[i] = citationResponse{File: r.File, LineStart: r.LineStart, LineEnd: r.LineEnd}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart form upload")
		return
	}

	var files []ingestion.File
	for _, headers := range r.MultipartForm.File {
		for _, hdr := range headers {
			if err := core.ValidateFileName(hdr.Filename); err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}

			f, err := hdr.Open()
			if err != nil {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("reading %s failed", hdr.Filename))
				return
			}
			content, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("reading %s failed", hdr.Filename))
				return
			}

			if !transcript.HasTurnLine(bytes.NewReader(content)) {
				writeError(w, http.StatusBadRequest,
					fmt.Sprintf("%s is not a transcript: expected lines like [HH:MM:SS] Speaker: text", hdr.Filename))
				return
			}

			// Flag instruction-like transcript text up front; it is still
			// indexed, the answerer treats it as data.
			if hit, pattern := answer.DetectInjection(string(content)); hit {
				s.logger.Warn("possible prompt injection in upload", "file", hdr.Filename, "pattern", pattern)
			}

			files = append(files, ingestion.File{Name: hdr.Filename, Content: content})
		}
	}

	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "no transcript files provided")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		title = files[0].Name
	}

	job, err := s.pipeline.IngestAsync(r.Context(), title, files)
	if err != nil {
		if errors.Is(err, ingestion.ErrNoFiles) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("enqueueing ingest failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusAccepted, toJobResponse(job))
}

func (s *Server) handleListMeetings(w http.ResponseWriter, r *http.Request) {
	meetings, err := s.meetings.ListMeetings(r.Context())
	if err != nil {
		s.logger.Error("listing meetings failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]meetingResponse, len(meetings))
	for i, m := range meetings {
		out[i] = toMeetingResponse(m)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetMeeting(w http.ResponseWriter, r *http.Request) {
	meeting, ok := s.loadMeeting(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toMeetingResponse(meeting))
}

func (s *Server) handleMeetingStats(w http.ResponseWriter, r *http.Request) {
	meeting, ok := s.loadMeeting(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toStatsResponse(meeting.Stats))
}

func (s *Server) loadMeeting(w http.ResponseWriter, r *http.Request) (*core.Meeting, bool) {
	id := mux.Vars(r)["id"]
	meeting, err := s.meetings.GetMeeting(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "meeting not found")
		} else {
			s.logger.Error("loading meeting failed", "meeting_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return nil, false
	}
	return meeting, true
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	job, err := s.jobs.GetJob(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "job not found")
		} else {
			s.logger.Error("loading job failed", "job_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, toJobResponse(job))
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	ask := answer.Request{
		MeetingID: mux.Vars(r)["id"],
		Question:  req.Question,
		Speaker:   req.Speaker,
		TopK:      req.TopK,
	}

	if req.Stream {
		s.streamAsk(w, r, ask)
		return
	}

	resp, err := s.answerer.Ask(r.Context(), ask)
	if err != nil {
		s.writeAskError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, askResponse{
		Answer:    resp.Answer,
		Citations: toCitations(resp.Citations),
		Refused:   resp.Refused,
	})
}

// streamAsk answers over SSE: token events as the generator produces
// them, then one citations event carrying the grounded result. The
// grounded answer in the final event is authoritative; streamed tokens
// are a raw preview.
func (s *Server) streamAsk(w http.ResponseWriter, r *http.Request, ask answer.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ask.StreamFunc = func(_ context.Context, chunk []byte) error {
		writeSSE(w, "token", string(chunk))
		flusher.Flush()
		return nil
	}

	resp, err := s.answerer.Ask(r.Context(), ask)
	if err != nil {
		s.logger.Error("streaming ask failed", "meeting_id", ask.MeetingID, "error", err)
		writeSSE(w, "error", "ask failed")
		flusher.Flush()
		return
	}

	payload, _ := json.Marshal(askResponse{
		Answer:    resp.Answer,
		Citations: toCitations(resp.Citations),
		Refused:   resp.Refused,
	})
	writeSSE(w, "citations", string(payload))
	flusher.Flush()
}

// writeSSE emits one event. Data is split on newlines because the SSE
// framing is line-oriented.
func writeSSE(w io.Writer, event, data string) {
	fmt.Fprintf(w, "event: %s\n", event)
	for _, line := range strings.Split(data, "\n") {
		fmt.Fprintf(w, "data: %s\n", line)
	}
	fmt.Fprint(w, "\n")
}

func (s *Server) writeAskError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidMeeting),
		errors.Is(err, core.ErrEmptyQuestion),
		errors.Is(err, core.ErrQuestionTooLong):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "meeting not found")
	case errors.Is(err, storage.ErrUnavailable),
		errors.Is(err, ingestion.ErrEmbeddingUnavailable):
		writeError(w, http.StatusServiceUnavailable, "upstream unavailable")
	default:
		s.logger.Error("ask failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
