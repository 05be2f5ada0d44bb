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


package answer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/minuted/ai"
	"github.com/poiesic/minuted/core"
	"github.com/poiesic/minuted/grounding"
	"github.com/poiesic/minuted/storage"
	"github.com/poiesic/minuted/transcript"
)

// DefaultTopK is how many chunks an answer draws on when the request
// does not say otherwise.
const DefaultTopK = 8

// NoTranscriptForTime is returned when a time-directed question falls
// outside the recorded meeting.
const NoTranscriptForTime = "No transcript found for that time."

// Retriever is the retrieval surface the answerer needs.
type Retriever interface {
	RetrieveMulti(ctx context.Context, meetingID string, queries []string, topK int, speaker string) ([]core.RetrievedChunk, error)
	RetrieveByTime(ctx context.Context, meetingID string, second int, topK int, speaker string) ([]core.RetrievedChunk, error)
}

// Answerer orchestrates one ask: resolve follow-ups against recent
// exchanges, route time/speaker questions, retrieve evidence, generate,
// then force every surfaced citation back inside retrieved evidence.
type Answerer struct {
	retriever Retriever
	generator ai.Generator
	meetings  storage.MeetingRepository
	asks      storage.AskMemoryRepository
	topK      int
	logger    *slog.Logger
}

// Option configures an Answerer.
type Option func(*Answerer) error

// WithTopK sets the default number of chunks retrieved per ask.
func WithTopK(topK int) Option {
	return func(a *Answerer) error {
		if topK < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidTopK, topK)
		}
		a.topK = topK
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Answerer) error {
		a.logger = logger.With("component", "answerer")
		return nil
	}
}

// NewAnswerer creates an Answerer over a retriever, an AI provider and
// the meeting/ask-memory repositories.
func NewAnswerer(retriever Retriever, provider ai.AIProvider, meetings storage.MeetingRepository, asks storage.AskMemoryRepository, opts ...Option) (*Answerer, error) {
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}
	if meetings == nil {
		return nil, ErrMeetingRepositoryRequired
	}
	if asks == nil {
		return nil, ErrAskMemoryRequired
	}

	a := &Answerer{
		retriever: retriever,
		generator: provider.Generator(),
		meetings:  meetings,
		asks:      asks,
		topK:      DefaultTopK,
		logger:    slog.Default().With("component", "answerer"),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Request is one question against one meeting.
type Request struct {
	MeetingID string
	Question  string

	// Speaker filters retrieval to one speaker. Empty means the question
	// itself decides (a "what did Alice say" phrasing binds Alice).
	Speaker string

	// TopK overrides the answerer default when positive.
	TopK int

	// StreamFunc, when set, receives answer tokens as they are generated.
	StreamFunc ai.StreamFunc
}

// Response is a grounded answer. When Refused is set, Answer holds one
// of the fixed refusal strings and Citations is empty.
type Response struct {
	Answer    string
	Citations []core.SourceRange
	Refused   bool
}

// Ask answers a question about an indexed meeting. Every claim in a
// non-refused answer carries a citation inside evidence retrieved for
// this request; failing that, the fixed refusal string comes back
// instead.
func (a *Answerer) Ask(ctx context.Context, req Request) (*Response, error) {
	if err := core.ValidateMeetingID(req.MeetingID); err != nil {
		return nil, err
	}
	if err := core.ValidateQuestion(req.Question); err != nil {
		return nil, err
	}

	meeting, err := a.meetings.GetMeeting(ctx, req.MeetingID)
	if err != nil {
		return nil, fmt.Errorf("load meeting: %w", err)
	}

	topK := req.TopK
	if topK < 1 {
		topK = a.topK
	}

	prior := a.lastExchange(ctx, req.MeetingID)
	followUp := prior != nil && isFollowUp(req.Question, true)

	retrievalQuestion := req.Question
	if followUp {
		retrievalQuestion = strings.TrimSpace(prior.Question) + " Provide more detail with citations."
	}

	timeRefs := parseTimeRefs(req.Question)
	if len(timeRefs) == 0 && followUp {
		timeRefs = parseTimeRefs(prior.Question)
	}

	speaker := req.Speaker
	if speaker == "" {
		known := speakerNames(meeting.Stats.Speakers)
		speaker = parseSpeaker(req.Question, known)
		if speaker == "" && prior != nil {
			speaker = parseSpeaker(prior.Question, known)
		}
	}

	var retrieved []core.RetrievedChunk
	timed := len(timeRefs) > 0
	if timed {
		retrieved, err = a.retriever.RetrieveByTime(ctx, req.MeetingID, timeRefs[0], topK, speaker)
		if err != nil {
			return nil, err
		}
		if len(retrieved) == 0 {
			return &Response{Answer: NoTranscriptForTime, Refused: true}, nil
		}
	} else {
		queries := a.rewriteQueries(ctx, retrievalQuestion)
		retrieved, err = a.retriever.RetrieveMulti(ctx, req.MeetingID, queries, topK, speaker)
		if err != nil {
			return nil, err
		}
		if len(retrieved) == 0 {
			return &Response{Answer: grounding.RefusalNotFound, Refused: true}, nil
		}
	}

	allowed := grounding.AllowedRanges(retrieved)
	contextText := a.buildContext(req.Question, meeting, retrieved, prior, followUp, timed, timeRefs, speaker)

	raw, err := a.generator.Generate(ctx, ai.GenerateRequest{
		System:      answerSystemPrompt,
		User:        buildUserPrompt(req.Question, contextText, allowed),
		Temperature: 0.1,
		JSONMode:    req.StreamFunc == nil,
		StreamFunc:  req.StreamFunc,
	})
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	parsed := grounding.ParseAnswer(raw)
	citations := grounding.NormalizeAndFilter(parsed.Citations, allowed)
	final := grounding.RequireCitationsOrRefuse(parsed.Answer, citations)
	refused := len(citations) == 0
	if refused {
		citations = nil
	}

	record := &core.AskRecord{Question: req.Question, Answer: final, AskedAt: time.Now()}
	if err := a.asks.AppendAsk(ctx, req.MeetingID, record); err != nil {
		a.logger.Warn("recording ask exchange failed", "meeting_id", req.MeetingID, "error", err)
	}

	a.logger.Debug("ask answered",
		"meeting_id", req.MeetingID,
		"retrieved", len(retrieved),
		"citations", len(citations),
		"refused", refused)

	return &Response{Answer: final, Citations: citations, Refused: refused}, nil
}

// lastExchange returns the most recent exchange for the meeting, or nil.
// Memory failures degrade to "no memory" rather than failing the ask.
func (a *Answerer) lastExchange(ctx context.Context, meetingID string) *core.AskRecord {
	recent, err := a.asks.RecentAsks(ctx, meetingID, 1)
	if err != nil {
		a.logger.Warn("reading ask memory failed", "meeting_id", meetingID, "error", err)
		return nil
	}
	if len(recent) == 0 {
		return nil
	}
	return recent[len(recent)-1]
}

// buildContext assembles the generator context: meeting overview, packed
// evidence, and the routing preambles (time, speaker, follow-up). A
// prompt-injection hit in the question or evidence prepends a caution
// rather than blocking the ask.
func (a *Answerer) buildContext(question string, meeting *core.Meeting, retrieved []core.RetrievedChunk, prior *core.AskRecord, followUp, timed bool, timeRefs []int, speaker string) string {
	packed := grounding.PackContext(retrieved)
	contextText := packed
	if overview := transcript.FormatOverview(meeting.Stats); overview != "" {
		contextText = overview + "\n\n---\n\n" + contextText
	}

	if timed {
		display := transcript.SecondsToDisplay(timeRefs[0])
		contextText = fmt.Sprintf(
			"STRICT TIME FILTER: The user asked about time [%s]. Answer ONLY from transcript content at this time. "+
				"If the context has no content for this time, respond exactly: %s\n\n---\n\n%s",
			display, NoTranscriptForTime, contextText)
	}

	if speaker != "" {
		contextText = fmt.Sprintf(
			"SPEAKER FILTER: The user asked to focus on speaker %q. Base your answer only on what this speaker said in the context below.\n\n---\n\n%s",
			speaker, contextText)
	}

	if followUp && prior != nil && prior.Answer != "" {
		contextText = fmt.Sprintf(
			"Treat the previous reply as non-authoritative. Only the transcript context counts as evidence.\n\n"+
				"Previous reply: %s\n\nUser follow-up: %s\n\n---\n\n%s",
			prior.Answer, strings.TrimSpace(question), contextText)
	}

	if hit, pattern := DetectInjection(question + "\n" + packed); hit {
		a.logger.Warn("possible prompt injection in ask", "meeting_id", meeting.Id, "pattern", pattern)
		contextText = injectionCaution + contextText
	}

	return contextText
}

func speakerNames(stats []core.SpeakerStat) []string {
	names := make([]string, len(stats))
	for i, s := range stats {
		names[i] = s.Name
	}
	return names
}
