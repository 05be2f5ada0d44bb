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

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	minuted "github.com/poiesic/minuted"
	"github.com/poiesic/minuted/ai"
	"github.com/poiesic/minuted/answer"
	"github.com/poiesic/minuted/ingestion"
	"github.com/poiesic/minuted/server"
	"github.com/poiesic/minuted/storage/badger"
	"github.com/poiesic/minuted/transcript"
)

func main() {
	app := &cli.App{
		Name:   "minuted",
		Usage:  "Grounded question answering over meeting transcripts",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"MINUTED_LOG_LEVEL"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API server",
				Action: serveCommand,
				Flags: append(engineFlags(),
					&cli.StringFlag{
						Name:    "addr",
						Usage:   "HTTP listen address",
						Value:   server.DefaultAddr,
						EnvVars: []string{"MINUTED_ADDR"},
					},
					&cli.IntFlag{
						Name:    "ask-rate-limit",
						Usage:   "Ask requests allowed per client per minute",
						Value:   20,
						EnvVars: []string{"MINUTED_ASK_RATE_LIMIT"},
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Worker pool size for async ingest jobs",
					},
				),
			},
			{
				Name:      "index",
				Usage:     "Index transcript files as one meeting",
				ArgsUsage: "FILE [FILE...]",
				Action:    indexCommand,
				Flags: append(engineFlags(),
					&cli.StringFlag{
						Name:  "title",
						Usage: "Meeting title (defaults to the first file name)",
					},
					&cli.IntFlag{
						Name:  "turns-per-chunk",
						Usage: "Turns grouped into one retrievable chunk",
						Value: transcript.DefaultTurnsPerChunk,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Chunks embedded and upserted per batch",
						Value: ingestion.DefaultBatchSize,
					},
				),
			},
			{
				Name:      "ask",
				Usage:     "Ask a question about an indexed meeting",
				ArgsUsage: "QUESTION",
				Action:    askCommand,
				Flags: append(engineFlags(),
					&cli.StringFlag{
						Name:     "meeting",
						Aliases:  []string{"m"},
						Usage:    "Meeting ID to ask about",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "speaker",
						Usage: "Restrict evidence to one speaker",
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of chunks retrieved as evidence",
						Value: answer.DefaultTopK,
					},
					&cli.BoolFlag{
						Name:  "stream",
						Usage: "Print answer tokens as they are generated",
					},
				),
			},
			{
				Name:   "stats",
				Usage:  "Show stored statistics for an indexed meeting",
				Action: statsCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.StringFlag{
						Name:     "meeting",
						Aliases:  []string{"m"},
						Usage:    "Meeting ID (omit to list all meetings)",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "db",
		Aliases: []string{"d"},
		Usage:   "Path to the BadgerDB data directory",
		Value:   "./minuted-data",
		EnvVars: []string{"MINUTED_DB"},
	}
}

// engineFlags are shared by every command that needs the full engine:
// the store, the vector index and the AI provider.
func engineFlags() []cli.Flag {
	return []cli.Flag{
		dbFlag(),
		&cli.StringFlag{
			Name:    "qdrant",
			Usage:   "Qdrant server location",
			Value:   "http://localhost:6333",
			EnvVars: []string{"MINUTED_QDRANT"},
		},
		&cli.StringFlag{
			Name:    "embedding-host",
			Usage:   "Embedding service host URL",
			EnvVars: []string{"MINUTED_EMBEDDING_HOST"},
		},
		&cli.StringFlag{
			Name:    "chat-host",
			Usage:   "Chat service host URL",
			EnvVars: []string{"MINUTED_CHAT_HOST"},
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name",
			EnvVars: []string{"MINUTED_EMBEDDING_MODEL"},
		},
		&cli.StringFlag{
			Name:    "chat-model",
			Usage:   "Chat model name",
			EnvVars: []string{"MINUTED_CHAT_MODEL"},
		},
		&cli.StringFlag{
			Name:    "token",
			Usage:   "API token for the AI services",
			EnvVars: []string{"MINUTED_TOKEN"},
		},
	}
}

// buildAIConfig applies only the flags the user actually set, so the
// defaults for a local OpenAI-compatible setup keep working untouched.
func buildAIConfig(c *cli.Context) *ai.Config {
	var opts []ai.ConfigOption
	if v := c.String("embedding-host"); v != "" {
		opts = append(opts, ai.WithEmbeddingHost(v))
	}
	if v := c.String("chat-host"); v != "" {
		opts = append(opts, ai.WithChatHost(v))
	}
	if v := c.String("embedding-model"); v != "" {
		opts = append(opts, ai.WithEmbeddingModel(v))
	}
	if v := c.String("chat-model"); v != "" {
		opts = append(opts, ai.WithChatModel(v))
	}
	if v := c.String("token"); v != "" {
		opts = append(opts, ai.WithToken(v))
	}
	return ai.NewConfig(opts...)
}

func openEngine(c *cli.Context) (*minuted.Engine, error) {
	cfg := buildAIConfig(c)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	engine, err := minuted.NewEngine(c.String("db"), c.String("qdrant"), minuted.WithAIConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open engine: %w", err)
	}
	return engine, nil
}

func serveCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	var pipelineOpts []ingestion.Option
	if size := c.Int("pool-size"); size > 0 {
		pipelineOpts = append(pipelineOpts, ingestion.WithPoolSize(size))
	}

	pipeline, err := engine.NewIngestionPipeline(pipelineOpts...)
	if err != nil {
		return fmt.Errorf("failed to create ingestion pipeline: %w", err)
	}
	defer pipeline.Release()

	answerer, err := engine.NewAnswerer()
	if err != nil {
		return fmt.Errorf("failed to create answerer: %w", err)
	}

	srv, err := server.New(pipeline, answerer, engine.MeetingRepository(), engine.JobRepository(),
		server.WithAddr(c.String("addr")),
		server.WithAskRateLimit(c.Int("ask-rate-limit"), time.Minute),
	)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	// Serve until interrupted, then drain.
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-stop:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}

func indexCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one transcript file is required")
	}

	var files []ingestion.File
	for _, path := range c.Args().Slice() {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		files = append(files, ingestion.File{Name: filepath.Base(path), Content: content})
	}

	title := c.String("title")
	if title == "" {
		title = files[0].Name
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	pipeline, err := engine.NewIngestionPipeline(
		ingestion.WithTurnsPerChunk(c.Int("turns-per-chunk")),
		ingestion.WithBatchSize(c.Int("batch-size")),
	)
	if err != nil {
		return fmt.Errorf("failed to create ingestion pipeline: %w", err)
	}
	defer pipeline.Release()

	result, err := pipeline.Ingest(c.Context, title, files)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	if result.Duplicate {
		fmt.Fprintf(os.Stderr, "Already indexed as meeting %s (identical content)\n", result.Meeting.Id)
		return nil
	}

	fmt.Fprintf(os.Stderr, "Indexed meeting %s\n", result.Meeting.Id)
	fmt.Fprintf(os.Stderr, "  files:  %s\n", strings.Join(result.Meeting.Files, ", "))
	fmt.Fprintf(os.Stderr, "  turns:  %d\n", result.Meeting.Stats.TurnCount)
	fmt.Fprintf(os.Stderr, "  chunks: %d\n", result.Meeting.Stats.ChunkCount)
	return nil
}

func askCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question is required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	answerer, err := engine.NewAnswerer()
	if err != nil {
		return fmt.Errorf("failed to create answerer: %w", err)
	}

	req := answer.Request{
		MeetingID: c.String("meeting"),
		Question:  question,
		Speaker:   c.String("speaker"),
		TopK:      c.Int("top-k"),
	}

	if c.Bool("stream") {
		req.StreamFunc = func(_ context.Context, chunk []byte) error {
			fmt.Print(string(chunk))
			return nil
		}
	}

	resp, err := answerer.Ask(c.Context, req)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if c.Bool("stream") {
		fmt.Println()
	} else {
		fmt.Println(resp.Answer)
	}

	for _, cite := range resp.Citations {
		fmt.Printf("  [%s:%d-%d]\n", cite.File, cite.LineStart, cite.LineEnd)
	}
	return nil
}

func statsCommand(c *cli.Context) error {
	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	meetings := badger.NewMeetingRepository(backend)

	if id := c.String("meeting"); id != "" {
		meeting, err := meetings.GetMeeting(c.Context, id)
		if err != nil {
			return fmt.Errorf("loading meeting: %w", err)
		}
		printMeeting(meeting.Id, meeting.Title, meeting.Stats.TurnCount, meeting.Stats.ChunkCount, meeting.Stats.DurationSec)
		for _, s := range meeting.Stats.Speakers {
			fmt.Printf("  %-20s %3d turns  %5d words  %s\n",
				s.Name, s.Turns, s.Words, transcript.SecondsToDisplay(s.DurationSec))
		}
		return nil
	}

	all, err := meetings.ListMeetings(c.Context)
	if err != nil {
		return fmt.Errorf("listing meetings: %w", err)
	}
	for _, m := range all {
		printMeeting(m.Id, m.Title, m.Stats.TurnCount, m.Stats.ChunkCount, m.Stats.DurationSec)
	}
	return nil
}

func printMeeting(id, title string, turns, chunks, durationSec int) {
	fmt.Printf("%s  %q  %d turns, %d chunks, %s\n",
		id, title, turns, chunks, transcript.SecondsToDisplay(durationSec))
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
