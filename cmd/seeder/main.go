package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strings"

	minuted "github.com/poiesic/minuted"
	"github.com/poiesic/minuted/ingestion"
)

// Seeder generates synthetic meeting transcripts and indexes them, so a
// local stack can be exercised without real recordings. The same seed
// always produces the same transcripts.

var speakers = []string{
	"Alice",
	"Bob",
	"Carol",
	"Dmitri",
	"Elena",
	"Frank",
}

var utterances = []string{
	"Let's start with a quick status round before we dig in.",
	"The rollout is still on track for the end of the quarter.",
	"I pushed the migration yesterday and nothing caught fire.",
	"We need to decide on the retention window before Friday.",
	"The staging environment has been flaky all week.",
	"Can we circle back to the budget item from last time?",
	"The customer asked for an export feature again.",
	"I think we should cut that from the current milestone.",
	"Latency numbers improved after the cache change.",
	"The on-call rotation needs another volunteer for December.",
	"Let's keep the API surface frozen until the audit finishes.",
	"I'll take the action item to write up the incident report.",
	"The vendor quote came in higher than expected.",
	"We agreed to revisit the pricing model next month.",
	"The new hire starts Monday, so plan for onboarding time.",
	"Backups have been verified through last weekend.",
	"The dashboard redesign is blocked on the design review.",
	"I'd rather ship small and iterate than wait for the big bang.",
	"Compliance signed off on the data handling changes.",
	"Let's timebox this discussion to ten minutes.",
	"The load test peaked at four thousand requests per second.",
	"We should document the failover procedure before the holidays.",
	"That bug only reproduces under the old kernel.",
	"Marketing wants the announcement ready by the ninth.",
	"I'll sync with the platform team about the quota increase.",
	"The contract renewal is due at the end of the month.",
	"We moved the standup to nine thirty to cover both time zones.",
	"The error budget is nearly spent, so we freeze risky deploys.",
	"Let's take the rest of this offline.",
	"Any objections before we call it decided?",
}

var (
	dbPath         = flag.String("db", "./minuted-data", "path to the BadgerDB data directory")
	qdrantLocation = flag.String("qdrant", "http://localhost:6333", "Qdrant server location")
	meetingCount   = flag.Int("meetings", 3, "number of synthetic meetings to generate")
	turnCount      = flag.Int("turns", 60, "turns per generated transcript")
	seed           = flag.Int64("seed", 1, "random seed for deterministic output")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// generateTranscript renders one synthetic transcript. Timestamps advance
// by a few seconds per turn and speakers rotate with some randomness, so
// the output parses and chunks like a real meeting.
func generateTranscript(rng *rand.Rand, turns int) string {
	var b strings.Builder
	second := 0
	speaker := rng.Intn(len(speakers))

	for i := 0; i < turns; i++ {
		second += 4 + rng.Intn(18)
		if rng.Intn(3) > 0 {
			speaker = rng.Intn(len(speakers))
		}
		line := utterances[rng.Intn(len(utterances))]
		fmt.Fprintf(&b, "[%02d:%02d:%02d] %s: %s\n",
			second/3600, (second%3600)/60, second%60, speakers[speaker], line)
	}
	return b.String()
}

func run() error {
	engine, err := minuted.NewEngine(*dbPath, *qdrantLocation)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	pipeline, err := engine.NewIngestionPipeline()
	if err != nil {
		return fmt.Errorf("failed to create ingestion pipeline: %w", err)
	}
	defer pipeline.Release()

	rng := rand.New(rand.NewSource(*seed))
	ctx := context.Background()

	for i := 0; i < *meetingCount; i++ {
		title := fmt.Sprintf("Seeded meeting %d", i+1)
		file := ingestion.File{
			Name:    fmt.Sprintf("seeded-%02d.txt", i+1),
			Content: []byte(generateTranscript(rng, *turnCount)),
		}

		result, err := pipeline.Ingest(ctx, title, []ingestion.File{file})
		if err != nil {
			return fmt.Errorf("indexing %s: %w", file.Name, err)
		}
		slog.Info("seeded meeting",
			"id", result.Meeting.Id,
			"turns", result.Meeting.Stats.TurnCount,
			"chunks", result.Meeting.Stats.ChunkCount)
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		slog.Error("seeding failed", "error", err)
		os.Exit(1)
	}
}
