package answer

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/poiesic/minuted/ai"
)

// maxRewriteQueries caps how many query variants one question expands to.
const maxRewriteQueries = 3

type rewriteResponse struct {
	Queries []string `json:"queries"`
}

// rewriteQueries expands a question into retrieval-friendly query
// variants. Any failure, malformed output or empty result falls back to
// the question itself: retrieval always has at least one query.
func (a *Answerer) rewriteQueries(ctx context.Context, question string) []string {
	raw, err := a.generator.Generate(ctx, ai.GenerateRequest{
		System:      rewriteSystemPrompt,
		User:        question,
		Temperature: 0.2,
		JSONMode:    true,
		MaxTokens:   150,
	})
	if err != nil {
		a.logger.Warn("query rewrite failed, using question verbatim", "error", err)
		return []string{question}
	}

	queries := parseRewrite(raw)
	if len(queries) == 0 {
		return []string{question}
	}
	return queries
}

func parseRewrite(raw string) []string {
	var decoded rewriteResponse
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &decoded); err != nil {
		return nil
	}

	seen := make(map[string]bool, len(decoded.Queries))
	var queries []string
	for _, q := range decoded.Queries {
		q = strings.TrimSpace(q)
		key := strings.ToLower(q)
		if q == "" || seen[key] {
			continue
		}
		seen[key] = true
		queries = append(queries, q)
		if len(queries) >= maxRewriteQueries {
			break
		}
	}
	return queries
}
