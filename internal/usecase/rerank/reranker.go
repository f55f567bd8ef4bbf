package rerank

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/kailas-cloud/regask/internal/domain/passage"
	"github.com/kailas-cloud/regask/internal/logger"
	"github.com/kailas-cloud/regask/internal/similarity"
)

// Reranker orders passages by cosine similarity between the query embedding
// and each passage embedding. It issues exactly 1+len(passages) embed calls
// per Rerank and keeps no state between calls.
type Reranker struct {
	embed   Embedder
	skipped SkipCounter
}

// New creates a reranker. skipped may be nil.
func New(embed Embedder, skipped SkipCounter) *Reranker {
	return &Reranker{embed: embed, skipped: skipped}
}

type scored struct {
	score float64
	p     passage.Passage
}

// Rerank returns at most topK passages in descending similarity to query.
// Ties keep their input order. A passage whose embedding fails is dropped;
// a failed query embedding or a dimension mismatch aborts the call.
func (r *Reranker) Rerank(
	ctx context.Context, query string, passages []passage.Passage, topK int,
) ([]passage.Passage, error) {
	if len(passages) == 0 {
		return []passage.Passage{}, nil
	}

	q, err := r.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	log := logger.FromContext(ctx)
	candidates := make([]scored, 0, len(passages))

	for i, p := range passages {
		emb, err := r.embed.Embed(ctx, p.Text())
		if err != nil {
			// Cancellation is not a per-passage failure.
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("embed passage %d: %w", i, ctxErr)
			}
			log.Warn("Skipping passage, embedding failed",
				zap.Int("index", i),
				zap.String("passage_id", p.ID()),
				zap.Error(err),
			)
			if r.skipped != nil {
				r.skipped.Inc()
			}
			continue
		}

		s, err := similarity.Cosine(q.Embedding, emb.Embedding)
		if err != nil {
			return nil, fmt.Errorf("score passage %d: %w", i, err)
		}
		candidates = append(candidates, scored{score: s, p: p})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	n := min(max(topK, 0), len(candidates))
	out := make([]passage.Passage, n)
	for i := range n {
		out[i] = candidates[i].p
	}
	return out, nil
}
