package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/regask/internal/domain/passage"
)

// Service fetches candidate passages from the persistent vector index.
type Service struct {
	repo  Repository
	embed Embedder
}

// New creates a retrieval service. embed is the query embedder; it may add an
// instruction prefix the passage side never sees.
func New(repo Repository, embed Embedder) *Service {
	return &Service{repo: repo, embed: embed}
}

// Retrieve returns at most k passages most similar to query, in index order.
// A blank query or non-positive k returns an empty slice without touching the index.
func (s *Service) Retrieve(ctx context.Context, query string, k int) ([]passage.Passage, error) {
	if k <= 0 || strings.TrimSpace(query) == "" {
		return []passage.Passage{}, nil
	}

	emb, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	found, err := s.repo.SearchKNN(ctx, emb.Embedding, k)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}
	if len(found) > k {
		found = found[:k]
	}
	return found, nil
}
