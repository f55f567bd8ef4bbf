package retrieval

import (
	"context"

	"github.com/kailas-cloud/regask/internal/domain"
	"github.com/kailas-cloud/regask/internal/domain/passage"
)

// Repository defines the vector index contract for retrieval.
type Repository interface {
	SearchKNN(ctx context.Context, vector []float32, k int) ([]passage.Passage, error)
}

// Embedder vectorizes the search query.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
