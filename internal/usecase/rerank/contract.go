package rerank

import (
	"context"

	"github.com/kailas-cloud/regask/internal/domain"
)

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// SkipCounter counts passages dropped because their embedding failed.
type SkipCounter interface {
	Inc()
}
