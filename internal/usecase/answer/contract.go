package answer

import (
	"context"

	"github.com/kailas-cloud/regask/internal/domain/passage"
)

// Retriever fetches candidate passages for a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]passage.Passage, error)
}

// Reranker orders candidates by relevance and keeps the best topK.
type Reranker interface {
	Rerank(ctx context.Context, query string, passages []passage.Passage, topK int) ([]passage.Passage, error)
}

// Rewriter turns ranked passages into a plain-language answer for question.
// Implementations build their context with passage.JoinTexts.
type Rewriter interface {
	Rewrite(ctx context.Context, passages []passage.Passage, question string) (string, error)
}
