package domain

import "errors"

var (
	// ErrDimensionMismatch signals vectors of different lengths.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrRetrieverUnavailable signals a vector index failure.
	ErrRetrieverUnavailable = errors.New("retriever unavailable")
	// ErrRewriterError signals a text generation failure.
	ErrRewriterError = errors.New("rewriter error")
	// ErrInvalidInput signals malformed caller input.
	ErrInvalidInput = errors.New("invalid input")
)
