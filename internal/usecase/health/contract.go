package health

import "context"

// IndexChecker checks vector index availability.
type IndexChecker interface {
	Ping(ctx context.Context) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// ProviderChecker checks an upstream model provider (embedding or rewriter).
type ProviderChecker interface {
	HealthCheck(ctx context.Context) error
}
