package chi

import (
	"context"

	"github.com/kailas-cloud/regask/internal/usecase/answer"
	healthuc "github.com/kailas-cloud/regask/internal/usecase/health"
)

// Asker answers a single question.
type Asker interface {
	Ask(ctx context.Context, question string) (answer.Answer, error)
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
