package health

import (
	"context"
	"errors"
	"fmt"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckMissing indicates a reachable index without the passage index.
	CheckMissing CheckResult = "missing"
)

// Component names in Report.Checks.
const (
	ComponentIndex     = "index"
	ComponentEmbedding = "embedding"
	ComponentRewriter  = "rewriter"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
	Errors map[string]string
}

// Service coordinates health checks.
type Service struct {
	index     IndexChecker
	indexName string
	embedding ProviderChecker
	rewriter  ProviderChecker
}

// New creates a Service. embedding and rewriter can be nil.
func New(index IndexChecker, indexName string, embedding, rewriter ProviderChecker) *Service {
	return &Service{index: index, indexName: indexName, embedding: embedding, rewriter: rewriter}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	r := Report{Status: Healthy, Checks: make(map[string]CheckResult), Errors: make(map[string]string)}

	r.record(ComponentIndex, s.checkIndex(ctx))

	if s.embedding != nil {
		r.record(ComponentEmbedding, s.embedding.HealthCheck(ctx))
	}
	if s.rewriter != nil {
		r.record(ComponentRewriter, s.rewriter.HealthCheck(ctx))
	}

	return r
}

var errIndexMissing = errors.New("index not found")

func (s *Service) checkIndex(ctx context.Context) error {
	if err := s.index.Ping(ctx); err != nil {
		return err
	}
	ok, err := s.index.IndexExists(ctx, s.indexName)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s: %w", s.indexName, errIndexMissing)
	}
	return nil
}

func (r *Report) record(component string, err error) {
	switch {
	case err == nil:
		r.Checks[component] = CheckOK
		return
	case errors.Is(err, errIndexMissing):
		r.Checks[component] = CheckMissing
	default:
		r.Checks[component] = CheckError
	}
	r.Errors[component] = err.Error()
	r.Status = Degraded
}
