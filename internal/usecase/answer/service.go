package answer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/regask/internal/domain/passage"
	"github.com/kailas-cloud/regask/internal/logger"
	"github.com/kailas-cloud/regask/internal/metrics"
)

// Default pipeline sizes.
const (
	DefaultCandidateK = 8
	DefaultTopK       = 3
)

// Answer is the plain-language response to one question.
type Answer struct {
	Question string
	Bullets  []string
}

// Config sizes the retrieval and reranking stages.
type Config struct {
	CandidateK int
	TopK       int
}

// Service answers questions: normalize, retrieve, deduplicate, rerank, rewrite, format.
type Service struct {
	retriever Retriever
	reranker  Reranker
	rewriter  Rewriter
	cfg       Config
}

// New creates the answer service. Zero config values fall back to the defaults.
func New(retriever Retriever, reranker Reranker, rewriter Rewriter, cfg Config) *Service {
	if cfg.CandidateK == 0 {
		cfg.CandidateK = DefaultCandidateK
	}
	if cfg.TopK == 0 {
		cfg.TopK = DefaultTopK
	}
	return &Service{retriever: retriever, reranker: reranker, rewriter: rewriter, cfg: cfg}
}

// Ask runs the full pipeline for question. Any stage failure aborts the request
// with no partial answer. An empty retrieval still reaches the rewriter, whose
// empty-context output ends in the fallback bullet.
func (s *Service) Ask(ctx context.Context, question string) (Answer, error) {
	query := NormalizeQuery(question)

	start := time.Now()
	candidates, err := s.retriever.Retrieve(ctx, query, s.cfg.CandidateK)
	observe(metrics.StageRetrieve, start)
	if err != nil {
		return Answer{}, fmt.Errorf("retrieve candidates: %w", err)
	}

	unique := passage.Deduplicate(candidates)

	start = time.Now()
	ranked, err := s.reranker.Rerank(ctx, query, unique, s.cfg.TopK)
	observe(metrics.StageRerank, start)
	if err != nil {
		return Answer{}, fmt.Errorf("rerank: %w", err)
	}

	start = time.Now()
	raw, err := s.rewriter.Rewrite(ctx, ranked, question)
	observe(metrics.StageRewrite, start)
	if err != nil {
		return Answer{}, fmt.Errorf("rewrite: %w", err)
	}

	bullets := FormatBullets(raw)

	logger.FromContext(ctx).Debug("Answer pipeline completed",
		zap.String("query", query),
		zap.Int("candidates", len(candidates)),
		zap.Int("unique", len(unique)),
		zap.Int("ranked", len(ranked)),
		zap.Int("bullets", len(bullets)),
	)

	return Answer{Question: question, Bullets: bullets}, nil
}

func observe(stage string, start time.Time) {
	metrics.PipelineStageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}
