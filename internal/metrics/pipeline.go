package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pipeline stage labels for PipelineStageDuration.
const (
	StageRetrieve = "retrieve"
	StageRerank   = "rerank"
	StageRewrite  = "rewrite"
)

// Answer pipeline Prometheus metrics.
var (
	RewriterRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rewriter_requests_total",
			Help:      "Total number of rewriter requests",
		},
		[]string{"driver", "model", "status"},
	)

	RewriterRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rewriter_request_duration_seconds",
			Help:      "Rewriter request duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
		[]string{"driver", "model"},
	)

	RerankSkippedPassagesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rerank_skipped_passages_total",
			Help:      "Passages dropped by the reranker because their embedding failed",
		},
	)

	PipelineStageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_stage_duration_seconds",
			Help:      "Duration of each answer pipeline stage in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"stage"},
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers rewriter, rerank and stage metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(RewriterRequestsTotal)
	prometheus.MustRegister(RewriterRequestDuration)
	prometheus.MustRegister(RerankSkippedPassagesTotal)
	prometheus.MustRegister(PipelineStageDuration)
	pipelineMetricsRegistered = true
}
