// Package ollama implements the rewriter over a local Ollama server.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"

	"github.com/kailas-cloud/regask/internal/domain"
	"github.com/kailas-cloud/regask/internal/domain/passage"
	"github.com/kailas-cloud/regask/internal/metrics"
)

const (
	driverName = "ollama"

	DefaultModel   = "llama3"
	DefaultBaseURL = "http://localhost:11434"
)

// Config holds Ollama rewriter settings.
type Config struct {
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	HTTPClient  *http.Client
	Logger      *zap.Logger
}

// Rewriter generates plain-language answers with an Ollama chat model.
type Rewriter struct {
	llm         llms.Model
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewRewriter creates an Ollama-backed rewriter.
func NewRewriter(cfg Config) (*Rewriter, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	llm, err := ollama.New(
		ollama.WithModel(cfg.Model),
		ollama.WithServerURL(cfg.BaseURL),
	)
	if err != nil {
		return nil, fmt.Errorf("init ollama: %w", err)
	}

	return &Rewriter{
		llm:         llm,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		httpClient:  cfg.HTTPClient,
		logger:      cfg.Logger,
	}, nil
}

// Rewrite sends the rewriting prompt as a single human message.
func (r *Rewriter) Rewrite(ctx context.Context, passages []passage.Passage, question string) (string, error) {
	prompt := domain.RewritePrompt(question, passage.JoinTexts(passages))

	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}

	opts := []llms.CallOption{llms.WithTemperature(r.temperature)}
	if r.maxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(r.maxTokens))
	}

	start := time.Now()
	resp, err := r.llm.GenerateContent(ctx, content, opts...)
	duration := time.Since(start)

	if err != nil {
		metrics.RewriterRequestsTotal.WithLabelValues(driverName, r.model, "error").Inc()
		return "", fmt.Errorf("ollama chat: %w: %w", domain.ErrRewriterError, err)
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		metrics.RewriterRequestsTotal.WithLabelValues(driverName, r.model, "error").Inc()
		return "", fmt.Errorf("empty ollama response: %w", domain.ErrRewriterError)
	}

	metrics.RewriterRequestsTotal.WithLabelValues(driverName, r.model, "success").Inc()
	metrics.RewriterRequestDuration.WithLabelValues(driverName, r.model).Observe(duration.Seconds())

	r.logger.Debug("Rewrite completed",
		zap.String("model", r.model),
		zap.Duration("duration", duration),
		zap.Int("passages", len(passages)),
	)

	return resp.Choices[0].Content, nil
}

// HealthCheck probes GET /api/version.
func (r *Rewriter) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/api/version", http.NoBody)
	if err != nil {
		return fmt.Errorf("build version request: %w", err)
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ollama version: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama version: unexpected status %d", resp.StatusCode)
	}
	return nil
}
