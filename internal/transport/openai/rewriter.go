package openai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/regask/internal/domain"
	"github.com/kailas-cloud/regask/internal/domain/passage"
	"github.com/kailas-cloud/regask/internal/metrics"
)

const driverName = "openai"

// RewriterConfig holds chat completion settings.
type RewriterConfig struct {
	Config
	Temperature float32
	MaxTokens   int
}

// Rewriter turns passages into a plain-language answer via chat completions.
type Rewriter struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	logger      *zap.Logger
}

// NewRewriter creates an OpenAI-compatible rewriter.
func NewRewriter(cfg *RewriterConfig) *Rewriter {
	return &Rewriter{
		client:      newClient(&cfg.Config),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		logger:      cfg.Logger,
	}
}

// Rewrite sends the rewriting prompt as a single user message and returns the reply text.
func (r *Rewriter) Rewrite(ctx context.Context, passages []passage.Passage, question string) (string, error) {
	prompt := domain.RewritePrompt(question, passage.JoinTexts(passages))

	req := openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: r.temperature,
		MaxTokens:   r.maxTokens,
	}

	start := time.Now()
	resp, err := r.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.RewriterRequestsTotal.WithLabelValues(driverName, r.model, "error").Inc()
		return "", parseAPIError("chat", domain.ErrRewriterError, err)
	}
	if len(resp.Choices) == 0 {
		metrics.RewriterRequestsTotal.WithLabelValues(driverName, r.model, "error").Inc()
		return "", fmt.Errorf("empty chat completion response: %w", domain.ErrRewriterError)
	}

	metrics.RewriterRequestsTotal.WithLabelValues(driverName, r.model, "success").Inc()
	metrics.RewriterRequestDuration.WithLabelValues(driverName, r.model).Observe(duration.Seconds())

	r.logger.Debug("Rewrite completed",
		zap.String("model", r.model),
		zap.Duration("duration", duration),
		zap.Int("passages", len(passages)),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.String("finish_reason", string(resp.Choices[0].FinishReason)),
	)

	return resp.Choices[0].Message.Content, nil
}

// HealthCheck verifies API availability via ListModels.
func (r *Rewriter) HealthCheck(ctx context.Context) error {
	if _, err := r.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}
