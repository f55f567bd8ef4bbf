package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/regask/internal/domain"
	"github.com/kailas-cloud/regask/internal/domain/passage"
	"github.com/kailas-cloud/regask/internal/metrics"
)

type chatRequest struct {
	Model       string  `json:"model"`
	Temperature float32 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func chatServer(t *testing.T, content string, captured *chatRequest) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if captured != nil {
			if err := json.NewDecoder(r.Body).Decode(captured); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"model":   "gpt-test",
			"choices": []map[string]any{{"index": 0, "finish_reason": "stop", "message": map[string]any{"role": "assistant", "content": content}}},
			"usage":   map[string]any{"prompt_tokens": 50, "completion_tokens": 10, "total_tokens": 60},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestRewriter(url string) *Rewriter {
	return NewRewriter(&RewriterConfig{
		Config: Config{
			APIKey:  "test-key",
			BaseURL: url,
			Model:   "gpt-test",
			Logger:  zap.NewNop(),
		},
		Temperature: 0.2,
		MaxTokens:   256,
	})
}

func TestRewriter_Rewrite(t *testing.T) {
	var req chatRequest
	server := chatServer(t, "- Claims must be filed in 30 days.", &req)

	passages := []passage.Passage{
		passage.New("p1", "Claims shall be lodged within thirty days.", nil),
		passage.New("p2", "The insurer shall acknowledge receipt.", nil),
	}

	before := testutil.ToFloat64(metrics.RewriterRequestsTotal.WithLabelValues("openai", "gpt-test", "success"))

	got, err := newTestRewriter(server.URL).Rewrite(context.Background(), passages, "How long do I have?")
	if err != nil {
		t.Fatalf("Rewrite failed: %v", err)
	}
	if got != "- Claims must be filed in 30 days." {
		t.Errorf("unexpected answer: %q", got)
	}

	if req.Model != "gpt-test" {
		t.Errorf("model = %q, expected gpt-test", req.Model)
	}
	if req.MaxTokens != 256 {
		t.Errorf("max_tokens = %d, expected 256", req.MaxTokens)
	}
	if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
		t.Fatalf("expected a single user message, got %+v", req.Messages)
	}
	prompt := req.Messages[0].Content
	if !strings.Contains(prompt, "How long do I have?") {
		t.Error("prompt does not contain the question")
	}
	if !strings.Contains(prompt, "Claims shall be lodged within thirty days.\n\nThe insurer shall acknowledge receipt.") {
		t.Error("prompt does not contain the joined context")
	}

	after := testutil.ToFloat64(metrics.RewriterRequestsTotal.WithLabelValues("openai", "gpt-test", "success"))
	if after-before != 1 {
		t.Errorf("success counter delta = %v, expected 1", after-before)
	}
}

func TestRewriter_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[]}`))
	}))
	defer server.Close()

	_, err := newTestRewriter(server.URL).Rewrite(context.Background(), nil, "q")
	if !errors.Is(err, domain.ErrRewriterError) {
		t.Fatalf("expected ErrRewriterError, got %v", err)
	}
}

func TestRewriter_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid api key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	_, err := newTestRewriter(server.URL).Rewrite(context.Background(), nil, "q")
	if !errors.Is(err, domain.ErrRewriterError) {
		t.Fatalf("expected ErrRewriterError, got %v", err)
	}
	if !strings.Contains(err.Error(), "invalid api key") {
		t.Errorf("expected API message in error, got %q", err.Error())
	}
}

func TestRewriter_ContextCanceled(t *testing.T) {
	server := chatServer(t, "unused", nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestRewriter(server.URL).Rewrite(ctx, nil, "q")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if !errors.Is(err, domain.ErrRewriterError) {
		t.Errorf("expected ErrRewriterError, got %v", err)
	}
}
