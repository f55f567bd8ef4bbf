package regask

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
	}{
		{"empty", ""},
		{"bad scheme", "ftp://example.com"},
		{"unparsable", "http://[::1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.baseURL); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	c, err := New("http://localhost:8000/")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.baseURL.String() != "http://localhost:8000" {
		t.Errorf("baseURL = %q", c.baseURL.String())
	}
	if c.http.Timeout != defaultTimeout {
		t.Errorf("timeout = %v, want %v", c.http.Timeout, defaultTimeout)
	}
}

func TestNew_Options(t *testing.T) {
	hc := &http.Client{Timeout: time.Second}
	c, err := New("https://api.example.com", WithAPIKey("k"), WithHTTPClient(hc))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.apiKey != "k" {
		t.Errorf("apiKey = %q", c.apiKey)
	}
	if c.http != hc {
		t.Error("custom http client not used")
	}
}

func TestAsk(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/ask" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		var req askRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Embedding-Tokens", "31")
		json.NewEncoder(w).Encode(askResponse{Question: req.Question, Answer: []string{"One", "Two"}})
	}))
	defer srv.Close()

	c, err := New(srv.URL, WithAPIKey("secret"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ans, err := c.Ask(context.Background(), "claims")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if ans.Question != "claims" {
		t.Errorf("Question = %q", ans.Question)
	}
	if len(ans.Bullets) != 2 || ans.Bullets[0] != "One" {
		t.Errorf("Bullets = %v", ans.Bullets)
	}
	if ans.EmbeddingTokens != 31 {
		t.Errorf("EmbeddingTokens = %d, want 31", ans.EmbeddingTokens)
	}
}

func TestAsk_APIErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
		code     string
		message  string
	}{
		{
			name:     "internal",
			status:   500,
			body:     `{"code":"internal_error","message":"retrieve candidates: retriever unavailable"}`,
			sentinel: ErrInternal,
			code:     "internal_error",
			message:  "retrieve candidates: retriever unavailable",
		},
		{
			name:     "unauthorized",
			status:   401,
			body:     `{"code":"unauthorized","message":"invalid api key"}`,
			sentinel: ErrUnauthorized,
			code:     "unauthorized",
			message:  "invalid api key",
		},
		{
			name:     "non-json body",
			status:   400,
			body:     "bad things\n",
			sentinel: ErrBadRequest,
			message:  "bad things",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c, _ := New(srv.URL)
			_, err := c.Ask(context.Background(), "q")
			if !errors.Is(err, tt.sentinel) {
				t.Fatalf("expected %v, got %v", tt.sentinel, err)
			}
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %T", err)
			}
			if apiErr.Code != tt.code || apiErr.Message != tt.message {
				t.Errorf("APIError = %+v", apiErr)
			}
		})
	}
}

func TestAsk_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, _ := New(url)
	_, err := c.Ask(context.Background(), "q")
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Errorf("transport error must not be an APIError: %v", err)
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    HealthReport
		healthy bool
		wantErr error
	}{
		{
			name:    "ok",
			status:  200,
			body:    HealthReport{Status: "ok", Checks: map[string]string{"index": "ok"}},
			healthy: true,
		},
		{
			name:    "degraded",
			status:  503,
			body:    HealthReport{Status: "degraded", Checks: map[string]string{"index": "error"}},
			wantErr: ErrUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/health" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(tt.body)
			}))
			defer srv.Close()

			c, _ := New(srv.URL)
			report, err := c.Health(context.Background())
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Health: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if report == nil {
				t.Fatal("expected report")
			}
			if report.Healthy() != tt.healthy {
				t.Errorf("Healthy() = %v, want %v", report.Healthy(), tt.healthy)
			}
		})
	}
}

func TestWithPrometheus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"code":"internal_error","message":"boom"}`))
	}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	c, err := New(srv.URL, WithPrometheus(reg))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	// Second client on the same registry reuses the collectors.
	c2, err := New(srv.URL, WithPrometheus(reg))
	if err != nil {
		t.Fatalf("New (reuse): %v", err)
	}

	_, _ = c.Ask(context.Background(), "q")
	_, _ = c2.Ask(context.Background(), "q")

	got := testutil.ToFloat64(c.obs.metrics.calls.WithLabelValues("ask", "api_error"))
	if got != 2 {
		t.Errorf("api_error calls = %v, want 2", got)
	}
}

func TestObserver_Nil(t *testing.T) {
	var o *observer
	o.observe("ask", time.Now(), errors.New("x"))
}
