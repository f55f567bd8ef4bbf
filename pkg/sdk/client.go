package regask

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultTimeout  = 2 * time.Minute
	maxErrorBodyLen = 4096
)

// Answer is a plain-language answer to one question.
type Answer struct {
	Question string
	Bullets  []string
	// EmbeddingTokens is the provider token count reported by the server, 0 if absent.
	EmbeddingTokens int
}

// HealthReport is the aggregated service health.
type HealthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
	Errors map[string]string `json:"errors,omitempty"`
}

// Healthy reports whether every component passed.
func (h *HealthReport) Healthy() bool {
	return h.Status == "ok"
}

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Question string   `json:"question"`
	Answer   []string `json:"answer"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Client is the regask API entry point. It is safe for concurrent use.
type Client struct {
	baseURL *url.URL
	apiKey  string
	http    *http.Client
	obs     *observer
}

// New creates a Client for the API at baseURL (e.g. "http://localhost:8000").
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("regask: base URL required")
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("regask: parse base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("regask: unsupported URL scheme %q", u.Scheme)
	}

	cfg := &clientConfig{timeout: defaultTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.timeout}
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return &Client{baseURL: u, apiKey: cfg.apiKey, http: hc, obs: obs}, nil
}

// Ask sends a question and returns the bullet-point answer.
func (c *Client) Ask(ctx context.Context, question string) (ans *Answer, err error) {
	start := time.Now()
	defer func() { c.obs.observe("ask", start, err) }()

	body, err := json.Marshal(askRequest{Question: question})
	if err != nil {
		return nil, fmt.Errorf("regask: encode request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/ask", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}

	var out askResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("regask: decode answer: %w", err)
	}

	tokens, _ := strconv.Atoi(resp.Header.Get("X-Embedding-Tokens"))
	return &Answer{Question: out.Question, Bullets: out.Answer, EmbeddingTokens: tokens}, nil
}

// Health fetches the aggregated health report. A degraded service returns
// the report together with an error matching ErrUnavailable.
func (c *Client) Health(ctx context.Context) (report *HealthReport, err error) {
	start := time.Now()
	defer func() { c.obs.observe("health", start, err) }()

	resp, err := c.do(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusServiceUnavailable:
	default:
		return nil, decodeAPIError(resp)
	}

	var out HealthReport
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("regask: decode health: %w", err)
	}
	if resp.StatusCode == http.StatusServiceUnavailable {
		return &out, &APIError{StatusCode: resp.StatusCode, Code: out.Status, Message: "service degraded"}
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var rd io.Reader = http.NoBody
	if body != nil {
		rd = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, rd)
	if err != nil {
		return nil, fmt.Errorf("regask: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("regask: %s %s: %w", method, path, err)
	}
	return resp, nil
}

func decodeAPIError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLen))

	apiErr := &APIError{StatusCode: resp.StatusCode}
	var er errorResponse
	if json.Unmarshal(data, &er) == nil && (er.Code != "" || er.Message != "") {
		apiErr.Code = er.Code
		apiErr.Message = er.Message
	} else {
		apiErr.Message = strings.TrimSpace(string(data))
	}
	return apiErr
}
