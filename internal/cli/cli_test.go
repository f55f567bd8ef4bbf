package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func init() {
	color.NoColor = true
}

type captured struct {
	questions []string
}

func newAPIServer(t *testing.T, health int, c *captured) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/ask":
			var req struct {
				Question string `json:"question"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			if c != nil {
				c.questions = append(c.questions, req.Question)
			}
			if req.Question == "fail" {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"code":"internal_error","message":"rewrite: rewriter error"}`))
				return
			}
			json.NewEncoder(w).Encode(map[string]any{
				"question": req.Question,
				"answer":   []string{"Claims must be filed within 30 days.", "Keep your receipts."},
			})
		case "/health":
			w.WriteHeader(health)
			status, idx := "ok", "ok"
			if health != http.StatusOK {
				status, idx = "degraded", "error"
			}
			json.NewEncoder(w).Encode(map[string]any{
				"status": status,
				"checks": map[string]string{"index": idx, "embedding": "ok"},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAsk_SingleQuestion(t *testing.T) {
	c := &captured{}
	srv := newAPIServer(t, http.StatusOK, c)

	out, err := run(t, "", "--server", srv.URL, "ask", "how", "long", "to", "claim?")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if len(c.questions) != 1 || c.questions[0] != "how long to claim?" {
		t.Errorf("questions = %v", c.questions)
	}
	if !strings.Contains(out, "• Claims must be filed within 30 days.\n") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestAsk_JSON(t *testing.T) {
	srv := newAPIServer(t, http.StatusOK, nil)

	out, err := run(t, "", "--server", srv.URL, "ask", "claims", "--json")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	var got struct {
		Question string   `json:"question"`
		Answer   []string `json:"answer"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got.Question != "claims" || len(got.Answer) != 2 {
		t.Errorf("got %+v", got)
	}
}

func TestAsk_ServerError(t *testing.T) {
	srv := newAPIServer(t, http.StatusOK, nil)

	_, err := run(t, "", "--server", srv.URL, "ask", "fail")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "rewriter error") {
		t.Errorf("error = %v", err)
	}
}

func TestAsk_Interactive(t *testing.T) {
	c := &captured{}
	srv := newAPIServer(t, http.StatusOK, c)

	out, err := run(t, "first question\n\nfail\nsecond\nexit\nnever asked\n", "--server", srv.URL, "ask")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	want := []string{"first question", "fail", "second"}
	if strings.Join(c.questions, "|") != strings.Join(want, "|") {
		t.Errorf("questions = %v, want %v", c.questions, want)
	}
	if !strings.Contains(out, "Error: ask: ") {
		t.Errorf("expected inline error in output:\n%s", out)
	}
}

func TestHealth(t *testing.T) {
	srv := newAPIServer(t, http.StatusOK, nil)

	out, err := run(t, "", "--server", srv.URL, "health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if !strings.Contains(out, "status: ok") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if strings.Index(out, "embedding") > strings.Index(out, "index") {
		t.Errorf("checks not sorted:\n%s", out)
	}
}

func TestHealth_Degraded(t *testing.T) {
	srv := newAPIServer(t, http.StatusServiceUnavailable, nil)

	out, err := run(t, "", "--server", srv.URL, "health")
	if err == nil {
		t.Fatal("expected error for degraded service")
	}
	if !strings.Contains(out, "status: degraded") {
		t.Errorf("unexpected output:\n%s", out)
	}
}
