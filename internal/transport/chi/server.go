package chi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/regask/internal/domain"
	"github.com/kailas-cloud/regask/internal/logger"
	healthuc "github.com/kailas-cloud/regask/internal/usecase/health"
)

const maxAskBodyBytes = 1 << 20

// AskRequest is the body of POST /ask.
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse is the body of a successful POST /ask.
type AskResponse struct {
	Question string   `json:"question"`
	Answer   []string `json:"answer"`
}

// StatusResponse is the body of GET /.
type StatusResponse struct {
	Status string `json:"status"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
	Errors map[string]string `json:"errors,omitempty"`
}

// Server serves the question-answering HTTP API.
type Server struct {
	asker  Asker
	health HealthChecker
}

// NewServer creates an HTTP API server.
func NewServer(asker Asker, health HealthChecker) *Server {
	return &Server{asker: asker, health: health}
}

// Register mounts the API routes on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/", s.Root)
	r.Post("/ask", s.Ask)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Root handles GET /.
func (s *Server) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{Status: "API running successfully"})
}

// Ask handles POST /ask.
func (s *Server) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAskBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())

	ans, err := s.asker.Ask(ctx, req.Question)
	setEmbeddingHeaders(w, usage)
	if err != nil {
		logger.FromContext(ctx).Error("Ask failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, AskResponse{
		Question: ans.Question,
		Answer:   ans.Bullets,
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
		Errors: report.Errors,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func setEmbeddingHeaders(w http.ResponseWriter, usage *domain.EmbeddingUsage) {
	if usage != nil && usage.Calls > 0 {
		w.Header().Set("X-Embedding-Tokens", strconv.Itoa(usage.TotalTokens))
	}
}
