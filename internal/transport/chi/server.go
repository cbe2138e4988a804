package chi

import (
	"errors"
	"net/http"

	gochi "github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain"
	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain/session"
	logpkg "github.com/Emberalive/laptop-chatbot-sub000/internal/logger"
	healthuc "github.com/Emberalive/laptop-chatbot-sub000/internal/usecase/health"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 64 << 10

// errorMapping binds a sentinel error to an HTTP status and code.
type errorMapping struct {
	sentinel error
	status   int
	code     ErrorCode
}

// Server serves the conversation API.
type Server struct {
	engine   Engine
	sessions Sessions
	health   HealthChecker
	logger   *zap.Logger
	// errorMappings are matched in order; the first errors.Is hit wins.
	errorMappings []errorMapping
}

// NewServer creates an HTTP API server.
func NewServer(engine Engine, sessions Sessions, health HealthChecker, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		engine:   engine,
		sessions: sessions,
		health:   health,
		logger:   logger,
		errorMappings: []errorMapping{
			{domain.ErrSessionNotFound, http.StatusNotFound, ErrorCodeSessionNotFound},
			{domain.ErrInvalidInput, http.StatusBadRequest, ErrorCodeBadRequest},
			{domain.ErrEmbeddingProviderError, http.StatusBadGateway, ErrorCodeEmbeddingProviderError},
			{domain.ErrEmptyCatalog, http.StatusServiceUnavailable, ErrorCodeCatalogEmpty},
		},
	}
}

// Routes mounts the API on r.
func (s *Server) Routes(r gochi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/v1/sessions", func(r gochi.Router) {
		r.Post("/", s.CreateSession)
		r.Route("/{session}", func(r gochi.Router) {
			r.Delete("/", s.DeleteSession)
			r.Post("/messages", s.SendMessage)
			r.Post("/reset", s.ResetSession)
		})
	})
}

// CreateSession handles POST /v1/sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create()
	log := logpkg.FromContext(logpkg.WithSession(r.Context(), sess.ID))
	log.Info("Session started")

	writeJSON(w, http.StatusCreated, turnToAPI(sess.ID, s.engine.Greeting(sess)))
}

// SendMessage handles POST /v1/sessions/{session}/messages.
func (s *Server) SendMessage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	ctx := logpkg.WithSession(r.Context(), sess.ID)

	var req MessageRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "invalid request body")
		return
	}

	resp, err := s.engine.ProcessInput(ctx, sess, req.Message)
	body := turnToAPI(sess.ID, resp)
	if err != nil {
		logpkg.FromContext(ctx).Warn("Turn failed", zap.Error(err))
		status, code := s.classify(err)
		body.Error = code
		writeJSON(w, status, body)
		return
	}
	writeJSON(w, http.StatusOK, body)
}

// ResetSession handles POST /v1/sessions/{session}/reset.
func (s *Server) ResetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	logpkg.FromContext(logpkg.WithSession(r.Context(), sess.ID)).Info("Session reset")

	writeJSON(w, http.StatusOK, turnToAPI(sess.ID, s.engine.Reset(sess)))
}

// DeleteSession handles DELETE /v1/sessions/{session}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := gochi.URLParam(r, "session")
	if err := s.sessions.Delete(id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	logpkg.FromContext(logpkg.WithSession(r.Context(), id)).Info("Session ended")
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, healthToAPI(report))
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Get(gochi.URLParam(r, "session"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) classify(err error) (int, ErrorCode) {
	for _, m := range s.errorMappings {
		if errors.Is(err, m.sentinel) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, ErrorCodeInternalError
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func (s *Server) safeDomainMessage(err error) string {
	for _, m := range s.errorMappings {
		if errors.Is(err, m.sentinel) {
			return m.sentinel.Error()
		}
	}
	return "internal error"
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context())
	status, code := s.classify(err)
	if status == http.StatusInternalServerError {
		log.Error("internal error", zap.Error(err))
	} else {
		log.Warn("domain error", zap.Error(err))
	}
	writeError(w, status, code, s.safeDomainMessage(err))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}
