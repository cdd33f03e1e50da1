// Package chi exposes the support assistant over HTTP: the chat endpoints,
// the SSE streaming endpoint, health and service metadata.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/RazakHamidu/lottomatica-support-ai/internal/domain"
	"github.com/RazakHamidu/lottomatica-support-ai/internal/logger"
	"github.com/RazakHamidu/lottomatica-support-ai/internal/metrics"
	chatuc "github.com/RazakHamidu/lottomatica-support-ai/internal/usecase/chat"
	healthuc "github.com/RazakHamidu/lottomatica-support-ai/internal/usecase/health"
	"github.com/RazakHamidu/lottomatica-support-ai/internal/version"
)

// Error codes returned to clients.
const (
	codeBadRequest        = "bad_request"
	codeEmptyMessage      = "empty_message"
	codeEmbeddingError    = "embedding_provider_error"
	codeGenerationError   = "generation_provider_error"
	codeInternalError     = "internal_error"
	codeStreamUnsupported = "streaming_unsupported"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server is the HTTP API for the support assistant.
type Server struct {
	chat          *chatuc.Service
	retriever     chatuc.Retriever
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	chat *chatuc.Service,
	retriever chatuc.Retriever,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		chat:      chat,
		retriever: retriever,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEmptyMessage, http.StatusBadRequest, codeEmptyMessage),
		sentinelHandler(domain.ErrEmbeddingProvider, http.StatusBadGateway, codeEmbeddingError),
		sentinelHandler(domain.ErrGenerationProvider, http.StatusBadGateway, codeGenerationError),
	}
	return s
}

// Router builds the chi router with the standard middleware chain.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.jsonRecoverer)
	r.Use(s.wideEvent)
	r.Use(metrics.Middleware())

	r.Get("/", s.Root)
	r.Get("/metrics", s.Metrics)
	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", s.Chat)
		r.Post("/chat/stream", s.ChatStream)
		r.Post("/retrieve", s.Retrieve)
		r.Post("/feedback", s.Feedback)
		r.Get("/health", s.HealthCheck)
	})
	return r
}

type chatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id"`
}

type chatResponse struct {
	Response       string          `json:"response"`
	ConversationID string          `json:"conversation_id"`
	Sources        []domain.Source `json:"sources"`
}

// Chat handles POST /api/chat.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	reply, err := s.chat.Respond(r.Context(), req.Message, req.ConversationID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	sources := reply.Sources
	if sources == nil {
		sources = []domain.Source{}
	}
	writeJSON(w, http.StatusOK, chatResponse{
		Response:       reply.Text,
		ConversationID: reply.ConversationID,
		Sources:        sources,
	})
}

// ChatStream handles POST /api/chat/stream. Events are delivered as
// server-sent events, one JSON payload per event.
func (s *Server) ChatStream(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, codeStreamUnsupported, "streaming not supported")
		return
	}

	events, err := s.chat.RespondStream(r.Context(), req.Message, req.ConversationID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	// Disable response buffering in nginx, or chunks arrive in one burst.
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for ev := range events {
		payload, err := json.Marshal(ev)
		if err != nil {
			s.logger.Error("marshal stream event", zap.Error(err))
			continue
		}
		if _, err := w.Write([]byte("data: ")); err != nil {
			return
		}
		if _, err := w.Write(payload); err != nil {
			return
		}
		if _, err := w.Write([]byte("\n\n")); err != nil {
			return
		}
		flusher.Flush()
	}
}

type retrieveRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

// Retrieve handles POST /api/retrieve. Exposes the knowledge base search
// without generation, for debugging and KB curation.
func (s *Server) Retrieve(w http.ResponseWriter, r *http.Request) {
	var req retrieveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, codeEmptyMessage, domain.ErrEmptyMessage.Error())
		return
	}

	docs, err := s.retriever.Retrieve(r.Context(), req.Query)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	n := len(docs)
	if req.TopK > 0 && req.TopK < n {
		n = req.TopK
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results": domain.TopSources(docs, n),
	})
}

type feedbackRequest struct {
	ConversationID string `json:"conversation_id"`
	MessageIndex   int    `json:"message_index"`
	Rating         int    `json:"rating"` // 1 positive, -1 negative
}

// Feedback handles POST /api/feedback. Feedback is recorded in the service
// log for offline review.
func (s *Server) Feedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	s.logger.Info("feedback received",
		zap.String("conversation_id", req.ConversationID),
		zap.Int("message_index", req.MessageIndex),
		zap.Int("rating", req.Rating),
	)

	writeJSON(w, http.StatusOK, map[string]string{"status": "received"})
}

// HealthCheck handles GET /api/health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":            report.Status,
		"knowledge_base_qa": report.Entries,
		"checks":            report.Checks,
	})
}

// Root handles GET /.
func (s *Server) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "Lottomatica Support AI",
		"version": version.Version,
		"status":  "running",
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// wideEvent emits a canonical log line per request and propagates X-Request-ID.
func (s *Server) wideEvent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := middleware.GetReqID(r.Context())
		if requestID != "" {
			w.Header().Set("X-Request-ID", requestID)
		}

		// Per-request logger with request_id
		reqLogger := s.logger.With(zap.String("request_id", requestID))
		ctx := logger.ContextWithLogger(r.Context(), reqLogger)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		reqLogger.Info("http_request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", r.RemoteAddr),
			zap.Int("response_bytes", ww.BytesWritten()),
		)
	})
}

// jsonRecoverer converts panics into a JSON 500 instead of a closed connection.
func (s *Server) jsonRecoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered",
					zap.Any("panic", rec),
					zap.String("path", r.URL.Path))
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrEmptyMessage,
		domain.ErrEmbeddingProvider,
		domain.ErrGenerationProvider,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
