package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/pulseboard/pulseboard/internal/engine"
	"github.com/pulseboard/pulseboard/internal/feedback"
)

// Ingestor accepts new feedback records. Implemented by the store.
type Ingestor interface {
	InsertFeedback(ctx context.Context, r feedback.Record) (uuid.UUID, error)
}

type Server struct {
	router   *chi.Mux
	port     int
	apiToken string
	engine   *engine.Engine
	ingest   Ingestor
	logger   *slog.Logger
}

func NewServer(port int, apiToken string, eng *engine.Engine, ingest Ingestor, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:   router,
		port:     port,
		apiToken: apiToken,
		engine:   eng,
		ingest:   ingest,
		logger:   logger,
	}

	router.Get("/health", s.health)
	router.Get("/api/v1/pulseboard/status", s.status)

	router.Route("/api/v1/tenants/{tenantID}", func(r chi.Router) {
		r.Use(BearerAuthMiddleware(apiToken))
		r.Get("/risk", s.computeRisk)
		r.Get("/segments/{segmentType}", s.classifySegments)
		r.Post("/feedback", s.ingestFeedback)
	})

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "pulseboard",
		"status":  "ready",
	})
}

// BearerAuthMiddleware rejects requests without the configured bearer
// token. An empty token disables the check (local development).
func BearerAuthMiddleware(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != token {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
