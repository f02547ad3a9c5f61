// Package server exposes the organizer's HTTP API.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/normanking/nextup/internal/assistant"
	"github.com/normanking/nextup/internal/config"
	"github.com/normanking/nextup/internal/metrics"
	"github.com/normanking/nextup/internal/storage"
)

// Server represents the HTTP server.
type Server struct {
	cfg        *config.Config
	store      storage.Store
	assist     *assistant.Assistant
	httpServer *http.Server
	startTime  time.Time
	logger     *slog.Logger
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Uptime    string `json:"uptime"`
	Timestamp string `json:"timestamp"`
}

// errorResponse is the JSON body for any non-2xx reply.
type errorResponse struct {
	Error string `json:"error"`
}

// New creates a new HTTP server over the given store and assistant.
func New(cfg *config.Config, store storage.Store, assist *assistant.Assistant, logger *slog.Logger) *Server {
	s := &Server{
		cfg:       cfg,
		store:     store,
		assist:    assist,
		logger:    logger,
		startTime: time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.instrument("/health", s.healthHandler))
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/api/tasks", s.instrument("/api/tasks", s.tasksHandler))
	mux.HandleFunc("/api/tasks/", s.instrument("/api/tasks/{id}", s.taskByIDHandler))
	mux.HandleFunc("/api/projects", s.instrument("/api/projects", s.projectsHandler))
	mux.HandleFunc("/api/projects/", s.instrument("/api/projects/{id}", s.projectByIDHandler))
	mux.HandleFunc("/api/areas", s.instrument("/api/areas", s.areasHandler))
	mux.HandleFunc("/api/areas/reorder", s.instrument("/api/areas/reorder", s.reorderAreasHandler))
	mux.HandleFunc("/api/areas/", s.instrument("/api/areas/{id}", s.areaByIDHandler))
	mux.HandleFunc("/api/goals", s.instrument("/api/goals", s.goalsHandler))
	mux.HandleFunc("/api/goals/", s.instrument("/api/goals/{id}", s.goalByIDHandler))
	mux.HandleFunc("/api/ai/chat", s.instrument("/api/ai/chat", s.chatHandler))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second, // chat turns wait on the model
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the server's root handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("HTTP server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument wraps a handler with request counting and latency observation.
func (s *Server) instrument(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next(rec, r)
		metrics.RequestsTotal.WithLabelValues(r.Method, endpoint, strconv.Itoa(rec.status)).Inc()
		metrics.RequestDuration.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}

// healthHandler handles health check requests.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Version:   "1.0.0",
		Uptime:    time.Since(s.startTime).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}
