// Package server exposes the evaluator over HTTP for CI systems and
// editor integrations that prefer an API over shelling out.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/jingkaihe/skillgrade/pkg/evaluator"
	"github.com/jingkaihe/skillgrade/pkg/history"
	"github.com/jingkaihe/skillgrade/pkg/logger"
	"github.com/jingkaihe/skillgrade/pkg/report"
)

// Config holds the server listen address and feature toggles.
type Config struct {
	Host string
	Port int
	// HistoryPath is the history database location. Empty disables the
	// history endpoint.
	HistoryPath string
}

// Validate checks the listen configuration.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return errors.Errorf("invalid port: %d", c.Port)
	}
	return nil
}

// Server wires the evaluation API onto a router.
type Server struct {
	router *mux.Router
	config *Config
	store  *history.Store
	server *http.Server
}

// New builds a Server and its routes. When the config names a history
// path, the store is opened eagerly so startup fails fast on a bad
// database.
func New(ctx context.Context, config *Config) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid server configuration")
	}

	s := &Server{
		router: mux.NewRouter(),
		config: config,
	}

	if config.HistoryPath != "" {
		store, err := history.Open(ctx, config.HistoryPath)
		if err != nil {
			return nil, errors.Wrap(err, "opening history store")
		}
		s.store = store
	}

	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/evaluate", s.handleEvaluate).Methods("POST")
	api.HandleFunc("/history", s.handleHistory).Methods("GET")

	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")

	s.router.Use(s.loggingMiddleware)
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// evaluateRequest is the POST /api/evaluate body.
type evaluateRequest struct {
	Path       string `json:"path"`
	ConfigPath string `json:"config_path,omitempty"`
	Deep       bool   `json:"deep,omitempty"`
}

// evaluateResponse is the report plus the run id assigned by the history
// store. run_id is absent when the server runs without a store.
type evaluateResponse struct {
	*report.EvaluationReport
	RunID string `json:"run_id,omitempty"`
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Path == "" {
		s.writeError(w, http.StatusBadRequest, "path is required", nil)
		return
	}

	result, err := evaluator.Evaluate(r.Context(), req.Path, evaluator.Options{
		ConfigPath: req.ConfigPath,
		Deep:       req.Deep,
	})
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, "evaluation failed", err)
		return
	}

	resp := evaluateResponse{EvaluationReport: result}
	if s.store != nil {
		runID, err := s.store.Save(r.Context(), result)
		if err != nil {
			logger.G(r.Context()).WithError(err).Warn("failed to save evaluation to history")
		} else {
			resp.RunID = runID
		}
	}

	s.writeJSON(w, resp)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, http.StatusNotFound, "history store is not configured", nil)
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if _, err := fmt.Sscanf(v, "%d", &limit); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid limit", err)
			return
		}
	}

	entries, err := s.store.List(r.Context(), r.URL.Query().Get("skill"), limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to list history", err)
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	s.writeJSON(w, entries)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.L.WithError(err).Error("failed to encode JSON response")
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (s *Server) writeError(w http.ResponseWriter, statusCode int, message string, err error) {
	if err != nil {
		logger.L.WithError(err).Error(message)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := map[string]any{
		"error":  message,
		"status": statusCode,
	}
	if err != nil {
		response["detail"] = err.Error()
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.L.WithError(err).Error("failed to encode error response")
	}
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.G(r.Context()).
			WithField("method", r.Method).
			WithField("path", r.URL.Path).
			WithField("duration", time.Since(start).String()).
			Info("handled request")
	})
}

// Start serves until the context is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    address,
		Handler: s.router,
	}

	logger.G(ctx).WithField("address", address).Info("starting evaluation API server")

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "server failed")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if s.store != nil {
		defer s.store.Close()
	}
	return s.server.Shutdown(shutdownCtx)
}
