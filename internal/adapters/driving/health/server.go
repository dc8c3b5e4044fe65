package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/custodia-labs/gwatch/internal/core/ports/driving"
	"github.com/custodia-labs/gwatch/internal/logger"
)

// Server exposes liveness, readiness, and lease inspection endpoints
// for process supervisors and operators.
type Server struct {
	renewer driving.Renewer
	http    *http.Server
}

// NewServer creates a health server listening on addr.
func NewServer(addr string, renewer driving.Renewer) *Server {
	s := &Server{renewer: renewer}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)
	r.Get("/leases", s.handleLeases)

	s.http = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the HTTP handler, exposed for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// ListenAndServe starts the server. It returns nil after a clean
// Shutdown.
func (s *Server) ListenAndServe() error {
	logger.Info("health endpoints listening on %s", s.http.Addr)
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReadyz reports ready only after the first renewal cycle, so
// load balancers do not route to a daemon that has not yet reconciled.
func (s *Server) handleReadyz(w http.ResponseWriter, _ *http.Request) {
	if !s.renewer.Ready() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "starting"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleLeases(w http.ResponseWriter, r *http.Request) {
	leases, err := s.renewer.Leases(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, leases)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("writing health response: %v", err)
	}
}
