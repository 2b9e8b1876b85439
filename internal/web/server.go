// Package web runs the small HTTP surface next to the bot: a keepalive
// endpoint for the hosting platform and a token-protected stats endpoint
// mirroring the admin panel counters.
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"campus-notes-bot/internal/auth"
	"campus-notes-bot/internal/logging"
	"campus-notes-bot/internal/store/profiles"
)

type Server struct {
	addr     string
	secret   []byte
	profiles profiles.Repository
	logger   logging.Logger
}

func NewServer(addr string, secret []byte, repo profiles.Repository, logger logging.Logger) *Server {
	return &Server{
		addr:     addr,
		secret:   secret,
		profiles: repo,
		logger:   logger.With("module", "web"),
	}
}

type statsResponse struct {
	TotalUsers int64                   `json:"total_users"`
	ByFaculty  []profiles.FacultyCount `json:"by_faculty"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Bot is running"))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		http.Error(w, "missing bearer token", http.StatusUnauthorized)
		return
	}

	if _, err := auth.GetUserIDFromToken(token, s.secret); err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	total, err := s.profiles.Count(ctx)
	if err != nil {
		s.logger.Error(ctx, "stats query failed", "error", err.Error())
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	byFaculty, err := s.profiles.CountByFaculty(ctx)
	if err != nil {
		s.logger.Error(ctx, "stats query failed", "error", err.Error())
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(statsResponse{TotalUsers: total, ByFaculty: byFaculty})
}

func (s *Server) Run(ctx context.Context) error {

	mux := http.NewServeMux()
	mux.HandleFunc("GET /", s.handleHealthz)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /admin/stats", s.handleStats)

	srv := &http.Server{Addr: s.addr, Handler: mux}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.addr)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
