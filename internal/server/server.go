// Package server serves the todo endpoints the client calls, the REST API and
// the HTML list page.
package server

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/idilsaglam/todo-inline/internal/clierr"
	"github.com/idilsaglam/todo-inline/internal/client"
	"github.com/idilsaglam/todo-inline/internal/logging"
	"github.com/idilsaglam/todo-inline/internal/service"
)

// Config configures a Server.
type Config struct {
	Addr string
	// Token, when non-empty, must be presented as a bearer token.
	Token  string
	Logger *slog.Logger
}

// Server wires the HTTP handlers to a service.
type Server struct {
	cfg    Config
	svc    *service.Service
	logger *slog.Logger
}

// New returns a Server over svc.
func New(cfg Config, svc *service.Service) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Server{cfg: cfg, svc: svc, logger: logger}
}

// Handler returns the complete handler including middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST "+client.PathCreateTodo, s.handleCreate)
	mux.HandleFunc("POST "+client.PathUpdateName, s.handleUpdateName)
	mux.HandleFunc("POST "+client.PathUpdateIsDone, s.handleUpdateIsDone)
	mux.HandleFunc("POST "+client.PathUpdateDeadline, s.handleUpdateDeadline)
	mux.HandleFunc("POST "+client.PathUpdatePriority, s.handleUpdatePriority)
	mux.HandleFunc("POST "+client.PathDeleteTodo, s.handleDelete)

	const api = "/api/restController"
	mux.HandleFunc("POST "+api+"/createTodo", s.handleAPICreate)
	mux.HandleFunc("GET "+api+"/todos/frontendDto", s.handleAPIList)
	mux.HandleFunc("PATCH "+api+"/updateName", s.handleAPIUpdateName)
	mux.HandleFunc("PATCH "+api+"/changeIsDoneStatus", s.handleAPIChangeIsDone)
	mux.HandleFunc("PATCH "+api+"/updateDeadline", s.handleAPIUpdateDeadline)
	mux.HandleFunc("PATCH "+api+"/updatePriority", s.handleAPIUpdatePriority)
	mux.HandleFunc("DELETE "+api+"/deleteTodo", s.handleAPIDelete)

	return s.withRequestLog(s.withAuth(mux))
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(client.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(client.RequestIDHeader, id)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"request_id", id,
			"elapsed", time.Since(start))
	})
}

func (s *Server) withAuth(next http.Handler) http.Handler {
	if s.cfg.Token == "" {
		return next
	}
	want := []byte(s.cfg.Token)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}
		got := strings.TrimSpace(r.Header.Get("Authorization"))
		if len(got) > 7 && strings.EqualFold(got[:7], "bearer ") {
			got = strings.TrimSpace(got[7:])
		} else {
			got = ""
		}
		if subtle.ConstantTimeCompare([]byte(got), want) != 1 {
			s.writeError(w, r, clierr.New(clierr.Unauthorized, "missing or invalid token"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
