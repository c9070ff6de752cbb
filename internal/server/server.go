// Package server exposes a Solver over HTTP for the browser widget.
//
// Endpoints:
//
//	POST /solve     solve one request: {"input": "∫ x^2 dx"}
//	GET  /examples  supported integral forms
//	GET  /health    liveness check
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/njchilds90/calcwidget"
	"github.com/njchilds90/calcwidget/expr"
	"github.com/njchilds90/calcwidget/integrate"
	"github.com/njchilds90/calcwidget/internal/config"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// RequestIDHeader carries the per-request ID on responses.
const RequestIDHeader = "X-Request-ID"

type SolveRequest struct {
	Input string `json:"input"`
}

// SolveResponse mirrors calcwidget.Result. Result and Error are exclusive.
type SolveResponse struct {
	Input     string                 `json:"input"`
	Kind      string                 `json:"kind,omitempty"`
	Variable  string                 `json:"variable,omitempty"`
	Body      string                 `json:"body,omitempty"`
	Result    string                 `json:"result,omitempty"`
	LaTeX     string                 `json:"latex,omitempty"`
	Tree      map[string]interface{} `json:"tree,omitempty"`
	ErrorKind string                 `json:"error_kind,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

type Server struct {
	solver *calcwidget.Solver
	log    log.FieldLogger
	mux    *http.ServeMux
}

func New(solver *calcwidget.Solver, logger log.FieldLogger) *Server {
	if logger == nil {
		logger = log.StandardLogger()
	}
	s := &Server{solver: solver, log: logger, mux: http.NewServeMux()}
	s.mux.HandleFunc("/solve", s.handleSolve)
	s.mux.HandleFunc("/examples", s.handleExamples)
	s.mux.HandleFunc("/health", s.handleHealth)
	return s
}

// ServeHTTP tags the request with an ID and recovers handler panics.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	w.Header().Set(RequestIDHeader, id)
	logger := s.log.WithFields(log.Fields{"request_id": id, "method": r.Method, "path": r.URL.Path})
	start := time.Now()
	recoverer(logger, s.mux).ServeHTTP(w, r.WithContext(withLogger(r.Context(), logger)))
	logger.WithField("duration", time.Since(start)).Debug("request handled")
}

func recoverer(logger log.FieldLogger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Errorf("panic in %s: %v\n%s", r.URL.Path, rec, string(debug.Stack()))
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req SolveRequest
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if dec.More() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: trailing data"})
		return
	}

	res := s.solver.Evaluate(req.Input)
	resp := NewResponse(res)
	loggerFrom(r.Context(), s.log).WithFields(log.Fields{
		"input":      res.Input,
		"error_kind": resp.ErrorKind,
	}).Info("solve")
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExamples(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"integral":   []string{"∫ x^2 dx", "∫ 3*x^2 dx", "∫ x dx", "∫ 5*x dx"},
		"derivative": []string{"d/dx x^2", "d/dx sin(x)", "d/dx x^3 - 4x"},
		"forms":      integrate.SupportedForms(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// NewResponse converts a solve result to its wire form.
func NewResponse(res calcwidget.Result) SolveResponse {
	resp := SolveResponse{Input: res.Input}
	if res.Request.Kind != 0 {
		resp.Kind = res.Request.Kind.String()
		resp.Variable = res.Request.Variable
		resp.Body = res.Request.Body
	}
	if res.Err != nil {
		resp.ErrorKind = res.Err.Kind.String()
		resp.Error = res.Err.Message()
		return resp
	}
	resp.Result = res.Text
	if res.Tree != nil {
		resp.LaTeX = expr.LaTeX(res.Tree)
		resp.Tree = expr.ToJSON(res.Tree)
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, cfg config.ServerConfig) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.WithField("addr", cfg.Addr).Info("calcwidget server listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

type loggerKey struct{}

func withLogger(ctx context.Context, l log.FieldLogger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func loggerFrom(ctx context.Context, fallback log.FieldLogger) log.FieldLogger {
	if l, ok := ctx.Value(loggerKey{}).(log.FieldLogger); ok {
		return l
	}
	return fallback
}
