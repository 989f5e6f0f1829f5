package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/unrolled/secure"
	"go.uber.org/zap"

	apimw "github.com/hamed0406/capprobe/internal/httpapi/middleware"
	"github.com/hamed0406/capprobe/internal/probe"
	"github.com/hamed0406/capprobe/internal/report"
	"github.com/hamed0406/capprobe/internal/runner"
)

type Server struct {
	Logger   *zap.Logger
	Runner   *runner.Runner
	Reporter *report.Reporter
	Registry *probe.Registry
}

func NewServer(l *zap.Logger, run *runner.Runner, rep *report.Reporter, reg *probe.Registry) *Server {
	if l == nil {
		l = zap.NewNop()
	}
	return &Server{Logger: l, Runner: run, Reporter: rep, Registry: reg}
}

// Router wires the API. An empty allowedOrigins list allows any origin.
// adminRPM and adminBurst limit POST /run per client IP.
func (s *Server) Router(keys apimw.Keys, allowedOrigins []string, adminRPM, adminBurst int) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(s.requestLogger)
	r.Use(secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "no-referrer",
	}).Handler)

	if len(allowedOrigins) == 0 {
		r.Use(cors.AllowAll().Handler)
	} else {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "Content-Type", "X-API-Key"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/health", s.handleHealth)
	r.With(apimw.RequireAny(keys)).Get("/probes", s.handleListProbes)
	r.With(apimw.RequireAdmin(keys), apimw.RateLimit(adminRPM, adminBurst)).Post("/run", s.handleRun)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	rep, _ := s.Reporter.Latest(r.Context())
	writeJSON(w, http.StatusOK, BuildHealthBody(rep))
}

func (s *Server) handleListProbes(w http.ResponseWriter, r *http.Request) {
	names := s.Registry.Names()
	writeJSON(w, http.StatusOK, map[string]any{
		"probes":    names,
		"runtime":   probe.GoVersion(),
		"libraries": probe.Inventory(names),
	})
}

// handleRun waits for any run already in progress. The run is detached from
// the request so a client hanging up cannot publish a half-finished report.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	rep, err := s.Runner.RunAndPublish(context.WithoutCancel(r.Context()), s.Registry, s.Reporter)
	if err != nil {
		var pe *report.PublishError
		if rep == nil || !errors.As(err, &pe) {
			s.Logger.Error("run_failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		s.Logger.Warn("publish_degraded", zap.Errors("errors", pe.Errors()))
	}

	s.Logger.Info("run_completed",
		zap.String("status", string(rep.Status())),
		zap.Int("probes", rep.Len()),
		zap.Duration("took", rep.Duration()),
		zap.String("request_id", chimw.GetReqID(r.Context())),
	)
	writeJSON(w, http.StatusOK, BuildHealthBody(rep))
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.Logger.Debug("http_request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("took", time.Since(start)),
			zap.String("request_id", chimw.GetReqID(r.Context())),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
