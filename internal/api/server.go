package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/reportmerge/internal/config"
	"github.com/dgallion1/reportmerge/internal/llm"
	"github.com/dgallion1/reportmerge/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for reportmerge.
type Server struct {
	router   chi.Router
	pipeline *pipeline.Pipeline
	claude   *llm.ClaudeClient
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server. claude may be nil when
// LLM merging is not configured.
func NewServer(p *pipeline.Pipeline, claude *llm.ClaudeClient, log *slog.Logger, cfg config.Config) *Server {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		pipeline: p,
		claude:   claude,
		log:      log,
		cfg:      cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.cfg.ReportmergeAPIKey != "" {
			r.Use(AuthMiddleware(s.cfg.ReportmergeAPIKey, s.log))
		}

		r.Post("/api/reports", s.handleGenerateReport)
		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
