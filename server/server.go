// Package server exposes the ingestion and chat operations over HTTP.
package server

import (
	"context"
	"net/http"

	"github.com/cerebrumkb/cerebrum/ingest"
	"github.com/cerebrumkb/cerebrum/query"
	"github.com/cerebrumkb/cerebrum/registry"
	"github.com/cerebrumkb/cerebrum/retrieval"
	"github.com/cerebrumkb/cerebrum/taxonomy"
	"github.com/cerebrumkb/cerebrum/workers"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Config wires the server's collaborators.
type Config struct {
	Registry registry.Registry
	Pipeline *ingest.Pipeline
	Router   *query.Router
	Engine   *retrieval.Engine
	Pool     *workers.Pool

	// VectorRoot is where routing targets live; the taxonomy offered to the
	// query router is rebuilt from it per question.
	VectorRoot string

	TopK     int
	ContextK int
}

// Server handles the HTTP surface.
type Server struct {
	cfg    Config
	logger *zap.Logger
}

// New creates a server. logger may be nil.
func New(cfg Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{cfg: cfg, logger: logger}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Route("/process", func(r chi.Router) {
		r.Get("/registry", s.handleRegistry)
		r.Post("/convert", s.handleConvert)
		r.Post("/embed", s.handleEmbed)
		r.Post("/one", s.handleProcessOne)
		r.Post("/reset/{stage}", s.handleReset)
		r.Get("/tasks", s.handleTasks)
		r.Get("/tasks/{id}", s.handleTask)
	})
	r.Post("/chat", s.handleChat)

	return r
}

// AnswerQuestion routes a question to the relevant indexes and composes an
// answer from what they return.
func (s *Server) AnswerQuestion(ctx context.Context, text string) (string, error) {
	idx, _ := taxonomy.BuildIndex(s.cfg.VectorRoot)

	tq, err := s.cfg.Router.Translate(ctx, text, idx)
	if err != nil {
		return "", err
	}

	routes := s.cfg.Router.BuildRoutes(tq, idx, s.cfg.VectorRoot)
	s.logger.Info("routed question",
		zap.String("rewritten", tq.Rewritten),
		zap.Int("subqueries", len(tq.Subqueries)),
		zap.Int("routes", len(routes)))

	results, err := s.cfg.Engine.Retrieve(ctx, routes, s.cfg.TopK)
	if err != nil {
		return "", err
	}

	return s.cfg.Engine.Generate(ctx, text, results, s.cfg.ContextK)
}
