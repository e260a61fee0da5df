package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cerebrumkb/cerebrum/core"
	"github.com/cerebrumkb/cerebrum/registry"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}

func (s *Server) handleRegistry(w http.ResponseWriter, r *http.Request) {
	records, err := s.cfg.Registry.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if records == nil {
		records = []registry.Record{}
	}
	writeJSON(w, http.StatusOK, RegistryResponse{Registry: records})
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	task := s.cfg.Pool.Submit("convert", func(ctx context.Context) error {
		m := s.cfg.Pipeline.ConvertAll(ctx)
		s.logger.Info("conversion batch finished",
			zap.Int("processed", m.Processed),
			zap.Int("skipped", m.Skipped),
			zap.Int("failed", m.Failed))
		return nil
	})
	writeJSON(w, http.StatusAccepted, BatchResponse{
		Message: "Conversion started in background",
		Task:    task,
	})
}

func (s *Server) handleEmbed(w http.ResponseWriter, r *http.Request) {
	task := s.cfg.Pool.Submit("embed", func(ctx context.Context) error {
		m := s.cfg.Pipeline.EmbedAll(ctx)
		s.logger.Info("embedding batch finished",
			zap.Int("processed", m.Processed),
			zap.Int("skipped", m.Skipped),
			zap.Int("failed", m.Failed),
			zap.Int("chunks", m.TotalChunks))
		return nil
	})
	writeJSON(w, http.StatusAccepted, BatchResponse{
		Message: "Embedding started in background",
		Task:    task,
	})
}

func (s *Server) handleProcessOne(w http.ResponseWriter, r *http.Request) {
	var req ProcessOneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "path is required"})
		return
	}
	if err := s.cfg.Pipeline.ProcessOne(r.Context(), req.Path); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "processed"})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	stage := registry.Stage(chi.URLParam(r, "stage"))
	hash := r.URL.Query().Get("hash")

	affected, err := s.cfg.Registry.ResetStage(r.Context(), stage, hash)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ResetResponse{Stage: string(stage), Affected: affected})
}

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cfg.Pool.List())
}

func (s *Server) handleTask(w http.ResponseWriter, r *http.Request) {
	task, ok := s.cfg.Pool.Task(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "task not found"})
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "text is required"})
		return
	}

	reply, err := s.AnswerQuestion(r.Context(), req.Text)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ChatResponse{Reply: reply})
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, core.ErrInvalidStage):
		status = http.StatusBadRequest
	case errors.Is(err, core.ErrIntegrity):
		status = http.StatusConflict
	case errors.Is(err, core.ErrMetadataParse), errors.Is(err, core.ErrTranslationParse):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, registry.ErrNotFound):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
