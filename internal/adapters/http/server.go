// Package http exposes the engine control surface over HTTP for the
// (out-of-scope) UI and ledger layers: loading scenarios, driving the
// clock, snapshot undo/redo, and read-only state, ledger and lineage
// queries.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/sluice/pkg/domain"
)

// Engine is the narrow view of the simulation core the server needs.
type Engine interface {
	LoadScenario(doc []byte) error
	Play(ctx context.Context)
	Pause()
	Step(ctx context.Context, n int) error
	SaveSnapshot(description string) error
	Undo() error
	Redo() error
	Tick() int64
	RunID() string
	Running() bool
	States() map[string]domain.NodeState
	Messages() []string
	NodeLedger(id string) []domain.ActivityEntry
	GlobalLedger() []domain.ActivityEntry
	Token(id string) (*domain.Token, error)
	Lineage(id string) (*domain.Lineage, error)
}

// Server routes control and query requests to the engine.
type Server struct {
	engine Engine
	logger *slog.Logger
}

// NewHandler creates the HTTP handler for the engine.
func NewHandler(engine Engine, logger *slog.Logger) http.Handler {
	s := &Server{engine: engine, logger: logger}

	r := chi.NewRouter()
	r.Post("/scenario", s.handleLoad)
	r.Post("/play", s.handlePlay)
	r.Post("/pause", s.handlePause)
	r.Post("/step", s.handleStep)
	r.Post("/snapshots", s.handleSnapshot)
	r.Post("/undo", s.handleUndo)
	r.Post("/redo", s.handleRedo)
	r.Get("/state", s.handleState)
	r.Get("/ledger", s.handleGlobalLedger)
	r.Get("/ledger/{nodeID}", s.handleNodeLedger)
	r.Get("/tokens/{tokenID}", s.handleToken)
	r.Get("/lineage/{tokenID}", s.handleLineage)
	return r
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	doc, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.engine.LoadScenario(doc); err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			s.writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": verr.Problems})
			return
		}
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"run_id": s.engine.RunID()})
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	// The loop outlives the request; it is gated by the running flag.
	s.engine.Play(context.WithoutCancel(r.Context()))
	s.writeJSON(w, http.StatusOK, map[string]any{"running": s.engine.Running()})
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	s.engine.Pause()
	s.writeJSON(w, http.StatusOK, map[string]any{"running": s.engine.Running()})
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	n := 1
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			s.writeError(w, http.StatusBadRequest, errors.New("n must be a positive integer"))
			return
		}
		n = parsed
	}
	if err := s.engine.Step(r.Context(), n); err != nil {
		s.writeError(w, http.StatusConflict, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"tick": s.engine.Tick()})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && err != io.EOF {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.engine.SaveSnapshot(body.Description); err != nil {
		s.writeError(w, http.StatusConflict, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.Undo(); err != nil {
		s.writeError(w, http.StatusConflict, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"run_id": s.engine.RunID()})
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.Redo(); err != nil {
		s.writeError(w, http.StatusConflict, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"run_id": s.engine.RunID()})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"tick":     s.engine.Tick(),
		"run_id":   s.engine.RunID(),
		"running":  s.engine.Running(),
		"states":   s.engine.States(),
		"messages": s.engine.Messages(),
	})
}

func (s *Server) handleGlobalLedger(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.engine.GlobalLedger())
}

func (s *Server) handleNodeLedger(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.engine.NodeLedger(chi.URLParam(r, "nodeID")))
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	tok, err := s.engine.Token(chi.URLParam(r, "tokenID"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	s.writeJSON(w, http.StatusOK, tok)
}

func (s *Server) handleLineage(w http.ResponseWriter, r *http.Request) {
	lin, err := s.engine.Lineage(chi.URLParam(r, "tokenID"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	s.writeJSON(w, http.StatusOK, lin)
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, err error) {
	s.writeJSON(w, code, map[string]string{"error": err.Error()})
}
