// Package server is a local HTTP front-end for one single-player game.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"battleship-advisor/internal/app"
	"battleship-advisor/internal/codec"
	"battleship-advisor/internal/engine"
	"battleship-advisor/internal/game"
)

// Server holds the one game in flight. Engine passes are serialized by mu.
type Server struct {
	mu      sync.Mutex
	newEng  func() *engine.Engine
	session *app.Session
	log     zerolog.Logger
	startAt int64
}

// New builds a server; newEngine is called for every new game.
func New(newEngine func() *engine.Engine, logger zerolog.Logger) *Server {
	return &Server{
		newEng:  newEngine,
		session: app.NewSession(newEngine()),
		log:     logger,
		startAt: time.Now().UnixMilli(),
	}
}

func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/new", s.handleNew)
	mux.HandleFunc("/v1/move", s.handleMove)
	mux.HandleFunc("/v1/outcome", s.handleOutcome)
	mux.HandleFunc("/v1/sunk", s.handleSunk)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/analyze", s.handleAnalyze)
}

// Handler returns the routes wrapped in logging and CORS.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.Routes(mux)
	return s.withLogging(WithCORS(mux))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Error encoding response")
	}
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

// allow answers preflight and rejects other methods; false means handled.
func allow(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return false
	}
	if r.Method != method {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// errorStatus maps report and engine errors onto HTTP codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, game.ErrAlreadyGuessed), errors.Is(err, game.ErrAlreadySunk):
		return http.StatusConflict
	case errors.Is(err, engine.ErrNoMove):
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}

// === Game lifecycle ===

func (s *Server) handleNew(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	s.mu.Lock()
	s.session = app.NewSession(s.newEng())
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.statusPayload())
}

type moveResp struct {
	Move     game.Square      `json:"move"`
	Analysis *engine.Analysis `json:"analysis"`
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session.IsGameOver() {
		writeJSON(w, http.StatusConflict, map[string]any{"error": "game is over", "guesses": s.session.State.Guesses})
		return
	}
	a, err := s.session.NextMove()
	if err != nil {
		s.log.Warn().Err(err).Msg("Move generation failed")
		writeError(w, errorStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, moveResp{Move: a.Move, Analysis: a})
}

type outcomeReq struct {
	X   int  `json:"x"`
	Y   int  `json:"y"`
	Hit bool `json:"hit"`
}

func (s *Server) handleOutcome(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	var req outcomeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
		return
	}
	out := game.OutcomeMiss
	if req.Hit {
		out = game.OutcomeHit
	}
	s.mu.Lock()
	err := s.session.ReportGuessOutcome(game.Square{X: req.X, Y: req.Y}, out)
	s.mu.Unlock()
	if err != nil {
		writeError(w, errorStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, s.statusPayload())
}

func (s *Server) handleSunk(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	var req codec.SunkShip
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
		return
	}
	s.mu.Lock()
	err := s.session.ReportShipSunk(req.Ship, req.Placement)
	s.mu.Unlock()
	if err != nil {
		writeError(w, errorStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, s.statusPayload())
}

// === Consolidated STATUS ===

func (s *Server) statusPayload() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.session.State
	return map[string]any{
		"startedAt": s.startAt,
		"board":     codec.EncodeState(st),
		"guesses":   st.Guesses,
		"remaining": st.Remaining(),
		"over":      st.IsGameOver(),
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.statusPayload())
}

// === Stateless analysis ===

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	var snap codec.Snapshot
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&snap); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json: " + err.Error()})
		return
	}
	st, err := codec.DecodeState(game.StandardRules(), snap)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.mu.Lock()
	a, err := s.session.Engine.Analyze(st)
	s.mu.Unlock()
	if err != nil {
		writeError(w, errorStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, moveResp{Move: a.Move, Analysis: a})
}

// === Middleware ===

func WithCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// In dev we allow any origin. For production, set this to the specific origin(s).
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", sw.status).
			Dur("durationMs", time.Since(start)).
			Msg("Request completed")
	})
}
