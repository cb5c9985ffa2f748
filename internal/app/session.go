package app

import (
	"fmt"

	"battleship-advisor/internal/codec"
	"battleship-advisor/internal/engine"
	"battleship-advisor/internal/game"
)

// Session is one single-player game in flight: the evidence gathered so far
// and the engine that advises on it.
type Session struct {
	State  *game.State
	Engine *engine.Engine
	Last   *engine.Analysis
}

func NewSession(e *engine.Engine) *Session {
	return &Session{State: game.NewState(game.StandardRules()), Engine: e}
}

// NextMove runs one engine pass over the current evidence.
func (s *Session) NextMove() (*engine.Analysis, error) {
	if s.State.IsGameOver() {
		return nil, fmt.Errorf("game over: all %d ships sunk", s.State.Rules.Ships())
	}
	a, err := s.Engine.Analyze(s.State)
	s.Last = a
	return a, err
}

func (s *Session) ReportGuessOutcome(sq game.Square, o game.Outcome) error {
	return s.State.ReportGuessOutcome(sq, o)
}

func (s *Session) ReportShipSunk(ship int, p game.Placement) error {
	return s.State.ReportShipSunk(ship, p)
}

func (s *Session) IsGameOver() bool { return s.State.IsGameOver() }

func (s *Session) Snapshot() codec.Snapshot { return codec.EncodeState(s.State) }
