package game

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfBounds    = errors.New("square out of bounds")
	ErrAlreadyGuessed = errors.New("square already guessed")
	ErrBadShip        = errors.New("no such ship")
	ErrAlreadySunk    = errors.New("ship already sunk")
	ErrBadPlacement   = errors.New("placement does not match the board")
)

// Outcome is the defender's answer to a guess.
type Outcome uint8

const (
	OutcomeMiss Outcome = iota
	OutcomeHit
)

func (o Outcome) String() string {
	if o == OutcomeHit {
		return "hit"
	}
	return "miss"
}

// State is everything known about the defender's fleet for one game.
// It is owned by the caller across turns and lent to the engine per move.
type State struct {
	Rules   Rules
	Board   *Board
	Sunk    []bool
	SunkAt  []Placement
	Guesses int
}

func NewState(r Rules) *State {
	return &State{
		Rules:  r,
		Board:  NewBoard(r.Size, r.Padding()),
		Sunk:   make([]bool, r.Ships()),
		SunkAt: make([]Placement, r.Ships()),
	}
}

// ReportGuessOutcome records the answer for an unguessed square.
func (s *State) ReportGuessOutcome(sq Square, o Outcome) error {
	if !s.Rules.Contains(sq) {
		return fmt.Errorf("%v: %w", sq, ErrOutOfBounds)
	}
	if s.Board.Get(sq) != Unguessed {
		return fmt.Errorf("%v: %w", sq, ErrAlreadyGuessed)
	}
	if o == OutcomeHit {
		s.Board.Set(sq, HitUnresolved)
	} else {
		s.Board.Set(sq, Miss)
	}
	s.Guesses++
	return nil
}

// ReportShipSunk pins a ship to p and resolves every square it covers.
// Each of those squares must already be an unresolved hit.
func (s *State) ReportShipSunk(ship int, p Placement) error {
	if ship < 0 || ship >= s.Rules.Ships() {
		return fmt.Errorf("ship %d: %w", ship+1, ErrBadShip)
	}
	if s.Sunk[ship] {
		return fmt.Errorf("ship %d: %w", ship+1, ErrAlreadySunk)
	}
	length := s.Rules.Length(ship)
	if !p.Fits(s.Rules.Size, length) {
		return fmt.Errorf("ship %d at %v: %w", ship+1, p, ErrOutOfBounds)
	}
	for _, sq := range p.Footprint(length) {
		if s.Board.Get(sq) != HitUnresolved {
			return fmt.Errorf("ship %d at %v covers %v: %w", ship+1, p, sq, ErrBadPlacement)
		}
	}
	for _, sq := range p.Footprint(length) {
		s.Board.Set(sq, HitOnSunkShip)
	}
	s.Sunk[ship] = true
	s.SunkAt[ship] = p
	return nil
}

func (s *State) IsGameOver() bool { return s.Remaining() == 0 }

// Remaining counts the ships still afloat.
func (s *State) Remaining() int {
	n := 0
	for _, sunk := range s.Sunk {
		if !sunk {
			n++
		}
	}
	return n
}

func (s *State) Clone() *State {
	return &State{
		Rules:   s.Rules,
		Board:   s.Board.Clone(),
		Sunk:    append([]bool(nil), s.Sunk...),
		SunkAt:  append([]Placement(nil), s.SunkAt...),
		Guesses: s.Guesses,
	}
}
