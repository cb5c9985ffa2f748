package game

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func TestNewBoardPadding(t *testing.T) {
	r := StandardRules()
	b := NewBoard(r.Size, r.Padding())
	if b.Padding() != 4 {
		t.Fatalf("padding = %d, want 4", b.Padding())
	}
	for y := -4; y < 14; y++ {
		for x := -4; x < 14; x++ {
			inner := x >= 0 && y >= 0 && x < 10 && y < 10
			c := b.At(x, y)
			if inner && c != Unguessed {
				t.Errorf("(%d,%d) = %d, want Unguessed", x, y, c)
			}
			if !inner && c != Padding {
				t.Errorf("(%d,%d) = %d, want Padding", x, y, c)
			}
		}
	}
	if got := b.Count(Unguessed); got != 100 {
		t.Errorf("unguessed count = %d, want 100", got)
	}
}

func TestCellAdmits(t *testing.T) {
	want := map[Cell]bool{Padding: false, Unguessed: true, Miss: false, HitUnresolved: true, HitOnSunkShip: false}
	for c, ok := range want {
		if c.Admits() != ok {
			t.Errorf("Cell(%d).Admits() = %v, want %v", c, c.Admits(), ok)
		}
	}
}

func TestGlyphRoundTrip(t *testing.T) {
	for _, c := range []Cell{Unguessed, Miss, HitUnresolved, HitOnSunkShip} {
		got, err := ParseGlyph(c.Glyph())
		if err != nil || got != c {
			t.Errorf("ParseGlyph(%q) = %d, %v", c.Glyph(), got, err)
		}
	}
	if _, err := ParseGlyph('?'); err == nil {
		t.Error("expected error for unknown glyph")
	}
}

func TestPlacementGeometry(t *testing.T) {
	up := Placement{X: 2, Y: 3, Orient: Up}
	right := Placement{X: 1, Y: 4, Orient: Right}

	if !up.Covers(3, Square{2, 5}) || up.Covers(3, Square{2, 6}) {
		t.Error("up placement coverage wrong")
	}
	if !right.Covers(2, Square{2, 4}) || right.Covers(2, Square{3, 4}) {
		t.Error("right placement coverage wrong")
	}
	if !up.Overlaps(3, right, 2) {
		t.Error("expected (2,4) to be shared")
	}
	if up.Overlaps(3, Placement{X: 3, Y: 3, Orient: Up}, 3) {
		t.Error("parallel columns must not overlap")
	}

	if !(Placement{X: 5, Y: 0, Orient: Right}).Fits(10, 5) {
		t.Error("length 5 anchored at x=5 should fit")
	}
	if (Placement{X: 6, Y: 0, Orient: Right}).Fits(10, 5) {
		t.Error("length 5 anchored at x=6 should not fit")
	}
}

func TestReportGuessOutcome(t *testing.T) {
	s := NewState(StandardRules())
	if err := s.ReportGuessOutcome(Square{0, 0}, OutcomeHit); err != nil {
		t.Fatal(err)
	}
	if err := s.ReportGuessOutcome(Square{9, 9}, OutcomeMiss); err != nil {
		t.Fatal(err)
	}
	if s.Board.Get(Square{0, 0}) != HitUnresolved || s.Board.Get(Square{9, 9}) != Miss {
		t.Error("outcomes not recorded")
	}
	if s.Guesses != 2 {
		t.Errorf("guesses = %d, want 2", s.Guesses)
	}

	tests := []struct {
		name string
		sq   Square
		want error
	}{
		{"repeat", Square{0, 0}, ErrAlreadyGuessed},
		{"negative", Square{-1, 0}, ErrOutOfBounds},
		{"too far", Square{0, 10}, ErrOutOfBounds},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := s.ReportGuessOutcome(tc.sq, OutcomeMiss); !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestReportShipSunk(t *testing.T) {
	s := NewState(StandardRules())
	_ = s.ReportGuessOutcome(Square{3, 3}, OutcomeHit)
	_ = s.ReportGuessOutcome(Square{4, 3}, OutcomeHit)

	p := Placement{X: 3, Y: 3, Orient: Right}
	if err := s.ReportShipSunk(0, p); err != nil {
		t.Fatal(err)
	}
	if !s.Sunk[0] || s.SunkAt[0] != p {
		t.Error("ship 0 not pinned")
	}
	for _, sq := range p.Footprint(2) {
		if s.Board.Get(sq) != HitOnSunkShip {
			t.Errorf("%v not resolved", sq)
		}
	}

	_ = s.ReportGuessOutcome(Square{0, 0}, OutcomeMiss)
	_ = s.ReportGuessOutcome(Square{7, 7}, OutcomeHit)
	_ = s.ReportGuessOutcome(Square{7, 8}, OutcomeHit)
	tests := []struct {
		name string
		ship int
		p    Placement
		want error
	}{
		{"twice", 0, Placement{X: 5, Y: 5}, ErrAlreadySunk},
		{"index", 5, Placement{X: 5, Y: 5}, ErrBadShip},
		{"off board", 4, Placement{X: 6, Y: 0, Orient: Right}, ErrOutOfBounds},
		{"over miss", 1, Placement{X: 0, Y: 0, Orient: Up}, ErrBadPlacement},
		{"over sunk", 1, Placement{X: 2, Y: 3, Orient: Right}, ErrBadPlacement},
		{"never guessed", 4, Placement{X: 0, Y: 5, Orient: Right}, ErrBadPlacement},
		{"partly hit", 1, Placement{X: 7, Y: 7, Orient: Up}, ErrBadPlacement},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := s.ReportShipSunk(tc.ship, tc.p); !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
	if s.IsGameOver() || s.Remaining() != 4 {
		t.Errorf("remaining = %d, want 4", s.Remaining())
	}
	if got := s.Board.Get(Square{0, 5}); got != Unguessed {
		t.Errorf("rejected sinkage left %v at <1, 6>", got)
	}
}

// hitAll reports a hit on every square p covers.
func hitAll(t *testing.T, s *State, p Placement, length int) {
	t.Helper()
	for _, sq := range p.Footprint(length) {
		if err := s.ReportGuessOutcome(sq, OutcomeHit); err != nil {
			t.Fatal(err)
		}
	}
}

func TestIsGameOver(t *testing.T) {
	s := NewState(StandardRules())
	for i := 0; i < 5; i++ {
		p := Placement{X: i * 2, Y: 0, Orient: Up}
		hitAll(t, s, p, s.Rules.Length(i))
		if err := s.ReportShipSunk(i, p); err != nil {
			t.Fatal(err)
		}
	}
	if !s.IsGameOver() {
		t.Error("all ships sunk but game not over")
	}
}

func TestGenerateRandomLayout(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	for i := 0; i < 50; i++ {
		l, err := GenerateRandomLayout(StandardRules(), rng)
		if err != nil {
			t.Fatal(err)
		}
		if err := l.Validate(); err != nil {
			t.Fatalf("layout %d invalid: %v", i, err)
		}
		total := 0
		for _, bit := range l.Flatten() {
			total += int(bit)
		}
		if total != 17 {
			t.Fatalf("layout %d covers %d squares, want 17", i, total)
		}
		if ship, ok := l.ShipAt(l.Ships[4].Anchor()); !ok || ship != 4 {
			t.Errorf("ShipAt(anchor of ship 5) = %d, %v", ship, ok)
		}
	}
}

func TestLayoutValidateOverlap(t *testing.T) {
	l := Layout{Rules: StandardRules(), Ships: []Placement{
		{X: 0, Y: 0, Orient: Right},
		{X: 1, Y: 0, Orient: Up},
		{X: 3, Y: 0, Orient: Up},
		{X: 5, Y: 0, Orient: Up},
		{X: 7, Y: 0, Orient: Up},
	}}
	if err := l.Validate(); err == nil {
		t.Error("expected overlap error")
	}
}
