package game

import (
	"fmt"
	"strings"
)

// Square is a 0-based inner board coordinate.
type Square struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Index is the scan-order position of the square on an n x n board.
func (s Square) Index(n int) int { return s.Y*n + s.X }

func SquareAt(idx, n int) Square { return Square{X: idx % n, Y: idx / n} }

// String prints 1-based coordinates, the way players read them.
func (s Square) String() string { return fmt.Sprintf("<%d, %d>", s.X+1, s.Y+1) }

// Orientation is the direction a ship extends from its anchor.
type Orientation uint8

const (
	Up    Orientation = iota // +Y
	Right                    // +X
)

func (o Orientation) String() string {
	if o == Right {
		return "right"
	}
	return "up"
}

func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u", "0":
		return Up, nil
	case "right", "r", "1":
		return Right, nil
	}
	return Up, fmt.Errorf("unknown orientation %q", s)
}

func (o Orientation) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (o *Orientation) UnmarshalText(b []byte) error {
	v, err := ParseOrientation(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// Placement anchors a ship at (X,Y) extending Up or Right.
type Placement struct {
	X      int         `json:"x"`
	Y      int         `json:"y"`
	Orient Orientation `json:"orientation"`
}

func (p Placement) Anchor() Square { return Square{X: p.X, Y: p.Y} }

// Square returns the i-th square covered by the placement.
func (p Placement) Square(i int) Square {
	if p.Orient == Right {
		return Square{X: p.X + i, Y: p.Y}
	}
	return Square{X: p.X, Y: p.Y + i}
}

func (p Placement) Footprint(length int) []Square {
	out := make([]Square, length)
	for i := range out {
		out[i] = p.Square(i)
	}
	return out
}

// Fits reports whether the whole footprint lies on an n x n board.
func (p Placement) Fits(n, length int) bool {
	if p.X < 0 || p.Y < 0 || p.X >= n || p.Y >= n {
		return false
	}
	if p.Orient == Right {
		return p.X+length <= n
	}
	return p.Y+length <= n
}

func (p Placement) Covers(length int, sq Square) bool {
	if p.Orient == Right {
		return sq.Y == p.Y && sq.X >= p.X && sq.X < p.X+length
	}
	return sq.X == p.X && sq.Y >= p.Y && sq.Y < p.Y+length
}

// Overlaps compares the two footprints square by square.
func (p Placement) Overlaps(lenP int, q Placement, lenQ int) bool {
	for i := 0; i < lenP; i++ {
		a := p.Square(i)
		for j := 0; j < lenQ; j++ {
			if a == q.Square(j) {
				return true
			}
		}
	}
	return false
}

func (p Placement) String() string {
	return fmt.Sprintf("%s %s", p.Anchor(), p.Orient)
}
