package game

import (
	"errors"
	"fmt"
)

// Rand is the random source used to lay out a hidden fleet.
type Rand interface {
	IntN(n int) int
}

// Layout is a defender's hidden fleet: Ships[i] is the placement of ship i.
type Layout struct {
	Rules Rules       `json:"rules"`
	Ships []Placement `json:"ships"`
}

func (l Layout) Validate() error {
	if err := l.Rules.Validate(); err != nil {
		return err
	}
	if len(l.Ships) != l.Rules.Ships() {
		return fmt.Errorf("layout has %d ships, want %d", len(l.Ships), l.Rules.Ships())
	}
	seen := make([]bool, l.Rules.Squares())
	for i, p := range l.Ships {
		if !p.Fits(l.Rules.Size, l.Rules.Length(i)) {
			return fmt.Errorf("ship %d at %v: %w", i+1, p, ErrOutOfBounds)
		}
		for _, sq := range p.Footprint(l.Rules.Length(i)) {
			idx := sq.Index(l.Rules.Size)
			if seen[idx] {
				return fmt.Errorf("ship %d overlaps another ship at %v", i+1, sq)
			}
			seen[idx] = true
		}
	}
	return nil
}

// Flatten returns one bit per square in scan order: 1 where a ship lies.
func (l Layout) Flatten() []uint8 {
	out := make([]uint8, l.Rules.Squares())
	for i, p := range l.Ships {
		for _, sq := range p.Footprint(l.Rules.Length(i)) {
			out[sq.Index(l.Rules.Size)] = 1
		}
	}
	return out
}

// ShipAt returns the ship covering sq, if any.
func (l Layout) ShipAt(sq Square) (int, bool) {
	for i, p := range l.Ships {
		if p.Covers(l.Rules.Length(i), sq) {
			return i, true
		}
	}
	return -1, false
}

// GenerateRandomLayout places the fleet longest-first without overlap.
// No adjacency rule is enforced.
func GenerateRandomLayout(r Rules, rng Rand) (Layout, error) {
	if err := r.Validate(); err != nil {
		return Layout{}, err
	}
	order := make([]int, r.Ships())
	for i := range order {
		order[i] = i
	}
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && r.Length(order[j]) > r.Length(order[j-1]); j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}

	taken := make([]bool, r.Squares())
	l := Layout{Rules: r, Ships: make([]Placement, r.Ships())}
	tries := 0
	for _, ship := range order {
		L := r.Length(ship)
	retry:
		if tries > 10000 {
			return Layout{}, errors.New("failed to place ships")
		}
		tries++
		p := Placement{X: rng.IntN(r.Size), Y: rng.IntN(r.Size), Orient: Orientation(rng.IntN(2))}
		if !p.Fits(r.Size, L) {
			goto retry
		}
		for i := 0; i < L; i++ {
			if taken[p.Square(i).Index(r.Size)] {
				goto retry
			}
		}
		for i := 0; i < L; i++ {
			taken[p.Square(i).Index(r.Size)] = true
		}
		l.Ships[ship] = p
	}
	return l, nil
}
