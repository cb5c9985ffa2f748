package engine

import (
	"time"

	"battleship-advisor/internal/game"
	"battleship-advisor/internal/intmap"
)

// Strategy is how the fleet search covered the candidate space.
type Strategy uint8

const (
	Exhaustive Strategy = iota
	Sampled
)

func (s Strategy) String() string {
	if s == Sampled {
		return "sampled"
	}
	return "exhaustive"
}

func (s Strategy) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// FrequencyKey is one ship in one placement.
type FrequencyKey struct {
	Ship      int
	Placement game.Placement
}

// Frequencies counts, per (ship, placement), the valid fleets that used it.
type Frequencies = intmap.Map[FrequencyKey]

// Valid reports whether fleet (one placement per ship) has no colliding pair
// and covers every unresolved hit on the board. Sunk ships must sit at their
// reported placement and afloat ships over squares that admit a ship; the
// search loop skips both checks because it pins sunk ships and
// GeneratePlacements only emits admitting placements.
func Valid(st *game.State, coll *Collisions, fleet []game.Placement) bool {
	for ship, p := range fleet {
		if st.Sunk[ship] {
			if p != st.SunkAt[ship] {
				return false
			}
			continue
		}
		if !p.Fits(st.Rules.Size, st.Rules.Length(ship)) || !admits(st.Board, p, st.Rules.Length(ship)) {
			return false
		}
	}
	return validFleet(st.Rules, coll, unresolvedHits(st.Board), fleet)
}

func validFleet(r game.Rules, coll *Collisions, hits []game.Square, fleet []game.Placement) bool {
	for s1 := 0; s1 < len(fleet); s1++ {
		for s2 := s1 + 1; s2 < len(fleet); s2++ {
			if coll.Collide(s1, s2, fleet[s1], fleet[s2]) {
				return false
			}
		}
	}
	for _, sq := range hits {
		covered := false
		for s, p := range fleet {
			if p.Covers(r.Length(s), sq) {
				covered = true
				break
			}
		}
		if !covered {
			return false
		}
	}
	return true
}

func unresolvedHits(b *game.Board) []game.Square {
	var hits []game.Square
	for y := 0; y < b.Size(); y++ {
		for x := 0; x < b.Size(); x++ {
			if b.At(x, y) == game.HitUnresolved {
				hits = append(hits, game.Square{X: x, Y: y})
			}
		}
	}
	return hits
}

// searcher holds everything one fleet search pass reads and writes.
type searcher struct {
	st    *game.State
	lists [][]game.Placement
	coll  *Collisions
	hits  []game.Square
	freq  *Frequencies
	fleet []game.Placement
}

func newSearcher(st *game.State, lists [][]game.Placement, coll *Collisions) *searcher {
	return &searcher{
		st:    st,
		lists: lists,
		coll:  coll,
		hits:  unresolvedHits(st.Board),
		freq:  intmap.New[FrequencyKey](uint32(countPlacements(lists))),
		fleet: make([]game.Placement, len(lists)),
	}
}

func countPlacements(lists [][]game.Placement) int {
	n := 0
	for _, l := range lists {
		n += len(l)
	}
	return n
}

// choices is the number of placements a ship can take in the search;
// a sunk ship is pinned and contributes exactly one.
func (s *searcher) choices(ship int) int {
	if s.st.Sunk[ship] {
		return 1
	}
	return len(s.lists[ship])
}

// candidates is the size of the full cross product.
func (s *searcher) candidates() float64 {
	n := 1.0
	for ship := range s.lists {
		n *= float64(s.choices(ship))
	}
	return n
}

func (s *searcher) pick(ship, i int) game.Placement {
	if s.st.Sunk[ship] {
		return s.st.SunkAt[ship]
	}
	return s.lists[ship][i]
}

// test validates the current fleet and tallies it when valid.
func (s *searcher) test() bool {
	if !validFleet(s.st.Rules, s.coll, s.hits, s.fleet) {
		return false
	}
	for ship, p := range s.fleet {
		s.freq.Inc(FrequencyKey{Ship: ship, Placement: p}, 1)
	}
	return true
}

// exhaustive walks the cross product with the last ship varying fastest and
// returns the number of valid fleets.
func (s *searcher) exhaustive() (valid, tested int) {
	ships := len(s.lists)
	idx := make([]int, ships)
	for ship := 0; ship < ships; ship++ {
		if s.choices(ship) == 0 {
			return 0, 0
		}
		s.fleet[ship] = s.pick(ship, 0)
	}
	for {
		tested++
		if s.test() {
			valid++
		}
		ship := ships - 1
		for ; ship >= 0; ship-- {
			idx[ship]++
			if idx[ship] < s.choices(ship) {
				s.fleet[ship] = s.pick(ship, idx[ship])
				break
			}
			idx[ship] = 0
			s.fleet[ship] = s.pick(ship, 0)
		}
		if ship < 0 {
			return valid, tested
		}
	}
}

// sampled draws trials independent fleets, each ship uniform over its
// placements. A non-zero deadline stops the loop early.
func (s *searcher) sampled(rng Source, trials int, deadline time.Time) (valid, tested int) {
	for ship := range s.lists {
		if s.choices(ship) == 0 {
			return 0, 0
		}
	}
	for ; tested < trials; tested++ {
		if !deadline.IsZero() && tested&4095 == 0 && time.Now().After(deadline) {
			break
		}
		for ship := range s.fleet {
			if s.st.Sunk[ship] {
				s.fleet[ship] = s.st.SunkAt[ship]
			} else {
				s.fleet[ship] = s.lists[ship][rng.IntN(len(s.lists[ship]))]
			}
		}
		if s.test() {
			valid++
		}
	}
	return valid, tested
}
