package engine

import (
	"battleship-advisor/internal/game"
	"battleship-advisor/internal/intmap"
)

// CollisionKey identifies one pair of placements of two distinct ships.
// ShipA is always the lower index.
type CollisionKey struct {
	ShipA, ShipB int
	A, B         game.Placement
}

// Collisions is the per-pass cache of overlapping placement pairs.
// Only overlaps are stored; a missing key means the pair is compatible.
type Collisions struct {
	m *intmap.Map[CollisionKey]
}

// PrecomputeCollisions checks every placement pair of every ship pair once.
func PrecomputeCollisions(r game.Rules, lists [][]game.Placement) *Collisions {
	c := &Collisions{m: intmap.New[CollisionKey](0)}
	for s1 := 0; s1 < len(lists); s1++ {
		for s2 := s1 + 1; s2 < len(lists); s2++ {
			l1, l2 := r.Length(s1), r.Length(s2)
			for _, p1 := range lists[s1] {
				for _, p2 := range lists[s2] {
					if p1.Overlaps(l1, p2, l2) {
						c.m.Put(CollisionKey{ShipA: s1, ShipB: s2, A: p1, B: p2}, 1)
					}
				}
			}
		}
	}
	return c
}

// Collide reports whether ship s1 at p1 and ship s2 at p2 share a square.
func (c *Collisions) Collide(s1, s2 int, p1, p2 game.Placement) bool {
	if s1 > s2 {
		s1, s2, p1, p2 = s2, s1, p2, p1
	}
	return c.m.Has(CollisionKey{ShipA: s1, ShipB: s2, A: p1, B: p2})
}

func (c *Collisions) Len() int { return c.m.Len() }
