package engine

import "battleship-advisor/internal/game"

// GeneratePlacements lists, per ship, every placement whose footprint lies on
// the inner board over Unguessed or HitUnresolved squares only. Sunk ships get
// the same scan as the rest; their pinned placement is substituted at search
// time. Order is x outer, y inner, up before right.
func GeneratePlacements(st *game.State) [][]game.Placement {
	r := st.Rules
	lists := make([][]game.Placement, r.Ships())

	// ships of equal length share one scan
	byLength := make(map[int][]game.Placement)
	for _, l := range r.Lengths {
		if _, ok := byLength[l]; ok {
			continue
		}
		byLength[l] = scanLength(st.Board, l)
	}
	for i, l := range r.Lengths {
		lists[i] = append([]game.Placement(nil), byLength[l]...)
	}
	return lists
}

func scanLength(b *game.Board, length int) []game.Placement {
	var out []game.Placement
	n := b.Size()
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			for _, o := range [...]game.Orientation{game.Up, game.Right} {
				p := game.Placement{X: x, Y: y, Orient: o}
				if admits(b, p, length) {
					out = append(out, p)
				}
			}
		}
	}
	return out
}

// admits relies on the padding border: squares past the edge read as Padding.
func admits(b *game.Board, p game.Placement, length int) bool {
	for i := 0; i < length; i++ {
		sq := p.Square(i)
		if !b.At(sq.X, sq.Y).Admits() {
			return false
		}
	}
	return true
}
