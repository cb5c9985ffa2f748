package engine

import (
	"errors"
	"math"

	"battleship-advisor/internal/game"
)

// ErrNoMove means no unguessed square is covered by any valid fleet.
// Under consistent reports this does not happen.
var ErrNoMove = errors.New("no actionable move")

// Coverage sums, per square in scan order, the frequencies of every afloat
// ship placement that covers it.
func Coverage(st *game.State, lists [][]game.Placement, freq *Frequencies) []int {
	n := st.Rules.Size
	cov := make([]int, n*n)
	for ship, list := range lists {
		if st.Sunk[ship] {
			continue
		}
		length := st.Rules.Length(ship)
		for _, p := range list {
			f := freq.Get(FrequencyKey{Ship: ship, Placement: p})
			if f <= 0 {
				continue
			}
			for i := 0; i < length; i++ {
				cov[p.Square(i).Index(n)] += f
			}
		}
	}
	return cov
}

// SelectBestMove picks the unguessed square whose coverage is nearest to half
// of validFleets. Squares with zero coverage are skipped. Ties keep the first
// square in scan order. It also returns the winning distance.
func SelectBestMove(st *game.State, coverage []int, validFleets int) (game.Square, float64, error) {
	n := st.Rules.Size
	target := float64(validFleets) / 2
	best, bestDiff := -1, math.Inf(1)
	for i, c := range coverage {
		if c == 0 || st.Board.Get(game.SquareAt(i, n)) != game.Unguessed {
			continue
		}
		if d := math.Abs(float64(c) - target); d < bestDiff {
			best, bestDiff = i, d
		}
	}
	if best < 0 {
		return game.Square{}, 0, ErrNoMove
	}
	return game.SquareAt(best, n), bestDiff, nil
}
