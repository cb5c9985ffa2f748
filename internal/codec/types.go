// Package codec holds the JSON shapes exchanged with files and HTTP clients.
package codec

import (
	"fmt"
	"math/big"
	"strings"

	"battleship-advisor/internal/game"
	"battleship-advisor/internal/merkle"
	"battleship-advisor/internal/zk"
)

// Secret is the defender's private state behind a published commitment.
type Secret struct {
	Layout  game.Layout  `json:"layout"`
	Tree    *merkle.Tree `json:"tree"`
	SaltHex string       `json:"salt_hex"`
}

func (s Secret) Salt() (*big.Int, error) { return ParseHex(s.SaltHex) }

type ShotProofPayload struct {
	Proof  []byte        `json:"proof"`
	Public zk.ShotPublic `json:"public"` // root, index and hit bit
}

// SunkShip reports ship Ship (0-based) pinned at Placement.
type SunkShip struct {
	Ship      int            `json:"ship"`
	Placement game.Placement `json:"placement"`
}

// Snapshot is the evidence on a board: Rows[y] holds one glyph per x
// ('-' unguessed, 'X' miss, 'O' hit, 'S' hit on a sunk ship).
type Snapshot struct {
	Rows []string   `json:"rows"`
	Sunk []SunkShip `json:"sunk,omitempty"`
}

func EncodeState(st *game.State) Snapshot {
	snap := Snapshot{Rows: st.Board.Rows()}
	for i, sunk := range st.Sunk {
		if sunk {
			snap.Sunk = append(snap.Sunk, SunkShip{Ship: i, Placement: st.SunkAt[i]})
		}
	}
	return snap
}

// DecodeState rebuilds a game under rules r from a snapshot. Every 'S' square
// must lie under one of the reported sunk ships.
func DecodeState(r game.Rules, snap Snapshot) (*game.State, error) {
	if len(snap.Rows) != r.Size {
		return nil, fmt.Errorf("snapshot has %d rows, want %d", len(snap.Rows), r.Size)
	}
	st := game.NewState(r)
	var sunkGlyphs []game.Square
	for y, row := range snap.Rows {
		if len(row) != r.Size {
			return nil, fmt.Errorf("row %d has %d squares, want %d", y, len(row), r.Size)
		}
		for x := 0; x < len(row); x++ {
			c, err := game.ParseGlyph(row[x])
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", y, err)
			}
			sq := game.Square{X: x, Y: y}
			switch c {
			case game.Miss:
				err = st.ReportGuessOutcome(sq, game.OutcomeMiss)
			case game.HitUnresolved:
				err = st.ReportGuessOutcome(sq, game.OutcomeHit)
			case game.HitOnSunkShip:
				err = st.ReportGuessOutcome(sq, game.OutcomeHit)
				sunkGlyphs = append(sunkGlyphs, sq)
			}
			if err != nil {
				return nil, err
			}
		}
	}
	for _, s := range snap.Sunk {
		if err := st.ReportShipSunk(s.Ship, s.Placement); err != nil {
			return nil, err
		}
	}
	for _, sq := range sunkGlyphs {
		if st.Board.Get(sq) != game.HitOnSunkShip {
			return nil, fmt.Errorf("%v is marked sunk but no sunk ship covers it", sq)
		}
	}
	return st, nil
}

// FormatHex renders a field element the way commitments are published.
func FormatHex(x *big.Int) string { return fmt.Sprintf("0x%x", x) }

func ParseHex(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if len(s) < 3 || (s[:2] != "0x" && s[:2] != "0X") {
		return nil, fmt.Errorf("invalid hex %q: want 0x prefix", s)
	}
	n, ok := new(big.Int).SetString(s[2:], 16)
	if !ok {
		return nil, fmt.Errorf("cannot parse hex %q", s)
	}
	return n, nil
}
