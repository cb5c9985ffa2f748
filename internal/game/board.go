package game

import (
	"errors"
	"fmt"
)

// Cell is the evidence recorded for one board square.
type Cell uint8

const (
	Padding Cell = iota
	Unguessed
	Miss
	HitUnresolved
	HitOnSunkShip
)

// Admits reports whether a ship may lie over the cell.
func (c Cell) Admits() bool { return c == Unguessed || c == HitUnresolved }

// Glyph is the console rendering of the cell.
func (c Cell) Glyph() byte {
	switch c {
	case Unguessed:
		return '-'
	case Miss:
		return 'X'
	case HitUnresolved:
		return 'O'
	case HitOnSunkShip:
		return 'S'
	}
	return ' '
}

// ParseGlyph is the inverse of Glyph for playable cells.
func ParseGlyph(g byte) (Cell, error) {
	switch g {
	case '-', '.':
		return Unguessed, nil
	case 'X', 'x':
		return Miss, nil
	case 'O', 'o':
		return HitUnresolved, nil
	case 'S', 's':
		return HitOnSunkShip, nil
	}
	return Padding, fmt.Errorf("unknown cell glyph %q", g)
}

// Rules fixes the board side and the fleet. Ship i has length Lengths[i].
type Rules struct {
	Size    int   `json:"size"`
	Lengths []int `json:"lengths"`
}

// StandardRules is the 10x10 board with ships 2,3,3,4,5.
func StandardRules() Rules {
	return Rules{Size: 10, Lengths: []int{2, 3, 3, 4, 5}}
}

func (r Rules) Ships() int          { return len(r.Lengths) }
func (r Rules) Length(ship int) int { return r.Lengths[ship] }
func (r Rules) Squares() int        { return r.Size * r.Size }
func (r Rules) Contains(sq Square) bool {
	return sq.X >= 0 && sq.Y >= 0 && sq.X < r.Size && sq.Y < r.Size
}

// Padding is the border width needed so a footprint scan never leaves the grid.
func (r Rules) Padding() int {
	longest := 1
	for _, l := range r.Lengths {
		if l > longest {
			longest = l
		}
	}
	return longest - 1
}

func (r Rules) Validate() error {
	if r.Size <= 0 {
		return errors.New("board size must be positive")
	}
	if len(r.Lengths) == 0 {
		return errors.New("fleet must contain at least one ship")
	}
	for i, l := range r.Lengths {
		if l <= 0 || l > r.Size {
			return fmt.Errorf("ship %d: length %d does not fit a %dx%d board", i, l, r.Size, r.Size)
		}
	}
	return nil
}

// Board is the inner Size x Size grid wrapped in a padding border.
// Coordinates passed to At are inner coordinates and may reach into the border.
type Board struct {
	size   int
	pad    int
	stride int
	cells  []Cell
}

func NewBoard(size, pad int) *Board {
	stride := size + 2*pad
	b := &Board{size: size, pad: pad, stride: stride, cells: make([]Cell, stride*stride)}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			b.cells[b.offset(x, y)] = Unguessed
		}
	}
	return b
}

func (b *Board) offset(x, y int) int { return (y+b.pad)*b.stride + x + b.pad }

func (b *Board) Size() int    { return b.size }
func (b *Board) Padding() int { return b.pad }

// At returns the cell at inner coordinates (x,y); border cells read as Padding.
func (b *Board) At(x, y int) Cell { return b.cells[b.offset(x, y)] }

func (b *Board) Get(sq Square) Cell { return b.At(sq.X, sq.Y) }

func (b *Board) Set(sq Square, c Cell) { b.cells[b.offset(sq.X, sq.Y)] = c }

// Count returns how many inner squares hold c.
func (b *Board) Count(c Cell) int {
	n := 0
	for y := 0; y < b.size; y++ {
		for x := 0; x < b.size; x++ {
			if b.At(x, y) == c {
				n++
			}
		}
	}
	return n
}

func (b *Board) Clone() *Board {
	cp := *b
	cp.cells = append([]Cell(nil), b.cells...)
	return &cp
}

// Rows renders the inner board, row y=0 first.
func (b *Board) Rows() []string {
	rows := make([]string, b.size)
	line := make([]byte, b.size)
	for y := 0; y < b.size; y++ {
		for x := 0; x < b.size; x++ {
			line[x] = b.At(x, y).Glyph()
		}
		rows[y] = string(line)
	}
	return rows
}
