// Package console is the interactive text front-end: it asks the engine for
// guesses and reads the player's hit, miss and sinkage reports.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"battleship-advisor/internal/app"
	"battleship-advisor/internal/engine"
	"battleship-advisor/internal/game"
)

type Console struct {
	in      *bufio.Scanner
	out     io.Writer
	session *app.Session
	// Stats prints the search summary after every generated guess.
	Stats bool
}

func New(in io.Reader, out io.Writer, s *app.Session) *Console {
	sc := bufio.NewScanner(in)
	sc.Split(bufio.ScanWords)
	return &Console{in: sc, out: out, session: s}
}

// Run shows the welcome screen and plays one game unless the player quits.
func (c *Console) Run() error {
	fmt.Fprintf(c.out, "\nWELCOME TO BATTLESHIP\n\n")
	n := c.session.State.Rules.Size
	fmt.Fprintf(c.out, "Board size: %d x %d\n\n", n, n)
	fmt.Fprintf(c.out, "Press 1 to play new game.\nPress 2 to quit.\n\n")

	choice, err := c.choose(func(v int) bool { return v == 1 || v == 2 })
	if err != nil || choice == 2 {
		return err
	}
	return c.Play()
}

// Play loops until every ship is sunk or the player quits.
func (c *Console) Play() error {
	st := c.session.State
	quit := false
	for !st.IsGameOver() && !quit {
		c.PrintBoard()
		fmt.Fprintf(c.out, "Guesses so far: %d\n", st.Guesses)

		var err error
		quit, err = c.promptInput()
		if errors.Is(err, io.EOF) {
			quit = true
		} else if err != nil {
			return err
		}
	}
	if quit {
		fmt.Fprintf(c.out, "Quit game at %d guesses.\n", st.Guesses)
	} else {
		fmt.Fprintf(c.out, "Game over in %d guesses.\n", st.Guesses)
	}
	return nil
}

// PrintBoard draws the evidence with the highest row on top.
func (c *Console) PrintBoard() {
	b := c.session.State.Board
	fmt.Fprintf(c.out, "\n-----BOARD STATUS-----\n\n")
	var sb strings.Builder
	for y := b.Size() - 1; y >= 0; y-- {
		fmt.Fprintf(&sb, " %-3d", y+1)
		for x := 0; x < b.Size(); x++ {
			sb.WriteByte(b.At(x, y).Glyph())
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("    ")
	for x := 1; x <= b.Size(); x++ {
		fmt.Fprintf(&sb, "%d ", x)
	}
	sb.WriteString("\n\n")
	io.WriteString(c.out, sb.String())
}

func (c *Console) promptInput() (quit bool, err error) {
	fmt.Fprintf(c.out, "Press 1 for next guess.\nPress 2 to input ship sinkage.\nPress 3 to quit game.\n\n")
	choice, err := c.choose(func(v int) bool { return v >= 1 && v <= 3 })
	if err != nil {
		return false, err
	}
	switch choice {
	case 1:
		return false, c.promptGuess()
	case 2:
		return false, c.promptShipSinkage()
	}
	return true, nil
}

func (c *Console) promptGuess() error {
	st := c.session.State
	a, err := c.session.NextMove()
	if errors.Is(err, engine.ErrNoMove) {
		fmt.Fprintf(c.out, "\nNo move could be determined; check the reported hits and sinkages.\n")
		return nil
	}
	if err != nil {
		return err
	}
	if c.Stats {
		fmt.Fprintf(c.out, "Search: %s, %d valid configs out of %d, time taken %.3fs\n",
			a.Strategy, a.Valid, a.Tested, a.Elapsed.Seconds())
	}

	fmt.Fprintf(c.out, "\nGuess %d: %v\n", st.Guesses+1, a.Move)
	fmt.Fprintf(c.out, "Enter 1 for hit.\nEnter 2 for miss.\n")
	answer, err := c.choose(func(v int) bool { return v == 1 || v == 2 })
	if err != nil {
		return err
	}
	out := game.OutcomeMiss
	if answer == 1 {
		out = game.OutcomeHit
	}
	return c.session.ReportGuessOutcome(a.Move, out)
}

func (c *Console) promptShipSinkage() error {
	st := c.session.State
	ships := st.Rules.Ships()
	fmt.Fprintf(c.out, "Which ship was sunk? (Enter a number between 1-%d)\n", ships)
	lengths := make([]string, ships)
	for i, l := range st.Rules.Lengths {
		lengths[i] = strconv.Itoa(l)
	}
	fmt.Fprintf(c.out, "Note: ship order is %s.\n\n", strings.Join(lengths, ", "))

	ship, err := c.chooseMsg(func(v int) bool { return v >= 1 && v <= ships && !st.Sunk[v-1] },
		"Bad input or that ship has been sunk already, try again.")
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "What is the x-coordinate of the ship's left or bottom square?\n")
	x, err := c.choose(func(v int) bool { return v >= 1 && v <= st.Rules.Size })
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "What is the y-coordinate of the ship's left or bottom square?\n")
	y, err := c.choose(func(v int) bool { return v >= 1 && v <= st.Rules.Size })
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Is the ship facing up or right? Enter 0 for up and 1 for right.\n")
	o, err := c.choose(func(v int) bool { return v == 0 || v == 1 })
	if err != nil {
		return err
	}

	p := game.Placement{X: x - 1, Y: y - 1, Orient: game.Orientation(o)}
	if err := c.session.ReportShipSunk(ship-1, p); err != nil {
		fmt.Fprintf(c.out, "Sinkage rejected: %v\n", err)
	}
	return nil
}

func (c *Console) choose(ok func(int) bool) (int, error) {
	return c.chooseMsg(ok, "Bad input, try again.")
}

// chooseMsg reads integers until ok accepts one.
func (c *Console) chooseMsg(ok func(int) bool, retry string) (int, error) {
	for c.in.Scan() {
		v, err := strconv.Atoi(c.in.Text())
		if err == nil && ok(v) {
			return v, nil
		}
		fmt.Fprintln(c.out, retry)
	}
	if err := c.in.Err(); err != nil {
		return 0, err
	}
	return 0, io.EOF
}
