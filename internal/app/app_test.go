package app

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/rs/zerolog"

	"battleship-advisor/internal/codec"
	"battleship-advisor/internal/engine"
	"battleship-advisor/internal/game"
	"battleship-advisor/internal/zk"
)

func smallLayout() game.Layout {
	return game.Layout{
		Rules: game.Rules{Size: 5, Lengths: []int{2, 3}},
		Ships: []game.Placement{
			{X: 0, Y: 0, Orient: game.Right},
			{X: 4, Y: 1, Orient: game.Up},
		},
	}
}

func TestCommitRejectsBadLayout(t *testing.T) {
	l := smallLayout()
	l.Ships[1] = game.Placement{X: 1, Y: 0, Orient: game.Up}
	if _, err := Commit(l); err == nil {
		t.Error("overlapping layout committed")
	}
}

func TestCommitSaltsRoot(t *testing.T) {
	a, err := Commit(smallLayout())
	if err != nil {
		t.Fatal(err)
	}
	b, err := Commit(smallLayout())
	if err != nil {
		t.Fatal(err)
	}
	if a.RootHex == b.RootHex {
		t.Error("two commitments to the same layout are equal")
	}
	if _, err := a.Secret.Salt(); err != nil {
		t.Error(err)
	}
}

func TestRefereeFire(t *testing.T) {
	ref, err := NewReferee(smallLayout(), nil)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		sq   game.Square
		want game.Outcome
		sunk int
	}{
		{game.Square{X: 2, Y: 2}, game.OutcomeMiss, -1},
		{game.Square{X: 0, Y: 0}, game.OutcomeHit, -1},
		{game.Square{X: 1, Y: 0}, game.OutcomeHit, 0},
		{game.Square{X: 4, Y: 1}, game.OutcomeHit, -1},
		{game.Square{X: 4, Y: 2}, game.OutcomeHit, -1},
		{game.Square{X: 4, Y: 3}, game.OutcomeHit, 1},
	}
	for _, tc := range tests {
		ans, err := ref.Fire(tc.sq)
		if err != nil {
			t.Fatal(err)
		}
		if ans.Outcome != tc.want {
			t.Errorf("%v: outcome %v, want %v", tc.sq, ans.Outcome, tc.want)
		}
		switch {
		case tc.sunk < 0 && ans.Sunk != nil:
			t.Errorf("%v: unexpected sunk report %+v", tc.sq, ans.Sunk)
		case tc.sunk >= 0 && (ans.Sunk == nil || ans.Sunk.Ship != tc.sunk):
			t.Errorf("%v: sunk = %+v, want ship %d", tc.sq, ans.Sunk, tc.sunk)
		}
		if ans.Proof != nil {
			t.Errorf("%v: proof without keys", tc.sq)
		}
	}
	if _, err := ref.Fire(game.Square{X: 5, Y: 0}); !errors.Is(err, game.ErrOutOfBounds) {
		t.Errorf("err = %v, want ErrOutOfBounds", err)
	}
}

func TestPlayGameSmallBoard(t *testing.T) {
	ref, err := NewReferee(smallLayout(), nil)
	if err != nil {
		t.Fatal(err)
	}
	e := engine.New(engine.Config{}, engine.NewSource(1), zerolog.Nop())
	res, err := PlayGame(e, ref, Attacker{}, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if res.Guesses < 5 || res.Guesses > 25 {
		t.Errorf("guesses = %d, want between 5 and 25", res.Guesses)
	}
}

func TestSessionStopsWhenOver(t *testing.T) {
	s := NewSession(engine.New(engine.Config{Ceiling: 1000}, engine.NewSource(2), zerolog.Nop()))
	if _, err := s.NextMove(); err != nil {
		t.Fatal(err)
	}
	if s.Last == nil || s.Last.Strategy != engine.Sampled {
		t.Fatalf("last analysis = %+v", s.Last)
	}
	for i := 0; i < 5; i++ {
		p := game.Placement{X: 0, Y: i * 2, Orient: game.Right}
		for _, sq := range p.Footprint(s.State.Rules.Length(i)) {
			if err := s.ReportGuessOutcome(sq, game.OutcomeHit); err != nil {
				t.Fatal(err)
			}
		}
		if err := s.ReportShipSunk(i, p); err != nil {
			t.Fatal(err)
		}
	}
	if !s.IsGameOver() {
		t.Fatal("all ships sunk but game not over")
	}
	if _, err := s.NextMove(); err == nil {
		t.Error("move generated after game over")
	}
	if len(s.Snapshot().Sunk) != 5 {
		t.Error("snapshot lost sunk ships")
	}
}

func TestShootAndVerify(t *testing.T) {
	if testing.Short() {
		t.Skip("groth16 setup is slow")
	}
	keys, err := zk.Setup()
	if err != nil {
		t.Fatal(err)
	}
	l, err := InitLayout(rand.New(rand.NewPCG(1, 2)))
	if err != nil {
		t.Fatal(err)
	}
	c, err := Commit(l)
	if err != nil {
		t.Fatal(err)
	}
	root, err := codec.ParseHex(c.RootHex)
	if err != nil {
		t.Fatal(err)
	}

	target := l.Ships[4].Square(2)
	res, err := Shoot(keys, c.Secret, target)
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != game.OutcomeHit {
		t.Fatalf("shot at ship 5 reported %v", res.Outcome)
	}
	v, err := VerifyWithRoot(keys.VK, l.Rules, root, res.Payload)
	if err != nil {
		t.Fatal(err)
	}
	if v.Square != target || v.Outcome != game.OutcomeHit {
		t.Errorf("verified %v %v, want %v hit", v.Square, v.Outcome, target)
	}

	forged := res.Payload
	forged.Public.Hit = 0
	if _, err := VerifyWithRoot(keys.VK, l.Rules, root, forged); err == nil {
		t.Error("forged miss verified")
	}
}

func TestPlayGameVerified(t *testing.T) {
	if testing.Short() {
		t.Skip("groth16 setup is slow")
	}
	keys, err := zk.Setup()
	if err != nil {
		t.Fatal(err)
	}
	l, err := InitLayout(rand.New(rand.NewPCG(3, 4)))
	if err != nil {
		t.Fatal(err)
	}
	ref, err := NewReferee(l, keys)
	if err != nil {
		t.Fatal(err)
	}
	e := engine.New(engine.Config{Ceiling: 100_000}, engine.NewSource(5), zerolog.Nop())
	res, err := PlayGame(e, ref, Attacker{Root: ref.Root(), VK: keys.VK}, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if res.Verified != res.Guesses {
		t.Errorf("verified %d of %d answers", res.Verified, res.Guesses)
	}
	if res.Guesses < 17 || res.Guesses > 100 {
		t.Errorf("guesses = %d", res.Guesses)
	}
}
