package app

import (
	"math/big"

	"battleship-advisor/internal/codec"
	"battleship-advisor/internal/game"
	"battleship-advisor/internal/zk"
)

// Answer is the defender's reply to one shot.
type Answer struct {
	Square  game.Square
	Outcome game.Outcome
	Sunk    *codec.SunkShip
	Proof   *codec.ShotProofPayload
}

// Referee defends a committed hidden layout. With keys set, every answer
// carries a proof against the published root.
type Referee struct {
	sec    codec.Secret
	root   *big.Int
	keys   *zk.Keys
	damage []int
}

func NewReferee(l game.Layout, keys *zk.Keys) (*Referee, error) {
	c, err := Commit(l)
	if err != nil {
		return nil, err
	}
	root, err := codec.ParseHex(c.RootHex)
	if err != nil {
		return nil, err
	}
	return &Referee{sec: c.Secret, root: root, keys: keys, damage: make([]int, l.Rules.Ships())}, nil
}

// Root is the published commitment.
func (r *Referee) Root() *big.Int { return new(big.Int).Set(r.root) }

func (r *Referee) Layout() game.Layout { return r.sec.Layout }

// Fire answers a shot at sq. The caller must not repeat squares; a ship is
// reported sunk on the shot that takes its last square.
func (r *Referee) Fire(sq game.Square) (*Answer, error) {
	l := r.sec.Layout
	if !l.Rules.Contains(sq) {
		return nil, game.ErrOutOfBounds
	}
	a := &Answer{Square: sq, Outcome: game.OutcomeMiss}
	if r.keys != nil {
		res, err := Shoot(r.keys, r.sec, sq)
		if err != nil {
			return nil, err
		}
		a.Outcome = res.Outcome
		a.Proof = &res.Payload
	}
	ship, hit := l.ShipAt(sq)
	if hit {
		a.Outcome = game.OutcomeHit
		r.damage[ship]++
		if r.damage[ship] == l.Rules.Length(ship) {
			a.Sunk = &codec.SunkShip{Ship: ship, Placement: l.Ships[ship]}
		}
	}
	return a, nil
}
