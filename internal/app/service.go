// Package app wires the engine, the layout commitment and the shot proofs
// into the operations the command line and the HTTP front-end expose.
package app

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/backend/groth16"

	"battleship-advisor/internal/codec"
	"battleship-advisor/internal/game"
	"battleship-advisor/internal/merkle"
	"battleship-advisor/internal/zk"
)

type CommitResult struct {
	RootHex string
	Secret  codec.Secret
}

// InitLayout draws a random hidden fleet under the standard rules.
func InitLayout(rng game.Rand) (game.Layout, error) {
	return game.GenerateRandomLayout(game.StandardRules(), rng)
}

// Commit builds the merkle tree over l and salts its root so equal layouts
// publish different commitments.
func Commit(l game.Layout) (*CommitResult, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	bits := l.Flatten()
	t, err := merkle.BuildFixedTree(bits, merkle.SizeFor(len(bits)))
	if err != nil {
		return nil, err
	}

	saltBytes := make([]byte, 32)
	if _, err := rand.Read(saltBytes); err != nil {
		return nil, err
	}
	salt := new(big.Int).SetBytes(saltBytes)
	salt.Mod(salt, fr.Modulus())

	return &CommitResult{
		RootHex: codec.FormatHex(t.SaltedRoot(salt)),
		Secret: codec.Secret{
			Layout:  l,
			Tree:    t,
			SaltHex: codec.FormatHex(salt),
		},
	}, nil
}

type ShootResult struct {
	Payload codec.ShotProofPayload
	Outcome game.Outcome
}

// Shoot answers a shot at sq with a proof bound to the secret's commitment.
func Shoot(keys *zk.Keys, sec codec.Secret, sq game.Square) (*ShootResult, error) {
	r := sec.Layout.Rules
	if !r.Contains(sq) {
		return nil, fmt.Errorf("%v: %w", sq, game.ErrOutOfBounds)
	}
	if sec.Tree == nil || sec.Tree.Depth != zk.MerkleDepth {
		return nil, fmt.Errorf("secret tree cannot be proven with depth %d circuit", zk.MerkleDepth)
	}
	salt, err := sec.Salt()
	if err != nil {
		return nil, fmt.Errorf("secret salt: %w", err)
	}

	idx := sq.Index(r.Size)
	bit := sec.Layout.Flatten()[idx]
	path, _, err := sec.Tree.Path(idx)
	if err != nil {
		return nil, err
	}

	proof, pub, err := keys.ProveShot(zk.ShotWitness{
		Bit:   bit,
		Index: idx,
		Path:  path,
		Salt:  salt,
		Root:  sec.Tree.SaltedRoot(salt),
	})
	if err != nil {
		return nil, err
	}
	out := game.OutcomeMiss
	if bit == 1 {
		out = game.OutcomeHit
	}
	return &ShootResult{Payload: codec.ShotProofPayload{Proof: proof, Public: pub}, Outcome: out}, nil
}

type VerifyResult struct {
	Square  game.Square
	Outcome game.Outcome
}

// VerifyWithRoot checks a shot proof against the commitment root the
// attacker holds and returns the proven answer.
func VerifyWithRoot(vk groth16.VerifyingKey, r game.Rules, root *big.Int, payload codec.ShotProofPayload) (*VerifyResult, error) {
	if payload.Public.Index < 0 || payload.Public.Index >= r.Squares() {
		return nil, fmt.Errorf("proof index %d: %w", payload.Public.Index, game.ErrOutOfBounds)
	}
	if err := zk.VerifyShot(vk, payload.Proof, payload.Public, root); err != nil {
		return nil, fmt.Errorf("invalid proof: %w", err)
	}
	res := &VerifyResult{Square: game.SquareAt(payload.Public.Index, r.Size), Outcome: game.OutcomeMiss}
	if payload.Public.Hit == 1 {
		res.Outcome = game.OutcomeHit
	}
	return res, nil
}
