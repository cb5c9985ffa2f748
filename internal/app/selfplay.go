package app

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark/backend/groth16"
	"github.com/rs/zerolog"

	"battleship-advisor/internal/engine"
	"battleship-advisor/internal/game"
)

// noMoveRetries is how many fresh passes a sampled search gets when its
// draws found no valid fleet.
const noMoveRetries = 3

// GameResult summarises one self-played game.
type GameResult struct {
	Guesses  int
	Verified int
}

// Attacker holds what the guessing side trusts: the defender's commitment
// and, when proofs are used, its verifying key.
type Attacker struct {
	Root *big.Int
	VK   groth16.VerifyingKey
}

// PlayGame lets e guess against ref until every ship is sunk. Proof-carrying
// answers are verified before the outcome is applied.
func PlayGame(e *engine.Engine, ref *Referee, att Attacker, logger zerolog.Logger) (*GameResult, error) {
	rules := ref.Layout().Rules
	st := game.NewState(rules)
	res := &GameResult{}

	for !st.IsGameOver() {
		if st.Guesses >= rules.Squares() {
			return res, fmt.Errorf("no win after %d guesses", st.Guesses)
		}
		sq, err := nextMove(e, st, logger)
		if err != nil {
			return res, fmt.Errorf("guess %d: %w", st.Guesses+1, err)
		}
		ans, err := ref.Fire(sq)
		if err != nil {
			return res, err
		}

		outcome := ans.Outcome
		if ans.Proof != nil && att.VK != nil {
			v, err := VerifyWithRoot(att.VK, rules, att.Root, *ans.Proof)
			if err != nil {
				return res, fmt.Errorf("answer for %v: %w", sq, err)
			}
			if v.Square != sq {
				return res, fmt.Errorf("answer proves %v, shot was %v", v.Square, sq)
			}
			outcome = v.Outcome
			res.Verified++
		}

		if err := st.ReportGuessOutcome(sq, outcome); err != nil {
			return res, err
		}
		logger.Debug().Int("guess", st.Guesses).Stringer("square", sq).Stringer("outcome", outcome).Msg("Shot answered")
		if ans.Sunk != nil {
			if err := st.ReportShipSunk(ans.Sunk.Ship, ans.Sunk.Placement); err != nil {
				return res, err
			}
			logger.Debug().Int("ship", ans.Sunk.Ship+1).Stringer("at", ans.Sunk.Placement).Msg("Ship sunk")
		}
	}
	res.Guesses = st.Guesses
	return res, nil
}

// nextMove retries passes that came back empty; a sampled search can miss
// every valid fleet when several unresolved hits constrain the board.
func nextMove(e *engine.Engine, st *game.State, logger zerolog.Logger) (game.Square, error) {
	for attempt := 0; ; attempt++ {
		a, err := e.Analyze(st)
		if err == nil {
			return a.Move, nil
		}
		if !errors.Is(err, engine.ErrNoMove) || a.Strategy != engine.Sampled || attempt == noMoveRetries {
			return game.Square{}, err
		}
		logger.Warn().Int("attempt", attempt+1).Int("tested", a.Tested).Msg("Sampled pass found no valid fleet, retrying")
	}
}
