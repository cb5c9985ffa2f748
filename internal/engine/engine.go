// Package engine picks the next guess by counting how often each square is
// covered across every fleet consistent with the evidence on the board, and
// choosing the square closest to a 50/50 split.
package engine

import (
	"time"

	"github.com/rs/zerolog"

	"battleship-advisor/internal/game"
)

// DefaultCeiling bounds exhaustive enumeration and is the sample count when
// the cross product is larger.
const DefaultCeiling = 10_000_000

type Config struct {
	// Ceiling is the largest cross product enumerated exhaustively and the
	// number of draws when sampling. Zero means DefaultCeiling.
	Ceiling int
	// Budget, when positive, also stops sampling at this wall-clock limit.
	Budget time.Duration
}

func (c Config) ceiling() int {
	if c.Ceiling <= 0 {
		return DefaultCeiling
	}
	return c.Ceiling
}

// Analysis describes one move-generation pass.
type Analysis struct {
	Move       game.Square   `json:"move"`
	Strategy   Strategy      `json:"strategy"`
	Placements []int         `json:"placements"`
	Collisions int           `json:"collisions"`
	Candidates float64       `json:"candidates"`
	Tested     int           `json:"tested"`
	Valid      int           `json:"valid"`
	Coverage   []int         `json:"coverage"`
	Distance   float64       `json:"distance"`
	Elapsed    time.Duration `json:"elapsed"`
}

// Engine runs move-generation passes. It keeps no state between passes
// other than its random source.
type Engine struct {
	cfg Config
	rng Source
	log zerolog.Logger
}

func New(cfg Config, rng Source, logger zerolog.Logger) *Engine {
	if rng == nil {
		rng = NewSource(uint64(time.Now().UnixNano()))
	}
	return &Engine{cfg: cfg, rng: rng, log: logger}
}

// GenerateMove returns the next square to guess, or ErrNoMove.
func (e *Engine) GenerateMove(st *game.State) (game.Square, error) {
	a, err := e.Analyze(st)
	if err != nil {
		return game.Square{}, err
	}
	return a.Move, nil
}

// Analyze runs one full pass. The returned Analysis is filled in even when
// the error is ErrNoMove.
func (e *Engine) Analyze(st *game.State) (*Analysis, error) {
	start := time.Now()
	a := &Analysis{}

	lists := GeneratePlacements(st)
	for _, l := range lists {
		a.Placements = append(a.Placements, len(l))
	}
	e.log.Debug().Ints("placements", a.Placements).Msg("Ship placements generated")

	coll := PrecomputeCollisions(st.Rules, lists)
	a.Collisions = coll.Len()
	e.log.Debug().Int("collisions", a.Collisions).Msg("Ship collisions generated")

	s := newSearcher(st, lists, coll)
	a.Candidates = s.candidates()
	searchStart := time.Now()
	if a.Candidates > float64(e.cfg.ceiling()) {
		a.Strategy = Sampled
		var deadline time.Time
		if e.cfg.Budget > 0 {
			deadline = searchStart.Add(e.cfg.Budget)
		}
		a.Valid, a.Tested = s.sampled(e.rng, e.cfg.ceiling(), deadline)
	} else {
		a.Strategy = Exhaustive
		a.Valid, a.Tested = s.exhaustive()
	}
	e.log.Debug().
		Stringer("strategy", a.Strategy).
		Float64("candidates", a.Candidates).
		Int("valid", a.Valid).
		Int("tested", a.Tested).
		Dur("search", time.Since(searchStart)).
		Msg("Fleet search finished")

	a.Coverage = Coverage(st, lists, s.freq)
	move, dist, err := SelectBestMove(st, a.Coverage, a.Valid)
	a.Move, a.Distance = move, dist
	a.Elapsed = time.Since(start)
	if err != nil {
		e.log.Warn().Int("valid", a.Valid).Msg("No square is covered by a valid fleet")
		return a, err
	}
	e.log.Debug().
		Stringer("move", a.Move).
		Float64("distance", a.Distance).
		Dur("elapsed", a.Elapsed).
		Msg("Best move calculated")
	return a, nil
}
