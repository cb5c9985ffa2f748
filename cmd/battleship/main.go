package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"battleship-advisor/internal/app"
	"battleship-advisor/internal/codec"
	"battleship-advisor/internal/config"
	"battleship-advisor/internal/console"
	"battleship-advisor/internal/engine"
	"battleship-advisor/internal/game"
	"battleship-advisor/internal/logger"
	"battleship-advisor/internal/server"
	"battleship-advisor/internal/zk"
)

func main() {
	logger.Init(os.Stderr)
	cfg := config.Load()

	if len(os.Args) < 2 {
		usage()
		return
	}
	switch os.Args[1] {
	case "play":
		cmdPlay(cfg)
	case "move":
		cmdMove(cfg)
	case "selfplay":
		cmdSelfPlay(cfg)
	case "init":
		cmdInit(cfg)
	case "commit":
		cmdCommit(cfg)
	case "shoot":
		cmdShoot(cfg)
	case "verify":
		cmdVerify(cfg)
	case "serve":
		cmdServe(cfg)
	default:
		usage()
	}
}

func usage() {
	fmt.Println(`Battleship advisor

Commands:
  play     [--stats] [--ceiling N] [--budget D] [--seed S] [--debug]
  move     --board snapshot.json [--ceiling N] [--budget D] [--seed S]
  selfplay --games N [--prove --keys ./keys] [--seed S]
  init     --out layout.json
  commit   --layout layout.json --secret secret.json --keys ./keys
  shoot    --secret secret.json --keys ./keys --x X --y Y --out proof.json
  verify   --vk ./keys/shot.vk --root ROOT_HEX --proof proof.json --x X --y Y
  serve    --addr :8080`)
}

// engineFlags registers the search settings shared by the advising commands.
func engineFlags(fs *flag.FlagSet, cfg *config.Config) *bool {
	fs.IntVar(&cfg.Ceiling, "ceiling", cfg.Ceiling, "candidate fleets tested per move")
	fs.DurationVar(&cfg.Budget, "budget", cfg.Budget, "wall-clock limit for sampled passes (0 = none)")
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "random seed (0 = clock)")
	return fs.Bool("debug", false, "log every search pass")
}

// parseFlags parses the sub-command arguments and applies --debug.
func parseFlags(fs *flag.FlagSet, debug *bool) {
	_ = fs.Parse(os.Args[2:])
	if *debug {
		logger.SetDebug()
	}
}

func newEngine(cfg *config.Config) *engine.Engine {
	return engine.New(cfg.Engine(), cfg.Source(), logger.Get())
}

func cmdPlay(cfg *config.Config) {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	stats := fs.Bool("stats", false, "print search statistics after every guess")
	debug := engineFlags(fs, cfg)
	parseFlags(fs, debug)

	c := console.New(os.Stdin, os.Stdout, app.NewSession(newEngine(cfg)))
	c.Stats = *stats
	if err := c.Run(); err != nil {
		log.Fatal().Err(err).Msg("Console stopped")
	}
}

func cmdMove(cfg *config.Config) {
	fs := flag.NewFlagSet("move", flag.ExitOnError)
	boardPath := fs.String("board", "snapshot.json", "board snapshot file")
	debug := engineFlags(fs, cfg)
	parseFlags(fs, debug)

	var snap codec.Snapshot
	if err := loadJSON(*boardPath, &snap); err != nil {
		log.Fatal().Err(err).Str("path", *boardPath).Msg("Failed to read snapshot")
	}
	st, err := codec.DecodeState(game.StandardRules(), snap)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid snapshot")
	}
	a, err := newEngine(cfg).Analyze(st)
	if err != nil {
		log.Fatal().Err(err).Msg("No move")
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(a)
}

func cmdSelfPlay(cfg *config.Config) {
	fs := flag.NewFlagSet("selfplay", flag.ExitOnError)
	games := fs.Int("games", 1, "number of games")
	prove := fs.Bool("prove", false, "answer every shot with a verified proof")
	keysDir := fs.String("keys", cfg.KeysDir, "keys directory")
	debug := engineFlags(fs, cfg)
	parseFlags(fs, debug)

	var keys *zk.Keys
	if *prove {
		var err error
		if keys, err = zk.EnsureShotKeys(*keysDir); err != nil {
			log.Fatal().Err(err).Msg("Failed to load shot keys")
		}
	}

	src := cfg.Source()
	e := engine.New(cfg.Engine(), src, logger.Get())
	total := 0
	for g := 1; g <= *games; g++ {
		start := time.Now()
		l, err := app.InitLayout(src)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to place fleet")
		}
		ref, err := app.NewReferee(l, keys)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to commit fleet")
		}
		att := app.Attacker{Root: ref.Root()}
		if keys != nil {
			att.VK = keys.VK
		}
		res, err := app.PlayGame(e, ref, att, logger.Get())
		if err != nil {
			log.Fatal().Err(err).Int("game", g).Msg("Self-play failed")
		}
		total += res.Guesses
		log.Info().
			Int("game", g).
			Int("guesses", res.Guesses).
			Int("verified", res.Verified).
			Dur("elapsed", time.Since(start)).
			Msg("Game finished")
	}
	log.Info().Int("games", *games).Float64("avgGuesses", float64(total)/float64(*games)).Msg("Self-play done")
}

func cmdInit(cfg *config.Config) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	out := fs.String("out", "layout.json", "output layout file")
	_ = fs.Parse(os.Args[2:])

	l, err := app.InitLayout(cfg.Source())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to place fleet")
	}
	if err := saveJSON(*out, l); err != nil {
		log.Fatal().Err(err).Msg("Failed to write layout")
	}
	fmt.Println("✓ wrote", *out)
}

func cmdCommit(cfg *config.Config) {
	fs := flag.NewFlagSet("commit", flag.ExitOnError)
	layoutPath := fs.String("layout", "layout.json", "layout file")
	secretPath := fs.String("secret", "secret.json", "defender secret state")
	keysDir := fs.String("keys", cfg.KeysDir, "keys directory")
	_ = fs.Parse(os.Args[2:])

	var l game.Layout
	if err := loadJSON(*layoutPath, &l); err != nil {
		log.Fatal().Err(err).Msg("Failed to read layout")
	}
	c, err := app.Commit(l)
	if err != nil {
		log.Fatal().Err(err).Msg("Commit failed")
	}
	fmt.Println("ROOT:", c.RootHex)

	if _, err := zk.EnsureShotKeys(*keysDir); err != nil {
		log.Fatal().Err(err).Msg("Failed to prepare shot keys")
	}
	if err := saveJSON(*secretPath, &c.Secret); err != nil {
		log.Fatal().Err(err).Msg("Failed to write secret")
	}
	fmt.Println("✓ wrote", *secretPath)
}

func cmdShoot(cfg *config.Config) {
	fs := flag.NewFlagSet("shoot", flag.ExitOnError)
	secretPath := fs.String("secret", "secret.json", "defender secret state")
	keysDir := fs.String("keys", cfg.KeysDir, "keys directory")
	x := fs.Int("x", 0, "column [0..9]")
	y := fs.Int("y", 0, "row [0..9]")
	out := fs.String("out", "proof.json", "proof output")
	_ = fs.Parse(os.Args[2:])

	var sec codec.Secret
	if err := loadJSON(*secretPath, &sec); err != nil {
		log.Fatal().Err(err).Msg("Failed to read secret")
	}
	keys, err := zk.EnsureShotKeys(*keysDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load shot keys")
	}
	res, err := app.Shoot(keys, sec, game.Square{X: *x, Y: *y})
	if err != nil {
		log.Fatal().Err(err).Msg("Shot proof failed")
	}
	if err := saveJSON(*out, &res.Payload); err != nil {
		log.Fatal().Err(err).Msg("Failed to write proof")
	}
	fmt.Printf("✓ wrote %s (result: %s)\n", *out, res.Outcome)
}

func cmdVerify(cfg *config.Config) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	vkPath := fs.String("vk", cfg.KeysDir+"/shot.vk", "verifying key file")
	rootHex := fs.String("root", "", "root hex prefixed 0x")
	proofPath := fs.String("proof", "proof.json", "proof payload json")
	x := fs.Int("x", -1, "column [0..9]")
	y := fs.Int("y", -1, "row [0..9]")
	_ = fs.Parse(os.Args[2:])

	if *rootHex == "" {
		log.Fatal().Msg("--root required")
	}
	root, err := codec.ParseHex(*rootHex)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid root")
	}
	var payload codec.ShotProofPayload
	if err := loadJSON(*proofPath, &payload); err != nil {
		log.Fatal().Err(err).Msg("Failed to read proof")
	}
	vk, err := zk.ReadVerifyingKey(*vkPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read verifying key")
	}

	rules := game.StandardRules()
	res, err := app.VerifyWithRoot(vk, rules, root, payload)
	if err != nil {
		log.Fatal().Err(err).Msg("Verification failed")
	}
	want := game.Square{X: *x, Y: *y}
	if !rules.Contains(want) {
		log.Fatal().Err(game.ErrOutOfBounds).Msg("--x/--y required")
	}
	if res.Square != want {
		log.Fatal().Err(errors.New("square mismatch")).Msgf("Proof is for %v but expected %v", res.Square, want)
	}
	fmt.Println(res.Outcome)
}

func cmdServe(cfg *config.Config) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", cfg.Addr, "listen address")
	debug := engineFlags(fs, cfg)
	parseFlags(fs, debug)

	srv := server.New(func() *engine.Engine { return newEngine(cfg) }, logger.Get())
	log.Info().Str("addr", *addr).Msg("Serving")
	if err := http.ListenAndServe(*addr, srv.Handler()); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}

func saveJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func loadJSON(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(v)
}
