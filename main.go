// Alpha-Beta Chess - plays matches between chess agents
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/salmaelgheity/Alpha-Beta-Chess/internal/board"
	"github.com/salmaelgheity/Alpha-Beta-Chess/internal/engine"
	"github.com/salmaelgheity/Alpha-Beta-Chess/internal/match"
	"github.com/salmaelgheity/Alpha-Beta-Chess/internal/render"
	"github.com/salmaelgheity/Alpha-Beta-Chess/internal/storage"
)

var (
	white          = flag.String("white", "aggressive", "white agent preset (random|simple|standard|aggressive|pst|easy|medium|hard)")
	black          = flag.String("black", "random", "black agent preset")
	games          = flag.Int("games", 10, "number of games")
	maxMoves       = flag.Int("max-moves", match.DefaultMaxMoves, "plies per game before adjudication")
	parallel       = flag.Int("parallel", 1, "games played concurrently")
	seed           = flag.Int64("seed", 0, "random seed (0 = time based)")
	depth          = flag.Int("depth", 0, "override search depth of both agents")
	timeLimit      = flag.Duration("time", 0, "override per-move time limit of both agents")
	fen            = flag.String("fen", "", "start position (default: standard start)")
	dbDir          = flag.String("db", "default", `badger directory ("" disables storage)`)
	svgPath        = flag.String("svg", "", "write the final position of the last game as SVG")
	strictCastling = flag.Bool("strict-castling", false, "forbid castling out of, through or into check")
	stats          = flag.Bool("stats", false, "print stored agent statistics and exit")
	verbose        = flag.Bool("v", false, "debug logging")
)

func main() {
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()

	if err := run(logger); err != nil {
		logger.Error().Err(err).Msg("match failed")
		os.Exit(1)
	}
}

func run(logger zerolog.Logger) error {
	store, err := openStorage(logger)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	if *stats {
		if store == nil {
			return errors.New("-stats needs storage")
		}
		return printStats(store)
	}

	prefs := storage.DefaultPreferences()
	if store != nil {
		if prefs, err = store.LoadPreferences(); err != nil {
			return fmt.Errorf("load preferences: %w", err)
		}
	}
	applyFlags(prefs)

	whitePreset, err := engine.ParsePreset(prefs.White)
	if err != nil {
		return fmt.Errorf("white: %w", err)
	}
	blackPreset, err := engine.ParsePreset(prefs.Black)
	if err != nil {
		return fmt.Errorf("black: %w", err)
	}

	matchSeed := *seed
	if matchSeed == 0 {
		matchSeed = time.Now().UnixNano()
	}

	searchLogger := logger.With().Str("component", "search").Logger()
	opts := engine.AgentOptions{
		Depth:     prefs.Depth,
		TimeLimit: prefs.TimeLimit,
		Logger:    &searchLogger,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var last match.GameRecord
	cfg := match.Config{
		White:          match.Player{Preset: whitePreset, Options: opts},
		Black:          match.Player{Preset: blackPreset, Options: opts},
		Games:          prefs.Games,
		MaxMoves:       prefs.MaxMoves,
		Parallel:       prefs.Parallel,
		Seed:           matchSeed,
		StartFEN:       *fen,
		StrictCastling: prefs.StrictCastling,
		Logger:         logger,
		OnGame: func(rec match.GameRecord) {
			fmt.Println(match.GameLine(rec))
			if rec.Index >= last.Index {
				last = rec
			}
		},
	}
	if store != nil {
		cfg.Recorder = store
		if err := store.SavePreferences(prefs); err != nil {
			return fmt.Errorf("save preferences: %w", err)
		}
	}

	logger.Info().
		Str("white", string(whitePreset)).
		Str("black", string(blackPreset)).
		Int("games", prefs.Games).
		Int64("seed", matchSeed).
		Msg("starting match")

	sum, err := match.RunMatch(ctx, cfg)
	if sum.Games > 0 {
		fmt.Println()
		fmt.Print(sum.Report())
	}
	if err != nil {
		return err
	}

	if *svgPath != "" && last.FinalFEN != "" {
		if err := writeSVG(*svgPath, last); err != nil {
			return fmt.Errorf("write svg: %w", err)
		}
		logger.Info().Str("path", *svgPath).Msg("final position written")
	}
	return nil
}

// openStorage opens the database selected by -db, or returns nil when
// storage is disabled.
func openStorage(logger zerolog.Logger) (*storage.Storage, error) {
	var (
		store *storage.Storage
		err   error
	)
	switch *dbDir {
	case "":
		return nil, nil
	case "default":
		store, err = storage.NewStorage()
	default:
		store, err = storage.Open(*dbDir)
	}
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	first, err := store.IsFirstLaunch()
	if err != nil {
		store.Close()
		return nil, err
	}
	if first {
		logger.Info().Msg("new database, results will be kept across runs")
		if err := store.MarkFirstLaunchComplete(); err != nil {
			store.Close()
			return nil, err
		}
	}
	return store, nil
}

// applyFlags overrides stored preferences with flags set on the command line.
func applyFlags(prefs *storage.Preferences) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "white":
			prefs.White = *white
		case "black":
			prefs.Black = *black
		case "games":
			prefs.Games = *games
		case "max-moves":
			prefs.MaxMoves = *maxMoves
		case "parallel":
			prefs.Parallel = *parallel
		case "depth":
			prefs.Depth = *depth
		case "time":
			prefs.TimeLimit = *timeLimit
		case "strict-castling":
			prefs.StrictCastling = *strictCastling
		}
	})
}

func writeSVG(path string, rec match.GameRecord) error {
	pos, err := board.ParseFEN(rec.FinalFEN)
	if err != nil {
		return err
	}

	var opts []render.Option
	if n := len(rec.Moves); n > 0 {
		if m, err := board.ParseMove(rec.Moves[n-1]); err == nil {
			opts = append(opts, render.LastMove(m))
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render.SVG(f, pos, opts...); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printStats(store *storage.Storage) error {
	all, err := store.ListStats()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Println("No games recorded yet")
		return nil
	}

	fmt.Printf("%-24s %6s %5s %6s %5s %7s\n", "Agent", "Games", "Wins", "Losses", "Draws", "Win %")
	fmt.Println(strings.Repeat("-", 58))
	for _, s := range all {
		fmt.Printf("%-24s %6d %5d %6d %5d %6.1f%%\n",
			s.Name, s.GamesPlayed, s.Wins, s.Losses, s.Draws, s.GetWinRate())
	}

	sums, err := store.ListSummaries()
	if err != nil {
		return err
	}
	fmt.Printf("\n%d matches stored\n", len(sums))
	return nil
}
