// alphabeta-bench runs perft and single-position searches for profiling.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/salmaelgheity/Alpha-Beta-Chess/internal/board"
	"github.com/salmaelgheity/Alpha-Beta-Chess/internal/engine"
)

var (
	fen            = flag.String("fen", board.StartFEN, "position to analyse")
	perftDepth     = flag.Int("perft", 0, "run perft to this depth instead of searching")
	preset         = flag.String("preset", "standard", "search preset")
	depth          = flag.Int("depth", 0, "override search depth")
	timeLimit      = flag.Duration("time", 0, "override time limit")
	strictCastling = flag.Bool("strict-castling", false, "forbid castling out of, through or into check")
	cpuprofile     = flag.String("cpuprofile", "", "write cpu profile to file")
	verbose        = flag.Bool("v", false, "debug logging")
)

func main() {
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			logger.Fatal().Err(err).Msg("could not create CPU profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			logger.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer pprof.StopCPUProfile()
		logger.Info().Str("path", profilePath).Msg("CPU profiling enabled")
	}

	pos, err := board.ParseFEN(*fen)
	if err == nil {
		err = pos.Validate()
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid position")
	}
	pos.StrictCastling = *strictCastling
	fmt.Print(pos)

	if *perftDepth > 0 {
		runPerft(pos, *perftDepth)
		return
	}
	if err := runSearch(pos, logger); err != nil {
		// Fatal would skip the deferred profile flush.
		logger.Error().Err(err).Msg("search failed")
	}
}

func runPerft(pos *board.Position, depth int) {
	start := time.Now()
	divide := engine.Divide(pos, depth)

	moves := make([]board.Move, 0, len(divide))
	for m := range divide {
		moves = append(moves, m)
	}
	sort.Slice(moves, func(i, j int) bool { return moves[i].String() < moves[j].String() })

	var total uint64
	for _, m := range moves {
		fmt.Printf("%s: %d\n", m, divide[m])
		total += divide[m]
	}

	elapsed := time.Since(start)
	fmt.Printf("\nNodes searched: %s\n", humanize.Comma(int64(total)))
	fmt.Printf("Time: %s (%s)\n", elapsed.Round(time.Millisecond), nps(total, elapsed))
}

func runSearch(pos *board.Position, logger zerolog.Logger) error {
	p, err := engine.ParsePreset(*preset)
	if err != nil {
		return err
	}
	agent, err := engine.NewAgent(p, nil, engine.AgentOptions{
		Depth:     *depth,
		TimeLimit: *timeLimit,
		Logger:    &logger,
	})
	if err != nil {
		return err
	}
	searcher, ok := agent.(*engine.Searcher)
	if !ok {
		return fmt.Errorf("preset %s does not search", p)
	}

	start := time.Now()
	move, score := searcher.SearchRoot(pos)
	elapsed := time.Since(start)

	fmt.Printf("%s\n", searcher.Name())
	fmt.Printf("bestmove %s (%s) score %s\n", move, move.ToSAN(pos), engine.ScoreToString(score))
	fmt.Printf("Nodes: %s, time %s (%s)", humanize.Comma(int64(searcher.Nodes())),
		elapsed.Round(time.Millisecond), nps(searcher.Nodes(), elapsed))
	if searcher.TimedOut() {
		fmt.Print(", timed out")
	}
	fmt.Println()
	return nil
}

func nps(nodes uint64, elapsed time.Duration) string {
	if elapsed <= 0 {
		return "-"
	}
	return humanize.SIWithDigits(float64(nodes)/elapsed.Seconds(), 1, "nps")
}
