package match

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/salmaelgheity/Alpha-Beta-Chess/internal/board"
	"github.com/salmaelgheity/Alpha-Beta-Chess/internal/engine"
)

// blackSeedOffset separates the random streams of the two sides.
const blackSeedOffset = 1 << 32

// Recorder persists finished games and match summaries.
// Calls are serialized by RunMatch.
type Recorder interface {
	RecordGame(rec GameRecord) error
	RecordSummary(sum Summary) error
}

// Player describes how to build one side's agent.
type Player struct {
	Preset  engine.Preset
	Options engine.AgentOptions
}

// NewAgent builds a fresh agent. seed feeds the random source of
// PresetRandom and is ignored by searchers.
func (p Player) NewAgent(seed int64) (engine.Agent, error) {
	return engine.NewAgent(p.Preset, rand.New(rand.NewSource(seed)), p.Options)
}

// Config configures a match.
type Config struct {
	White          Player
	Black          Player
	Games          int
	MaxMoves       int   // Plies per game before adjudication (0 = DefaultMaxMoves)
	Parallel       int   // Games played concurrently (<= 1 = sequential)
	Seed           int64 // Game i seeds its random agents with Seed+i
	StartFEN       string
	StrictCastling bool

	Recorder Recorder // Optional
	Logger   zerolog.Logger

	// Callbacks
	OnGame func(GameRecord)
}

// RunMatch plays cfg.Games games and returns the aggregated summary.
// Recorder errors abort the match. A cancelled context stops unfinished
// games; the partial summary is returned with the context error.
func RunMatch(ctx context.Context, cfg Config) (Summary, error) {
	if cfg.Games <= 0 {
		return Summary{}, errors.New("match: number of games must be positive")
	}

	// Fail fast on bad presets before starting any game.
	if _, err := cfg.White.NewAgent(cfg.Seed); err != nil {
		return Summary{}, fmt.Errorf("white: %w", err)
	}
	if _, err := cfg.Black.NewAgent(cfg.Seed); err != nil {
		return Summary{}, fmt.Errorf("black: %w", err)
	}
	if _, err := StartPosition(cfg.StartFEN); err != nil {
		return Summary{}, err
	}

	parallel := cfg.Parallel
	if parallel < 1 {
		parallel = 1
	}

	started := time.Now()
	records := make([]GameRecord, cfg.Games)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	var mu sync.Mutex
	for i := 0; i < cfg.Games; i++ {
		i := i
		g.Go(func() error {
			seed := cfg.Seed + int64(i)
			white, err := cfg.White.NewAgent(seed)
			if err != nil {
				return fmt.Errorf("game %d white: %w", i, err)
			}
			black, err := cfg.Black.NewAgent(seed + blackSeedOffset)
			if err != nil {
				return fmt.Errorf("game %d black: %w", i, err)
			}

			logger := cfg.Logger.With().Int("game", i+1).Logger()
			rec := PlayGame(gctx, white, black, GameOptions{
				MaxMoves:       cfg.MaxMoves,
				StartFEN:       cfg.StartFEN,
				StrictCastling: cfg.StrictCastling,
				Logger:         logger,
			})
			rec.Index = i
			records[i] = rec

			logger.Info().
				Str("white", rec.White).
				Str("black", rec.Black).
				Str("result", rec.Result.String()).
				Str("reason", string(rec.Reason)).
				Int("moves", rec.Plies).
				Dur("duration", rec.Duration).
				Msg("game finished")

			mu.Lock()
			defer mu.Unlock()
			if cfg.Recorder != nil && rec.Result.IsDecided() {
				if err := cfg.Recorder.RecordGame(rec); err != nil {
					return fmt.Errorf("record game %d: %w", i, err)
				}
			}
			if cfg.OnGame != nil {
				cfg.OnGame(rec)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	sum := Summarize(records)
	sum.StartedAt = started
	sum.Elapsed = time.Since(started)
	sum.Seed = cfg.Seed

	cfg.Logger.Info().
		Str("white", sum.White).
		Str("black", sum.Black).
		Int("games", sum.Games).
		Int("white_wins", sum.WhiteWins).
		Int("black_wins", sum.BlackWins).
		Int("draws", sum.Draws).
		Int("aborted", sum.Aborted).
		Dur("elapsed", sum.Elapsed).
		Msg("match finished")

	if err := ctx.Err(); err != nil {
		return sum, err
	}

	if cfg.Recorder != nil {
		if err := cfg.Recorder.RecordSummary(sum); err != nil {
			return sum, fmt.Errorf("record summary: %w", err)
		}
	}

	return sum, nil
}

// Summary aggregates the results of a match.
type Summary struct {
	White string `json:"white"`
	Black string `json:"black"`
	Seed  int64  `json:"seed"`

	Games     int `json:"games"`
	WhiteWins int `json:"white_wins"`
	BlackWins int `json:"black_wins"`
	Draws     int `json:"draws"`
	Aborted   int `json:"aborted"`

	WhiteWinRate float64 `json:"white_win_rate"`
	BlackWinRate float64 `json:"black_win_rate"`
	DrawRate     float64 `json:"draw_rate"`

	AvgMoves    float64       `json:"avg_moves"`
	AvgDuration time.Duration `json:"avg_duration"`

	WhiteNodes uint64 `json:"white_nodes"`
	BlackNodes uint64 `json:"black_nodes"`

	Reasons map[EndReason]int `json:"reasons"`

	StartedAt time.Time     `json:"started_at"`
	Elapsed   time.Duration `json:"elapsed"`

	Records []GameRecord `json:"-"`
}

// Summarize aggregates game records. Aborted games count toward Games but
// not toward wins or draws.
func Summarize(records []GameRecord) Summary {
	sum := Summary{
		Games:   len(records),
		Reasons: make(map[EndReason]int),
		Records: records,
	}
	if len(records) == 0 {
		return sum
	}
	sum.White = records[0].White
	sum.Black = records[0].Black

	var totalPlies int
	var totalDuration time.Duration
	for _, rec := range records {
		switch rec.Result {
		case board.WhiteWins:
			sum.WhiteWins++
		case board.BlackWins:
			sum.BlackWins++
		case board.Draw:
			sum.Draws++
		default:
			sum.Aborted++
		}
		if rec.Reason != "" {
			sum.Reasons[rec.Reason]++
		}
		totalPlies += rec.Plies
		totalDuration += rec.Duration
		sum.WhiteNodes += rec.WhiteNodes
		sum.BlackNodes += rec.BlackNodes
	}

	n := float64(sum.Games)
	sum.WhiteWinRate = float64(sum.WhiteWins) / n
	sum.BlackWinRate = float64(sum.BlackWins) / n
	sum.DrawRate = float64(sum.Draws) / n
	sum.AvgMoves = float64(totalPlies) / n
	sum.AvgDuration = totalDuration / time.Duration(sum.Games)
	return sum
}

// Winner returns the side with the higher win rate and the margin.
// tied is true when both rates are equal.
func (s Summary) Winner() (name string, margin float64, tied bool) {
	switch {
	case s.WhiteWinRate > s.BlackWinRate:
		return s.White, s.WhiteWinRate - s.BlackWinRate, false
	case s.BlackWinRate > s.WhiteWinRate:
		return s.Black, s.BlackWinRate - s.WhiteWinRate, false
	default:
		return "", 0, true
	}
}
