// Package engine implements move selection: position evaluators, move
// ordering and a fixed-depth, time-bounded alpha-beta search.
package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/salmaelgheity/Alpha-Beta-Chess/internal/board"
)

// ErrUnknownPreset is returned for agent names that match no preset.
var ErrUnknownPreset = errors.New("unknown preset")

// Agent chooses moves for the side to move.
// ChooseMove returns NoMove when there is no legal move and must not
// modify pos.
type Agent interface {
	ChooseMove(pos *board.Position) board.Move
	Name() string
}

// Config specifies a searcher.
type Config struct {
	Depth        int           // Plies to search
	TimeLimit    time.Duration // Wall-clock budget per move (0 = no limit)
	MoveOrdering bool          // Search captures, promotions and checks first
	Evaluator    Evaluator     // Leaf scoring (nil = material)
}

// Preset names a predefined agent.
type Preset string

const (
	PresetRandom     Preset = "random"
	PresetSimple     Preset = "simple"
	PresetStandard   Preset = "standard"
	PresetAggressive Preset = "aggressive"
	PresetPST        Preset = "pst"
)

// Presets maps preset names to searcher configurations.
// PresetRandom has no entry: it does not search.
var Presets = map[Preset]Config{
	PresetSimple:     {Depth: 3, TimeLimit: 2 * time.Second, MoveOrdering: false, Evaluator: MaterialEvaluator{}},
	PresetStandard:   {Depth: 3, TimeLimit: 2 * time.Second, MoveOrdering: true, Evaluator: MaterialEvaluator{}},
	PresetAggressive: {Depth: 4, TimeLimit: 3 * time.Second, MoveOrdering: true, Evaluator: AggressiveEvaluator{}},
	PresetPST:        {Depth: 3, TimeLimit: 2 * time.Second, MoveOrdering: true, Evaluator: PSTEvaluator{}},
}

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Easy   Difficulty = iota // No ordering, material only
	Medium                   // Ordered search, material only
	Hard                     // Deeper ordered search, king hunting
)

// DifficultySettings maps difficulty to presets.
var DifficultySettings = map[Difficulty]Preset{
	Easy:   PresetSimple,
	Medium: PresetStandard,
	Hard:   PresetAggressive,
}

// String returns the difficulty name.
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return "unknown"
	}
}

// ParsePreset resolves a preset or difficulty name, case-insensitively.
func ParsePreset(name string) (Preset, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	for d, p := range DifficultySettings {
		if d.String() == name {
			return p, nil
		}
	}

	p := Preset(name)
	if p == PresetRandom {
		return p, nil
	}
	if _, ok := Presets[p]; ok {
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

// AgentOptions override preset settings when non-zero.
type AgentOptions struct {
	Depth     int
	TimeLimit time.Duration
	Logger    *zerolog.Logger
}

// NewAgent builds a fresh agent for preset p. rng is only used by
// PresetRandom and must not be shared between goroutines.
func NewAgent(p Preset, rng *rand.Rand, opts AgentOptions) (Agent, error) {
	if p == PresetRandom {
		if rng == nil {
			return nil, errors.New("random agent requires a random source")
		}
		return NewRandomAgent(rng), nil
	}

	cfg, ok := Presets[p]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, p)
	}
	if opts.Depth > 0 {
		cfg.Depth = opts.Depth
	}
	if opts.TimeLimit > 0 {
		cfg.TimeLimit = opts.TimeLimit
	}

	s := NewSearcher(cfg)
	s.SetName(fmt.Sprintf("%s(depth=%d)", p, cfg.Depth))
	if opts.Logger != nil {
		s.SetLogger(*opts.Logger)
	}
	return s, nil
}

// RandomAgent picks a uniformly random legal move.
type RandomAgent struct {
	rng *rand.Rand
}

// NewRandomAgent creates a random agent drawing from rng.
func NewRandomAgent(rng *rand.Rand) *RandomAgent {
	return &RandomAgent{rng: rng}
}

// ChooseMove returns a random legal move, or NoMove if there is none.
func (a *RandomAgent) ChooseMove(pos *board.Position) board.Move {
	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return board.NoMove
	}
	return moves[a.rng.Intn(len(moves))]
}

// Name returns the agent name.
func (a *RandomAgent) Name() string {
	return string(PresetRandom)
}

// Perft performs a perft test (for debugging move generation).
func Perft(pos *board.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := pos.LegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}

	var nodes uint64
	for _, move := range moves {
		child := pos.Clone()
		child.ApplyMove(move)
		nodes += Perft(child, depth-1)
	}

	return nodes
}

// Divide returns the perft count below each root move.
func Divide(pos *board.Position, depth int) map[board.Move]uint64 {
	out := make(map[board.Move]uint64)
	if depth < 1 {
		return out
	}
	for _, move := range pos.LegalMoves() {
		child := pos.Clone()
		child.ApplyMove(move)
		out[move] = Perft(child, depth-1)
	}
	return out
}
