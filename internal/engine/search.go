package engine

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/salmaelgheity/Alpha-Beta-Chess/internal/board"
)

// Search constants
const (
	Infinity  = 30000
	MateScore = 10000
)

// Searcher performs a fixed-depth, time-bounded alpha-beta search.
// A Searcher is not safe for concurrent searches; Stop may be called from
// any goroutine.
type Searcher struct {
	cfg  Config
	name string

	maxDepth int
	deadline time.Time
	nodes    uint64
	timedOut bool
	stopFlag atomic.Bool

	logger zerolog.Logger
}

// NewSearcher creates a searcher for cfg. A zero Depth searches one ply
// and a nil Evaluator counts material.
func NewSearcher(cfg Config) *Searcher {
	if cfg.Depth < 1 {
		cfg.Depth = 1
	}
	if cfg.Evaluator == nil {
		cfg.Evaluator = MaterialEvaluator{}
	}
	return &Searcher{
		cfg:    cfg,
		name:   "alphabeta",
		logger: zerolog.Nop(),
	}
}

// SetLogger sets the logger used for per-move search reports.
func (s *Searcher) SetLogger(logger zerolog.Logger) {
	s.logger = logger
}

// SetName sets the name reported by Name.
func (s *Searcher) SetName(name string) {
	s.name = name
}

// Name returns the agent name.
func (s *Searcher) Name() string {
	return s.name
}

// Config returns the search configuration.
func (s *Searcher) Config() Config {
	return s.cfg
}

// Stop signals the running search to stop. The best move found so far is
// returned. A Stop that arrives while no search is running stops the next
// search as soon as it starts.
func (s *Searcher) Stop() {
	s.stopFlag.Store(true)
}

// Nodes returns the number of nodes visited by the last search.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// TimedOut returns true if the last search hit its deadline or was stopped.
func (s *Searcher) TimedOut() bool {
	return s.timedOut
}

// reset prepares the searcher for a new search.
func (s *Searcher) reset(start time.Time) {
	s.nodes = 0
	s.timedOut = false
	s.maxDepth = s.cfg.Depth
	s.deadline = time.Time{}
	if s.cfg.TimeLimit > 0 {
		s.deadline = start.Add(s.cfg.TimeLimit)
	}
}

// shouldStop polls the deadline and the stop flag.
func (s *Searcher) shouldStop() bool {
	if s.stopFlag.Load() {
		return true
	}
	return !s.deadline.IsZero() && time.Now().After(s.deadline)
}

// ChooseMove returns the best move for the side to move, or NoMove if there
// is no legal move. pos is never modified.
func (s *Searcher) ChooseMove(pos *board.Position) board.Move {
	move, _ := s.SearchRoot(pos)
	return move
}

// SearchRoot searches pos and returns the best move with its score from the
// side to move's perspective. A forced single reply is returned without
// searching and scores 0.
func (s *Searcher) SearchRoot(pos *board.Position) (board.Move, int) {
	start := time.Now()
	s.reset(start)
	defer s.stopFlag.Store(false)

	moves := pos.LegalMoves()
	switch len(moves) {
	case 0:
		if pos.InCheck() {
			return board.NoMove, -MateScore
		}
		return board.NoMove, 0
	case 1:
		return moves[0], 0
	}

	s.orderMoves(pos, moves)

	bestMove := moves[0]
	bestScore := -Infinity
	alpha, beta := -Infinity, Infinity
	completed := 0

	for _, m := range moves {
		child := pos.Clone()
		child.ApplyMove(m)
		score := -s.search(child, s.maxDepth-1, -beta, -alpha)

		// A child cut short by the deadline returns an unreliable score.
		if s.timedOut {
			break
		}
		completed++

		if score > bestScore {
			bestScore = score
			bestMove = m
		}
		if score > alpha {
			alpha = score
		}
	}

	if completed == 0 {
		bestScore = 0
	}

	s.logger.Debug().
		Str("agent", s.name).
		Int("depth", s.maxDepth).
		Uint64("nodes", s.nodes).
		Int("score", bestScore).
		Str("move", bestMove.String()).
		Int("completed", completed).
		Int("root_moves", len(moves)).
		Dur("elapsed", time.Since(start)).
		Bool("timed_out", s.timedOut).
		Msg("search finished")

	return bestMove, bestScore
}

// search is the negamax alpha-beta recursion. The returned score is from
// the side to move's perspective. Timeouts return 0 and set timedOut.
func (s *Searcher) search(pos *board.Position, depth, alpha, beta int) int {
	s.nodes++
	if s.timedOut || s.shouldStop() {
		s.timedOut = true
		return 0
	}

	moves := pos.LegalMoves()
	if len(moves) == 0 {
		if pos.InCheck() {
			// Prefer faster mates
			return -(MateScore - s.ply(depth))
		}
		return 0
	}

	if depth <= 0 {
		return s.cfg.Evaluator.Evaluate(pos)
	}

	s.orderMoves(pos, moves)

	bestScore := -Infinity
	for _, m := range moves {
		child := pos.Clone()
		child.ApplyMove(m)
		score := -s.search(child, depth-1, -beta, -alpha)

		if score > bestScore {
			bestScore = score
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			break
		}
	}

	return bestScore
}

// ply returns the distance from the root for a node at depth.
func (s *Searcher) ply(depth int) int {
	return s.maxDepth - depth
}

func (s *Searcher) orderMoves(pos *board.Position, moves []board.Move) {
	if s.cfg.MoveOrdering {
		OrderMoves(pos, moves)
	}
}

// Minimax returns the unpruned negamax score of pos searched to depth with
// the same leaf and mate conventions as the alpha-beta search. It ignores
// the time limit.
func (s *Searcher) Minimax(pos *board.Position, depth int) int {
	s.maxDepth = depth
	return s.minimax(pos, depth)
}

func (s *Searcher) minimax(pos *board.Position, depth int) int {
	moves := pos.LegalMoves()
	if len(moves) == 0 {
		if pos.InCheck() {
			return -(MateScore - s.ply(depth))
		}
		return 0
	}

	if depth <= 0 {
		return s.cfg.Evaluator.Evaluate(pos)
	}

	bestScore := -Infinity
	for _, m := range moves {
		child := pos.Clone()
		child.ApplyMove(m)
		if score := -s.minimax(child, depth-1); score > bestScore {
			bestScore = score
		}
	}
	return bestScore
}

// ScoreToString converts a score to a human-readable string.
func ScoreToString(score int) string {
	if score > MateScore-100 {
		return fmt.Sprintf("Mate in %d", (MateScore-score+1)/2)
	}
	if score < -MateScore+100 {
		return fmt.Sprintf("Mated in %d", (MateScore+score+1)/2)
	}

	// Convert centipawns to pawns
	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	return fmt.Sprintf("%s%d.%02d", sign, score/100, score%100)
}
