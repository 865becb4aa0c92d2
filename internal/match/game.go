// Package match plays games between agents, adjudicates unfinished games
// and aggregates match statistics.
package match

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/salmaelgheity/Alpha-Beta-Chess/internal/board"
	"github.com/salmaelgheity/Alpha-Beta-Chess/internal/engine"
)

// Game limits
const (
	DefaultMaxMoves    = 200 // Plies before adjudication
	AdjudicationMargin = 3   // Material lead (in pawns) needed to win on adjudication
)

// adjudicationValues are the classic 1/3/3/5/9 piece values used when a
// game hits the move limit.
var adjudicationValues = [7]int{1, 3, 3, 5, 9, 0, 0}

// EndReason describes how a game ended.
type EndReason string

const (
	EndNatural     EndReason = "natural_end"        // Checkmate or stalemate
	EndInvalidMove EndReason = "invalid_move"       // Mover returned no move or an illegal one
	EndMaterial    EndReason = "material_advantage" // Move limit reached, decided on material
	EndLongGame    EndReason = "long_game_draw"     // Move limit reached, material close
	EndAborted     EndReason = "aborted"            // Context cancelled
	EndBadStart    EndReason = "invalid_start"      // Start position rejected, nothing played
)

// GameOptions configures a single game.
type GameOptions struct {
	MaxMoves       int // Plies before adjudication (0 = DefaultMaxMoves)
	StartFEN       string
	StrictCastling bool // Forbid castling out of, through or into check
	Logger         zerolog.Logger
}

// GameRecord is the outcome of one game.
type GameRecord struct {
	Index       int              `json:"index"`
	White       string           `json:"white"`
	Black       string           `json:"black"`
	Result      board.GameResult `json:"result"`
	Reason      EndReason        `json:"reason"`
	Moves       []string         `json:"moves"`
	SAN         []string         `json:"san"`
	Plies       int              `json:"plies"`
	InvalidMove string           `json:"invalid_move,omitempty"`
	StartFEN    string           `json:"start_fen"`
	FinalFEN    string           `json:"final_fen"`
	Material    int              `json:"material"` // White minus black, 1/3/3/5/9 scale
	WhiteNodes  uint64           `json:"white_nodes"`
	BlackNodes  uint64           `json:"black_nodes"`
	StartedAt   time.Time        `json:"started_at"`
	Duration    time.Duration    `json:"duration"`
}

// nodeCounter is implemented by agents that report search effort.
type nodeCounter interface {
	Nodes() uint64
}

// PlayGame plays one game between white and black. It never returns an
// error: every failure mode is folded into the record's result.
func PlayGame(ctx context.Context, white, black engine.Agent, opts GameOptions) GameRecord {
	maxMoves := opts.MaxMoves
	if maxMoves <= 0 {
		maxMoves = DefaultMaxMoves
	}

	pos, err := StartPosition(opts.StartFEN)
	if err != nil {
		opts.Logger.Error().Err(err).Str("fen", opts.StartFEN).Msg("bad start position")
		return GameRecord{
			White:     white.Name(),
			Black:     black.Name(),
			Result:    board.Ongoing,
			Reason:    EndBadStart,
			StartFEN:  opts.StartFEN,
			FinalFEN:  opts.StartFEN,
			StartedAt: time.Now(),
		}
	}
	pos.StrictCastling = opts.StrictCastling

	rec := GameRecord{
		White:     white.Name(),
		Black:     black.Name(),
		Result:    board.Ongoing,
		StartFEN:  pos.ToFEN(),
		StartedAt: time.Now(),
	}
	finish := func(result board.GameResult, reason EndReason) GameRecord {
		rec.Result = result
		rec.Reason = reason
		rec.FinalFEN = pos.ToFEN()
		rec.Material = MaterialBalance(pos)
		rec.Duration = time.Since(rec.StartedAt)
		return rec
	}

	for rec.Plies < maxMoves {
		if ctx.Err() != nil {
			return finish(board.Ongoing, EndAborted)
		}

		if result := pos.Result(); result.IsDecided() {
			return finish(result, EndNatural)
		}

		mover := pos.SideToMove
		agent := white
		if mover == board.Black {
			agent = black
		}

		// Agents see a copy so a misbehaving agent cannot corrupt the game.
		move := agent.ChooseMove(pos.Clone())
		if nc, ok := agent.(nodeCounter); ok {
			if mover == board.White {
				rec.WhiteNodes += nc.Nodes()
			} else {
				rec.BlackNodes += nc.Nodes()
			}
		}

		before := pos.Clone()
		if move == board.NoMove || !pos.ApplyIfLegal(move) {
			rec.InvalidMove = move.String()
			opts.Logger.Warn().
				Str("agent", agent.Name()).
				Str("move", rec.InvalidMove).
				Int("ply", rec.Plies).
				Msg("invalid move")
			return finish(board.WinFor(mover.Other()), EndInvalidMove)
		}

		rec.Moves = append(rec.Moves, move.String())
		rec.SAN = append(rec.SAN, move.ToSAN(before))
		rec.Plies++

		if rec.Plies%10 == 0 {
			opts.Logger.Debug().
				Int("ply", rec.Plies).
				Str("agent", agent.Name()).
				Str("move", move.String()).
				Msg("move played")
		}
	}

	// A mate or stalemate on the last allowed ply still counts.
	if result := pos.Result(); result.IsDecided() {
		return finish(result, EndNatural)
	}

	result, reason := Adjudicate(pos)
	return finish(result, reason)
}

// StartPosition parses and validates a start position. An empty fen is
// the initial position.
func StartPosition(fen string) (*board.Position, error) {
	if fen == "" {
		return board.NewPosition(), nil
	}
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return nil, fmt.Errorf("start position: %w", err)
	}
	if err := pos.Validate(); err != nil {
		return nil, fmt.Errorf("start position: %w", err)
	}
	return pos, nil
}

// Adjudicate decides an unfinished game on material: a lead of more than
// AdjudicationMargin wins, anything else is a draw.
func Adjudicate(pos *board.Position) (board.GameResult, EndReason) {
	balance := MaterialBalance(pos)
	switch {
	case balance > AdjudicationMargin:
		return board.WhiteWins, EndMaterial
	case balance < -AdjudicationMargin:
		return board.BlackWins, EndMaterial
	default:
		return board.Draw, EndLongGame
	}
}

// MaterialBalance returns white-minus-black material on the 1/3/3/5/9 scale.
func MaterialBalance(pos *board.Position) int {
	balance := 0
	for _, piece := range pos.Board {
		if piece == board.NoPiece {
			continue
		}
		v := adjudicationValues[piece.Type()]
		if piece.Color() == board.White {
			balance += v
		} else {
			balance -= v
		}
	}
	return balance
}
