package engine

import (
	"sort"

	"github.com/salmaelgheity/Alpha-Beta-Chess/internal/board"
)

// Move ordering priorities
const (
	CaptureMultiplier = 10    // Victim value times this
	PromotionBonus    = 800   // Any promotion
	CheckBonus        = 100   // Move gives check
	MateBonus         = 50000 // Move mates immediately
)

// ScoreMove returns the ordering score of m in pos. Higher scores are
// searched first. En passant counts as a pawn capture.
func ScoreMove(pos *board.Position, m board.Move) int {
	score := 0

	if victim := pos.PieceAt(m.To); victim != board.NoPiece {
		score += victim.Value() * CaptureMultiplier
	} else if m.IsEnPassant(pos) {
		score += board.PieceValue[board.Pawn] * CaptureMultiplier
	}

	if m.IsPromotion() {
		score += PromotionBonus
	}

	child := pos.Clone()
	child.ApplyMove(m)
	if child.InCheck() {
		score += CheckBonus
		if !child.HasLegalMoves() {
			score += MateBonus
		}
	}

	return score
}

type scoredMove struct {
	move  board.Move
	score int
}

// OrderMoves sorts moves in place by descending ScoreMove. The sort is
// stable, so equal scores keep generation order.
func OrderMoves(pos *board.Position, moves []board.Move) {
	scored := make([]scoredMove, len(moves))
	for i, m := range moves {
		scored[i] = scoredMove{move: m, score: ScoreMove(pos, m)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	for i := range scored {
		moves[i] = scored[i].move
	}
}
