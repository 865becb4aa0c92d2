package engine

import (
	"github.com/salmaelgheity/Alpha-Beta-Chess/internal/board"
)

// Evaluator scores a position from the perspective of the side to move.
// Implementations must be safe for concurrent use.
type Evaluator interface {
	Evaluate(pos *board.Position) int
	Name() string
}

// Aggressive evaluation weights
const (
	aggressionThreshold  = 500 // Material lead needed before hunting the king
	kingProximityWeight  = 10  // Per square closer to the enemy king
	edgeDriveWeight      = 10  // Per square the enemy king is away from the centre
	queenProximityWeight = 5   // Per square a queen is closer to the enemy king
	mobilityWeight       = 2   // Per legal move of the side to move
	maxManhattan         = 14
)

// centre squares used for the edge-drive term
var centreSquares = [4]board.Square{board.D4, board.E4, board.D5, board.E5}

// materialBalance returns white-minus-black material. King values cancel.
func materialBalance(pos *board.Position) int {
	score := 0
	for _, piece := range pos.Board {
		if piece == board.NoPiece {
			continue
		}
		if piece.Color() == board.White {
			score += piece.Value()
		} else {
			score -= piece.Value()
		}
	}
	return score
}

// relative converts a white-perspective score to the side to move.
func relative(pos *board.Position, score int) int {
	if pos.SideToMove == board.Black {
		return -score
	}
	return score
}

// MaterialEvaluator counts material only.
type MaterialEvaluator struct{}

// Evaluate returns the material balance for the side to move.
func (MaterialEvaluator) Evaluate(pos *board.Position) int {
	return relative(pos, materialBalance(pos))
}

func (MaterialEvaluator) Name() string { return "material" }

// AggressiveEvaluator adds king-hunting terms for the side to move when it
// is clearly ahead, plus a mobility bonus.
type AggressiveEvaluator struct{}

// Evaluate returns the aggressive score for the side to move.
func (AggressiveEvaluator) Evaluate(pos *board.Position) int {
	us := pos.SideToMove
	them := us.Other()
	score := relative(pos, materialBalance(pos))

	if score > aggressionThreshold {
		score += huntBonus(pos, us, them)
	}

	score += mobilityWeight * len(pos.LegalMoves())
	return score
}

func (AggressiveEvaluator) Name() string { return "aggressive" }

// huntBonus rewards us for closing in on the enemy king and pushing it to
// the edge. Missing kings yield no bonus.
func huntBonus(pos *board.Position, us, them board.Color) int {
	ourKing, err := pos.KingSquare(us)
	if err != nil {
		return 0
	}
	theirKing, err := pos.KingSquare(them)
	if err != nil {
		return 0
	}

	bonus := kingProximityWeight * (maxManhattan - board.ManhattanDistance(ourKing, theirKing))
	bonus += edgeDriveWeight * centreDistance(theirKing)

	ourQueen := board.NewPiece(board.Queen, us)
	for sq := board.A8; sq < board.NoSquare; sq++ {
		if pos.Board[sq] == ourQueen {
			bonus += queenProximityWeight * (maxManhattan - board.ManhattanDistance(sq, theirKing))
		}
	}
	return bonus
}

// centreDistance returns the Manhattan distance to the nearest centre square.
func centreDistance(sq board.Square) int {
	best := maxManhattan
	for _, c := range centreSquares {
		if d := board.ManhattanDistance(sq, c); d < best {
			best = d
		}
	}
	return best
}

// PSTEvaluator adds piece-square tables to material.
type PSTEvaluator struct{}

// Evaluate returns material plus piece-square bonuses for the side to move.
func (PSTEvaluator) Evaluate(pos *board.Position) int {
	endgame := isEndgame(pos)
	score := 0
	for sq := board.A8; sq < board.NoSquare; sq++ {
		piece := pos.Board[sq]
		if piece == board.NoPiece {
			continue
		}

		// Tables are laid out from White's side; mirror rows for Black.
		pstSq := sq
		sign := 1
		if piece.Color() == board.Black {
			pstSq = mirror(sq)
			sign = -1
		}

		pt := piece.Type()
		value := piece.Value()
		if pt == board.King {
			if endgame {
				value += kingEndgamePST[pstSq]
			} else {
				value += kingMidgamePST[pstSq]
			}
		} else {
			value += psts[pt][pstSq]
		}
		score += sign * value
	}
	return relative(pos, score)
}

func (PSTEvaluator) Name() string { return "pst" }

// mirror flips a square vertically.
func mirror(sq board.Square) board.Square {
	return board.NewSquare(7-sq.Row(), sq.File())
}

// isEndgame returns true when no queens remain or only light material is left.
func isEndgame(pos *board.Position) bool {
	var queens, minors int
	for _, piece := range pos.Board {
		switch piece.Type() {
		case board.Queen:
			queens++
		case board.Knight, board.Bishop, board.Rook:
			minors++
		}
	}
	return queens == 0 || (queens <= 1 && minors <= 4)
}

// Piece-Square Tables (PST) for positional evaluation.
// Index 0 is a8 as seen by White; mirrored for Black.

// Pawn PST - encourages central control and advancement
var pawnPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	50, 50, 50, 50, 50, 50, 50, 50,
	10, 10, 20, 30, 30, 20, 10, 10,
	5, 5, 10, 25, 25, 10, 5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, -5, -10, 0, 0, -10, -5, 5,
	5, 10, 10, -20, -20, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

// Knight PST - encourages central positioning
var knightPST = [64]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

// Bishop PST - encourages central diagonals
var bishopPST = [64]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

// Rook PST - encourages 7th rank and open files
var rookPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, 10, 10, 10, 10, 5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	0, 0, 0, 5, 5, 0, 0, 0,
}

// Queen PST - slight central preference
var queenPST = [64]int{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-5, 0, 5, 5, 5, 5, 0, -5,
	0, 0, 5, 5, 5, 5, 0, -5,
	-10, 5, 5, 5, 5, 5, 0, -10,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

// King PST (middlegame) - encourages castling
var kingMidgamePST = [64]int{
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	20, 20, 0, 0, 0, 0, 20, 20,
	20, 30, 10, 0, 0, 10, 30, 20,
}

// King PST (endgame) - king should be active
var kingEndgamePST = [64]int{
	-50, -40, -30, -20, -20, -30, -40, -50,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-50, -30, -30, -30, -30, -30, -30, -50,
}

// Non-king PSTs indexed by piece type
var psts = [...][64]int{
	pawnPST, knightPST, bishopPST, rookPST, queenPST,
}

// EvaluatorByName returns the evaluator with the given name.
func EvaluatorByName(name string) (Evaluator, bool) {
	switch name {
	case "material":
		return MaterialEvaluator{}, true
	case "aggressive":
		return AggressiveEvaluator{}, true
	case "pst":
		return PSTEvaluator{}, true
	}
	return nil, false
}
