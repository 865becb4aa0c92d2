package board

// offset is a (row, file) step on the board.
type offset struct {
	dRow, dFile int
}

var knightOffsets = [8]offset{
	{2, 1}, {1, 2}, {-1, 2}, {-2, 1},
	{-2, -1}, {-1, -2}, {1, -2}, {2, -1},
}

var kingOffsets = [8]offset{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

var bishopDirections = []offset{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}

var rookDirections = []offset{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

var queenDirections = []offset{
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
}

// pawnForward returns the row step of a pawn of the given color.
// White moves toward row 0 (the eighth rank).
func pawnForward(c Color) int {
	if c == White {
		return -1
	}
	return 1
}

// pawnStartRow returns the row pawns of the given color start on.
func pawnStartRow(c Color) int {
	if c == White {
		return 6
	}
	return 1
}

// promotionRow returns the row on which pawns of the given color promote.
func promotionRow(c Color) int {
	if c == White {
		return 0
	}
	return 7
}

// SquareAttacked returns true if any piece of byColor has a pseudo-legal
// attacking move landing on sq. Brute force: every piece of byColor is
// expanded in attacks-only mode and destinations are compared.
func (p *Position) SquareAttacked(sq Square, byColor Color) bool {
	moves := make([]Move, 0, 32)
	for from := A8; from < NoSquare; from++ {
		piece := p.Board[from]
		if piece == NoPiece || piece.Color() != byColor {
			continue
		}
		moves = p.pieceMoves(moves[:0], from, piece, true)
		for _, m := range moves {
			if m.To == sq {
				return true
			}
		}
	}
	return false
}

// IsInCheck returns true if the king of color c is attacked.
// It panics with ErrKingMissing if there is no such king.
func (p *Position) IsInCheck(c Color) bool {
	return p.SquareAttacked(p.mustKingSquare(c), c.Other())
}

// InCheck returns true if the side to move is in check.
func (p *Position) InCheck() bool {
	return p.IsInCheck(p.SideToMove)
}

// Attackers returns the squares of byColor's pieces attacking sq.
func (p *Position) Attackers(sq Square, byColor Color) []Square {
	var attackers []Square
	moves := make([]Move, 0, 32)
	for from := A8; from < NoSquare; from++ {
		piece := p.Board[from]
		if piece == NoPiece || piece.Color() != byColor {
			continue
		}
		moves = p.pieceMoves(moves[:0], from, piece, true)
		for _, m := range moves {
			if m.To == sq {
				attackers = append(attackers, from)
				break
			}
		}
	}
	return attackers
}
