package board

import (
	"fmt"
	"strings"
)

// Move is a (from, to, promotion) triple. Promotion is NoPieceType for
// non-promoting moves. A Move is a plain value and is only meaningful
// relative to a Position.
type Move struct {
	From      Square
	To        Square
	Promotion PieceType
}

// NoMove represents an invalid or null move.
var NoMove = Move{From: NoSquare, To: NoSquare, Promotion: NoPieceType}

// NewMove creates a non-promoting move.
func NewMove(from, to Square) Move {
	return Move{From: from, To: to, Promotion: NoPieceType}
}

// NewPromotion creates a promotion move.
func NewPromotion(from, to Square, promo PieceType) Move {
	return Move{From: from, To: to, Promotion: promo}
}

// IsPromotion returns true if this is a promotion move.
func (m Move) IsPromotion() bool {
	return m.Promotion != NoPieceType
}

// IsCapture returns true if this move captures a piece in pos,
// counting en passant captures.
func (m Move) IsCapture(pos *Position) bool {
	if pos.PieceAt(m.To) != NoPiece {
		return true
	}
	return m.IsEnPassant(pos)
}

// IsEnPassant returns true if this move is an en passant capture in pos.
func (m Move) IsEnPassant(pos *Position) bool {
	return m.To == pos.EnPassant &&
		pos.PieceAt(m.From).Type() == Pawn &&
		pos.PieceAt(m.To) == NoPiece
}

// IsCastling returns true if this move is a castling king move in pos.
func (m Move) IsCastling(pos *Position) bool {
	return pos.PieceAt(m.From).Type() == King && abs(m.To.File()-m.From.File()) == 2
}

// String returns the canonical text form, e.g. "e2e4" or "e7e8=Q".
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}

	s := m.From.String() + m.To.String()
	if m.IsPromotion() {
		s += "=" + string(m.Promotion.Letter())
	}
	return s
}

// ParseMove parses the canonical text form produced by Move.String.
// A trailing lowercase promotion letter without '=' is also accepted.
func ParseMove(s string) (Move, error) {
	if len(s) < 4 {
		return NoMove, fmt.Errorf("invalid move string: %s", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}

	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	rest := strings.TrimPrefix(s[4:], "=")
	switch len(rest) {
	case 0:
		return NewMove(from, to), nil
	case 1:
		promo := PieceTypeFromLetter(rest[0])
		if promo == NoPieceType || promo == Pawn || promo == King {
			return NoMove, fmt.Errorf("invalid promotion piece: %c", rest[0])
		}
		return NewPromotion(from, to, promo), nil
	default:
		return NoMove, fmt.Errorf("invalid move string: %s", s)
	}
}

// MovesToStrings renders a move sequence in canonical text form.
func MovesToStrings(moves []Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	return out
}

// ContainsMove reports whether moves contains m.
func ContainsMove(moves []Move, m Move) bool {
	for _, mv := range moves {
		if mv == m {
			return true
		}
	}
	return false
}
