package board

import (
	"fmt"
	"strings"
)

// ToSAN converts a move to Standard Algebraic Notation.
// m must be legal in pos.
func (m Move) ToSAN(pos *Position) string {
	if m == NoMove {
		return "-"
	}

	from, to := m.From, m.To
	piece := pos.PieceAt(from)
	if piece == NoPiece {
		return m.String() // Fallback to canonical text
	}

	var sb strings.Builder

	if m.IsCastling(pos) {
		if to.File() > from.File() {
			sb.WriteString("O-O")
		} else {
			sb.WriteString("O-O-O")
		}
	} else {
		pt := piece.Type()
		if pt != Pawn {
			sb.WriteByte(pt.Letter())
			sb.WriteString(disambiguation(pos, m, pt))
		}

		if m.IsCapture(pos) {
			if pt == Pawn {
				// Pawn captures include the file of origin
				sb.WriteByte('a' + byte(from.File()))
			}
			sb.WriteByte('x')
		}

		sb.WriteString(to.String())

		if m.IsPromotion() {
			sb.WriteByte('=')
			sb.WriteByte(m.Promotion.Letter())
		}
	}

	next := pos.Clone()
	next.ApplyMove(m)
	if next.InCheck() {
		if next.HasLegalMoves() {
			sb.WriteByte('+')
		} else {
			sb.WriteByte('#')
		}
	}

	return sb.String()
}

// disambiguation returns the origin file, rank or square needed when another
// piece of the same type can reach the destination.
func disambiguation(pos *Position, m Move, pt PieceType) string {
	var candidates []Square
	for _, other := range pos.LegalMoves() {
		if other.To != m.To || other.From == m.From {
			continue
		}
		if pos.PieceAt(other.From).Type() == pt {
			candidates = append(candidates, other.From)
		}
	}
	if len(candidates) == 0 {
		return ""
	}

	sameFile, sameRank := false, false
	for _, sq := range candidates {
		if sq.File() == m.From.File() {
			sameFile = true
		}
		if sq.Rank() == m.From.Rank() {
			sameRank = true
		}
	}

	switch {
	case !sameFile:
		return string(rune('a' + m.From.File()))
	case !sameRank:
		return string(rune('0' + m.From.Rank()))
	default:
		return m.From.String()
	}
}

// ParseSAN finds the legal move in pos written as s in Standard Algebraic
// Notation. Check and annotation suffixes are ignored. Notation that matches
// more than one legal move is an error.
func ParseSAN(s string, pos *Position) (Move, error) {
	text := strings.TrimRight(strings.TrimSpace(s), "+#!?")

	switch text {
	case "O-O", "0-0", "O-O-O", "0-0-0":
		row := 7
		if pos.SideToMove == Black {
			row = 0
		}
		file := 6
		if len(text) == 5 {
			file = 2
		}
		m := NewMove(NewSquare(row, 4), NewSquare(row, file))
		if !ContainsMove(pos.LegalMoves(), m) || !m.IsCastling(pos) {
			return NoMove, fmt.Errorf("illegal castling: %s", s)
		}
		return m, nil
	}

	// Promotion suffix
	promo := NoPieceType
	if idx := strings.IndexByte(text, '='); idx >= 0 {
		if idx+1 >= len(text) {
			return NoMove, fmt.Errorf("invalid SAN: %s", s)
		}
		promo = PieceTypeFromLetter(text[idx+1])
		if promo == NoPieceType || promo == Pawn || promo == King {
			return NoMove, fmt.Errorf("invalid promotion piece in %s", s)
		}
		text = text[:idx]
	}

	isCapture := strings.Contains(text, "x")
	text = strings.ReplaceAll(text, "x", "")

	pt := Pawn
	if len(text) > 0 && text[0] >= 'A' && text[0] <= 'Z' {
		pt = PieceTypeFromLetter(text[0])
		if pt == NoPieceType || pt == Pawn {
			return NoMove, fmt.Errorf("invalid piece in %s", s)
		}
		text = text[1:]
	}

	if len(text) < 2 {
		return NoMove, fmt.Errorf("invalid SAN: %s", s)
	}
	dest, err := ParseSquare(text[len(text)-2:])
	if err != nil {
		return NoMove, err
	}

	// Disambiguation (file, rank, or both)
	file, rank := -1, -1
	for _, c := range text[:len(text)-2] {
		switch {
		case c >= 'a' && c <= 'h':
			file = int(c - 'a')
		case c >= '1' && c <= '8':
			rank = int(c - '0')
		default:
			return NoMove, fmt.Errorf("invalid SAN: %s", s)
		}
	}

	found := NoMove
	for _, m := range pos.LegalMoves() {
		if m.To != dest || m.Promotion != promo || m.IsCastling(pos) {
			continue
		}
		if pos.PieceAt(m.From).Type() != pt {
			continue
		}
		if file >= 0 && m.From.File() != file {
			continue
		}
		if rank >= 0 && m.From.Rank() != rank {
			continue
		}
		if isCapture && !m.IsCapture(pos) {
			continue
		}
		// Pawn pushes and captures are told apart by the capture marker.
		if pt == Pawn && !isCapture && m.IsCapture(pos) {
			continue
		}
		if found != NoMove {
			return NoMove, fmt.Errorf("ambiguous SAN: %s", s)
		}
		found = m
	}

	if found == NoMove {
		return NoMove, fmt.Errorf("no legal move matches %s", s)
	}
	return found, nil
}

// MovesToSAN converts a move sequence played from pos to SAN.
// pos is not modified.
func MovesToSAN(pos *Position, moves []Move) []string {
	result := make([]string, len(moves))
	p := pos.Clone()

	for i, m := range moves {
		result[i] = m.ToSAN(p)
		p.ApplyMove(m)
	}

	return result
}
