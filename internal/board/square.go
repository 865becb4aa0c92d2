// Package board implements the chess position, move generation and
// game-result detection on an 8x8 mailbox board.
package board

import "fmt"

// Square represents a square on the chess board (0-63).
// Squares are laid out row by row starting from the eighth rank:
// A8=0, H8=7, A1=56, H1=63. Row 0 is Black's back rank.
type Square uint8

// Square constants for all 64 squares.
const (
	A8 Square = iota
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A1
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	NoSquare Square = 64
)

// NewSquare creates a square from a row (0 = eighth rank) and a file (0 = a).
func NewSquare(row, file int) Square {
	return Square(row*8 + file)
}

// Row returns the internal row of the square (0-7, where 0 is the eighth rank).
func (sq Square) Row() int {
	return int(sq) >> 3
}

// File returns the file (column) of the square (0-7, where 0=a, 7=h).
func (sq Square) File() int {
	return int(sq) & 7
}

// Rank returns the chess rank number of the square (1-8).
func (sq Square) Rank() int {
	return 8 - sq.Row()
}

// IsValid returns true if the square is a valid board square (0-63).
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.File(), '0'+sq.Rank())
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}

	file := int(s[0]) - 'a'
	rank := int(s[1]) - '0'

	if file < 0 || file > 7 || rank < 1 || rank > 8 {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}

	return NewSquare(8-rank, file), nil
}

// inBounds reports whether (row, file) lies on the board.
func inBounds(row, file int) bool {
	return row >= 0 && row < 8 && file >= 0 && file < 8
}

// ManhattanDistance returns |Δrow| + |Δfile| between two squares.
func ManhattanDistance(a, b Square) int {
	return abs(a.Row()-b.Row()) + abs(a.File()-b.File())
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
