package board

import (
	"errors"
	"fmt"
	"strings"
)

// ErrKingMissing is returned when a position has no king of the requested
// color. It signals a broken invariant, never a recoverable game state.
var ErrKingMissing = errors.New("king missing")

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// CanCastle returns true if the given side can castle in the given direction.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	if c == White {
		if kingSide {
			return cr&WhiteKingSideCastle != 0
		}
		return cr&WhiteQueenSideCastle != 0
	}
	if kingSide {
		return cr&BlackKingSideCastle != 0
	}
	return cr&BlackQueenSideCastle != 0
}

// Position represents a complete chess position.
// It holds only fixed-size values, so a plain assignment is a deep copy.
type Position struct {
	// Board holds the piece on every square, NoPiece when empty.
	Board [64]Piece

	// Game state
	SideToMove     Color
	CastlingRights CastlingRights
	EnPassant      Square // Target square for en passant, NoSquare if none
	HalfMoveClock  int    // Moves since last pawn move or capture (tracked, not used for draws)
	FullMoveNumber int    // Full move counter, starts at 1

	// StrictCastling additionally forbids castling out of, through or into
	// an attacked square. Off by default.
	StrictCastling bool
}

// NewPosition creates the starting position.
func NewPosition() *Position {
	pos, _ := ParseFEN(StartFEN)
	return pos
}

// NewEmptyPosition returns a board with no pieces, White to move.
func NewEmptyPosition() *Position {
	p := &Position{}
	p.Clear()
	return p
}

// Clone creates a deep copy of the position.
func (p *Position) Clone() *Position {
	newPos := *p
	return &newPos
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (p *Position) PieceAt(sq Square) Piece {
	if sq >= NoSquare {
		return NoPiece
	}
	return p.Board[sq]
}

// IsEmpty returns true if the square is empty.
func (p *Position) IsEmpty(sq Square) bool {
	return p.Board[sq] == NoPiece
}

// SetPiece places a piece on a square, replacing whatever was there.
func (p *Position) SetPiece(piece Piece, sq Square) {
	p.Board[sq] = piece
}

// KingSquare returns the square of the king of the given color.
func (p *Position) KingSquare(c Color) (Square, error) {
	king := NewPiece(King, c)
	for sq := A8; sq < NoSquare; sq++ {
		if p.Board[sq] == king {
			return sq, nil
		}
	}
	return NoSquare, fmt.Errorf("%w: %s", ErrKingMissing, c)
}

// mustKingSquare is KingSquare for callers that rely on the one-king invariant.
func (p *Position) mustKingSquare(c Color) Square {
	sq, err := p.KingSquare(c)
	if err != nil {
		panic(err)
	}
	return sq
}

// Clear resets the position to an empty board.
func (p *Position) Clear() {
	*p = Position{
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
	}
	for sq := range p.Board {
		p.Board[sq] = NoPiece
	}
}

// Validate checks if the position is valid.
func (p *Position) Validate() error {
	var kings [2]int
	for sq := A8; sq < NoSquare; sq++ {
		piece := p.Board[sq]
		if piece.Type() == King {
			kings[piece.Color()]++
		}
		if piece.Type() == Pawn && (sq.Row() == 0 || sq.Row() == 7) {
			return fmt.Errorf("pawn on back rank at %s", sq)
		}
	}

	// Check that each side has exactly one king
	if kings[White] != 1 {
		return fmt.Errorf("white must have exactly one king")
	}
	if kings[Black] != 1 {
		return fmt.Errorf("black must have exactly one king")
	}

	// The side that just moved cannot be in check
	if p.IsInCheck(p.SideToMove.Other()) {
		return fmt.Errorf("%s to move but %s is in check", p.SideToMove, p.SideToMove.Other())
	}

	return nil
}

// Material returns the material balance without kings (positive favors white).
func (p *Position) Material() int {
	score := 0
	for _, piece := range p.Board {
		if piece == NoPiece || piece.Type() == King {
			continue
		}
		if piece.Color() == White {
			score += piece.Value()
		} else {
			score -= piece.Value()
		}
	}
	return score
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for row := 0; row < 8; row++ {
		fmt.Fprintf(&sb, "%d  ", 8-row)
		for file := 0; file < 8; file++ {
			piece := p.Board[NewSquare(row, file)]
			if piece == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(piece.String() + " ")
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", p.SideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", p.CastlingRights)
	fmt.Fprintf(&sb, "En passant: %s\n", p.EnPassant)
	fmt.Fprintf(&sb, "Half-move clock: %d\n", p.HalfMoveClock)
	fmt.Fprintf(&sb, "Full move: %d\n", p.FullMoveNumber)
	return sb.String()
}
