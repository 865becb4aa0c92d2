// Package render draws positions as SVG diagrams.
package render

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/salmaelgheity/Alpha-Beta-Chess/internal/board"
)

const (
	squareSize = 45
	boardSize  = 8 * squareSize
	margin     = 20 // Room for file and rank labels
)

// Default colors
const (
	DefaultLight = "#f0d9b5"
	DefaultDark  = "#b58863"
	checkColor   = "#e06666"
	attackColor  = "#f6b26b"
	markColor    = "#cdd26a"
)

// glyphs are the Unicode figurines indexed by board.Piece.
var glyphs = [12]string{
	"♙", "♘", "♗", "♖", "♕", "♔",
	"♟", "♞", "♝", "♜", "♛", "♚",
}

type options struct {
	light, dark string
	perspective board.Color
	marks       map[board.Square]string
	labels      bool
	showCheck   bool
}

// Option configures a diagram.
type Option func(*options)

// SquareColors sets the light and dark square colors.
func SquareColors(light, dark string) Option {
	return func(o *options) {
		o.light, o.dark = light, dark
	}
}

// Perspective draws the board from the given side. Black puts rank 1 on top.
func Perspective(c board.Color) Option {
	return func(o *options) {
		o.perspective = c
	}
}

// MarkSquares fills the given squares with color, e.g. to show the last move.
func MarkSquares(color string, sqs ...board.Square) Option {
	return func(o *options) {
		for _, sq := range sqs {
			if sq < board.NoSquare {
				o.marks[sq] = color
			}
		}
	}
}

// LastMove marks the from and to squares of m.
func LastMove(m board.Move) Option {
	if m == board.NoMove {
		return func(*options) {}
	}
	return MarkSquares(markColor, m.From, m.To)
}

// NoLabels omits the file and rank coordinates.
func NoLabels() Option {
	return func(o *options) {
		o.labels = false
	}
}

// NoCheckHighlight disables the highlight of a checked king and its attackers.
func NoCheckHighlight() Option {
	return func(o *options) {
		o.showCheck = false
	}
}

// SVG writes a diagram of pos to w. Every piece is one <text class="piece">
// element carrying its FEN letter in data-piece.
func SVG(w io.Writer, pos *board.Position, opts ...Option) error {
	o := &options{
		light:       DefaultLight,
		dark:        DefaultDark,
		perspective: board.White,
		marks:       make(map[board.Square]string),
		labels:      true,
		showCheck:   true,
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.showCheck {
		if king, err := pos.KingSquare(pos.SideToMove); err == nil {
			attackers := pos.Attackers(king, pos.SideToMove.Other())
			if len(attackers) > 0 {
				o.marks[king] = checkColor
				for _, sq := range attackers {
					o.marks[sq] = attackColor
				}
			}
		}
	}

	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	total := boardSize + 2*margin
	canvas.Start(total, total)
	canvas.Title(pos.ToFEN())

	canvas.Gid("squares")
	for sq := board.A8; sq < board.NoSquare; sq++ {
		x, y := o.origin(sq)
		fill := o.light
		if (sq.Row()+sq.File())%2 == 1 {
			fill = o.dark
		}
		if c, ok := o.marks[sq]; ok {
			fill = c
		}
		canvas.Rect(x, y, squareSize, squareSize, "fill:"+fill)
	}
	canvas.Gend()

	if o.labels {
		o.drawLabels(canvas)
	}

	canvas.Gid("pieces")
	for sq := board.A8; sq < board.NoSquare; sq++ {
		piece := pos.PieceAt(sq)
		if piece == board.NoPiece {
			continue
		}
		x, y := o.origin(sq)
		canvas.Text(x+squareSize/2, y+squareSize*4/5, glyphs[piece],
			`class="piece"`,
			fmt.Sprintf(`data-piece="%s"`, piece),
			fmt.Sprintf(`data-square="%s"`, sq),
			"text-anchor:middle;font-size:36px")
	}
	canvas.Gend()

	canvas.End()
	return ew.err
}

// origin returns the top-left pixel of sq.
func (o *options) origin(sq board.Square) (int, int) {
	row, file := sq.Row(), sq.File()
	if o.perspective == board.Black {
		row, file = 7-row, 7-file
	}
	return margin + file*squareSize, margin + row*squareSize
}

func (o *options) drawLabels(canvas *svg.SVG) {
	style := "text-anchor:middle;font-size:12px;fill:#555"
	for i := 0; i < 8; i++ {
		file, rank := i, 8-i
		if o.perspective == board.Black {
			file, rank = 7-i, i+1
		}
		at := margin + i*squareSize + squareSize/2
		canvas.Text(at, margin+boardSize+margin*3/4, string(rune('a'+file)), style)
		canvas.Text(margin/2, at+4, fmt.Sprint(rank), style)
	}
}

// errWriter keeps the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return len(p), nil
	}
	if _, err := e.w.Write(p); err != nil {
		e.err = err
	}
	return len(p), nil
}
