package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/salmaelgheity/Alpha-Beta-Chess/internal/board"
)

func render(t *testing.T, fen string, opts ...Option) string {
	t.Helper()
	pos, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatalf("Failed to parse FEN %q: %v", fen, err)
	}
	var buf bytes.Buffer
	if err := SVG(&buf, pos, opts...); err != nil {
		t.Fatalf("SVG failed: %v", err)
	}
	return buf.String()
}

func TestSVGPieceCount(t *testing.T) {
	tests := []struct {
		name   string
		fen    string
		pieces int
	}{
		{"start", board.StartFEN, 32},
		{"kings only", "4k3/8/8/8/8/8/8/4K3 w - - 0 1", 2},
		{"endgame", "8/5k2/8/3P4/8/2N5/5K2/8 w - - 0 1", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := render(t, tt.fen)
			if got := strings.Count(out, `class="piece"`); got != tt.pieces {
				t.Errorf("Expected %d piece elements, got %d", tt.pieces, got)
			}
			if !strings.HasPrefix(strings.TrimSpace(out), "<?xml") {
				t.Errorf("Output is not an SVG document")
			}
			if !strings.Contains(out, "</svg>") {
				t.Errorf("SVG not closed")
			}
		})
	}
}

func TestSVGSquaresAndTitle(t *testing.T) {
	out := render(t, board.StartFEN)
	if got := strings.Count(out, "<rect"); got != 64 {
		t.Errorf("Expected 64 squares, got %d", got)
	}
	if !strings.Contains(out, board.StartFEN) {
		t.Errorf("Expected the FEN in the title")
	}
	if !strings.Contains(out, `data-piece="K"`) || !strings.Contains(out, `data-square="e1"`) {
		t.Errorf("Expected white king on e1 to be tagged")
	}
}

func TestSVGCheckHighlight(t *testing.T) {
	// Black king on e8 checked by the rook on e1.
	fen := "4k3/8/8/8/8/8/8/4RK2 b - - 0 1"

	out := render(t, fen)
	if !strings.Contains(out, checkColor) {
		t.Errorf("Expected checked king highlight")
	}
	if !strings.Contains(out, attackColor) {
		t.Errorf("Expected attacker highlight")
	}

	out = render(t, fen, NoCheckHighlight())
	if strings.Contains(out, checkColor) {
		t.Errorf("Check highlight should be disabled")
	}
}

func TestSVGOptions(t *testing.T) {
	out := render(t, board.StartFEN,
		SquareColors("#ffffff", "#000000"),
		LastMove(board.NewMove(board.E2, board.E4)),
		NoLabels())
	if !strings.Contains(out, "#ffffff") || !strings.Contains(out, "#000000") {
		t.Errorf("Custom square colors not used")
	}
	if got := strings.Count(out, markColor); got != 2 {
		t.Errorf("Expected 2 marked squares, got %d", got)
	}
	if strings.Contains(out, ">a</text>") {
		t.Errorf("Labels should be omitted")
	}

	white := render(t, board.StartFEN)
	black := render(t, board.StartFEN, Perspective(board.Black))
	if white == black {
		t.Errorf("Perspective should change the diagram")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestSVGWriteError(t *testing.T) {
	if err := SVG(failingWriter{}, board.NewPosition()); err == nil {
		t.Errorf("Expected write error to be reported")
	}
}
