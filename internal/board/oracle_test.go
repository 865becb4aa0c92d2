package board

import (
	"sort"
	"testing"

	"github.com/dylhunn/dragontoothmg"
)

// referenceMoves returns the legal moves of a FEN according to dragontoothmg,
// converted to the canonical move form.
func referenceMoves(t *testing.T, fen string) []string {
	t.Helper()
	ref := dragontoothmg.ParseFen(fen)
	var out []string
	for _, rm := range ref.GenerateLegalMoves() {
		m, err := ParseMove(rm.String())
		if err != nil {
			t.Fatalf("reference move %q: %v", rm.String(), err)
		}
		out = append(out, m.String())
	}
	sort.Strings(out)
	return out
}

func sortedMoves(pos *Position) []string {
	out := MovesToStrings(pos.LegalMoves())
	sort.Strings(out)
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TestLegalMovesMatchReference compares the legal move sets of this
// generator and dragontoothmg on every position reachable in two plies.
func TestLegalMovesMatchReference(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	}

	for _, fen := range fens {
		root := mustParseFEN(t, fen)
		root.StrictCastling = true
		compareWithReference(t, root, 2)
	}
}

func compareWithReference(t *testing.T, pos *Position, depth int) {
	t.Helper()
	fen := pos.ToFEN()
	got := sortedMoves(pos)
	want := referenceMoves(t, fen)
	if !equalStrings(got, want) {
		t.Fatalf("%s:\n got  %v\n want %v", fen, got, want)
	}
	if depth <= 1 {
		return
	}
	for _, m := range pos.LegalMoves() {
		child := pos.Clone()
		child.ApplyMove(m)
		compareWithReference(t, child, depth-1)
	}
}
