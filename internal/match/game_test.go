package match

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	"github.com/notnil/chess"

	"github.com/salmaelgheity/Alpha-Beta-Chess/internal/board"
	"github.com/salmaelgheity/Alpha-Beta-Chess/internal/engine"
)

// fixedAgent always plays the same move.
type fixedAgent struct {
	move board.Move
}

func (a fixedAgent) ChooseMove(*board.Position) board.Move { return a.move }
func (a fixedAgent) Name() string { return "fixed" }

func randomAgent(seed int64) engine.Agent {
	return engine.NewRandomAgent(rand.New(rand.NewSource(seed)))
}

// toUCI converts the canonical move form to UCI ("e7e8=Q" -> "e7e8q").
func toUCI(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, "=", ""))
}

// replay plays the recorded moves through notnil/chess, compares the
// recorded SAN and returns the final reference position.
func replay(t *testing.T, rec GameRecord) *chess.Position {
	t.Helper()
	pos := chess.NewGame().Position()
	for i, s := range rec.Moves {
		var next *chess.Move
		for _, m := range pos.ValidMoves() {
			if m.String() == toUCI(s) {
				next = m
				break
			}
		}
		if next == nil {
			t.Fatalf("ply %d: %s is not legal in the reference implementation", i, s)
		}
		if want := (chess.AlgebraicNotation{}).Encode(pos, next); rec.SAN[i] != want {
			t.Errorf("ply %d: SAN %s, reference %s", i, rec.SAN[i], want)
		}
		pos = pos.Update(next)
	}
	return pos
}

func TestRandomGamesReplayLegally(t *testing.T) {
	for seed := int64(1); seed <= 4; seed++ {
		rec := PlayGame(context.Background(), randomAgent(seed), randomAgent(seed+100), GameOptions{
			StrictCastling: true,
		})

		if rec.Plies != len(rec.Moves) {
			t.Fatalf("Plies = %d, len(Moves) = %d", rec.Plies, len(rec.Moves))
		}
		if rec.Plies > DefaultMaxMoves {
			t.Fatalf("game ran %d plies past the limit", rec.Plies)
		}

		final := replay(t, rec)
		status := final.Status()
		switch rec.Reason {
		case EndNatural:
			if rec.Result == board.Draw && status != chess.Stalemate {
				t.Errorf("seed %d: stalemate not confirmed, reference says %s", seed, status)
			}
			if rec.Result.Winner() != board.NoColor && status != chess.Checkmate {
				t.Errorf("seed %d: checkmate not confirmed, reference says %s", seed, status)
			}
		case EndMaterial, EndLongGame:
			if status != chess.NoMethod {
				t.Errorf("seed %d: adjudicated a finished game (%s)", seed, status)
			}
			if rec.Plies != DefaultMaxMoves {
				t.Errorf("seed %d: adjudicated after %d plies", seed, rec.Plies)
			}
		default:
			t.Errorf("seed %d: unexpected end reason %s", seed, rec.Reason)
		}
		t.Log(GameLine(rec))
	}
}

func TestSearcherGameReplaysLegally(t *testing.T) {
	white, err := engine.NewAgent(engine.PresetStandard, nil, engine.AgentOptions{Depth: 1})
	if err != nil {
		t.Fatal(err)
	}
	rec := PlayGame(context.Background(), white, randomAgent(3), GameOptions{MaxMoves: 40, StrictCastling: true})

	replay(t, rec)
	if rec.WhiteNodes == 0 {
		t.Error("search nodes not recorded for the searcher")
	}
	if rec.BlackNodes != 0 {
		t.Errorf("random agent reported %d nodes", rec.BlackNodes)
	}
}

func TestInvalidMoveLoses(t *testing.T) {
	tests := []struct {
		name  string
		move  board.Move
		wantM string
	}{
		{"no move", board.NoMove, "0000"},
		{"illegal move", board.NewMove(board.E2, board.E5), "e2e5"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := PlayGame(context.Background(), fixedAgent{tc.move}, randomAgent(1), GameOptions{})
			if rec.Result != board.BlackWins || rec.Reason != EndInvalidMove {
				t.Errorf("got %s (%s), want 0-1 invalid_move", rec.Result, rec.Reason)
			}
			if rec.InvalidMove != tc.wantM {
				t.Errorf("InvalidMove = %q, want %q", rec.InvalidMove, tc.wantM)
			}
			if rec.Plies != 0 {
				t.Errorf("Plies = %d", rec.Plies)
			}
		})
	}

	// Black fails after White's first move.
	rec := PlayGame(context.Background(), fixedAgent{board.NewMove(board.E2, board.E4)}, fixedAgent{board.NoMove}, GameOptions{})
	if rec.Result != board.WhiteWins || rec.Plies != 1 {
		t.Errorf("got %s after %d plies, want 1-0 after 1", rec.Result, rec.Plies)
	}
}

func TestNaturalEnd(t *testing.T) {
	rec := PlayGame(context.Background(), randomAgent(1), randomAgent(2), GameOptions{
		StartFEN: "R6k/6pp/8/8/8/8/8/K7 b - - 0 1",
	})
	if rec.Result != board.WhiteWins || rec.Reason != EndNatural || rec.Plies != 0 {
		t.Errorf("got %s (%s) after %d plies", rec.Result, rec.Reason, rec.Plies)
	}
}

func TestMateOnLastPly(t *testing.T) {
	// Ra8 mates on the only allowed ply.
	white, err := engine.NewAgent(engine.PresetStandard, nil, engine.AgentOptions{Depth: 1})
	if err != nil {
		t.Fatal(err)
	}
	rec := PlayGame(context.Background(), white, randomAgent(1), GameOptions{
		MaxMoves: 1,
		StartFEN: "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1",
	})
	if rec.Result != board.WhiteWins || rec.Reason != EndNatural {
		t.Errorf("got %s (%s), want 1-0 natural_end", rec.Result, rec.Reason)
	}
}

func TestMoveLimitAdjudication(t *testing.T) {
	rec := PlayGame(context.Background(), randomAgent(1), randomAgent(2), GameOptions{MaxMoves: 2})
	if rec.Plies != 2 {
		t.Fatalf("Plies = %d, want 2", rec.Plies)
	}
	if rec.Result != board.Draw || rec.Reason != EndLongGame {
		t.Errorf("got %s (%s), want draw by long game", rec.Result, rec.Reason)
	}
}

func TestAdjudicate(t *testing.T) {
	tests := []struct {
		fen     string
		balance int
		result  board.GameResult
		reason  EndReason
	}{
		{board.StartFEN, 0, board.Draw, EndLongGame},
		{"4k3/8/8/8/8/8/8/3QK3 w - - 0 1", 9, board.WhiteWins, EndMaterial},
		{"4k3/8/8/8/8/8/8/3RK3 b - - 0 1", 5, board.WhiteWins, EndMaterial},
		{"3rk3/8/8/8/8/8/8/3BK3 w - - 0 1", -2, board.Draw, EndLongGame},
		{"3qk3/8/8/8/8/8/8/4K3 w - - 0 1", -9, board.BlackWins, EndMaterial},
		{"3nk3/8/8/8/8/8/8/4K3 w - - 0 1", -3, board.Draw, EndLongGame},
	}

	for _, tc := range tests {
		pos, err := board.ParseFEN(tc.fen)
		if err != nil {
			t.Fatal(err)
		}
		if got := MaterialBalance(pos); got != tc.balance {
			t.Errorf("%s: MaterialBalance = %d, want %d", tc.fen, got, tc.balance)
		}
		result, reason := Adjudicate(pos)
		if result != tc.result || reason != tc.reason {
			t.Errorf("%s: Adjudicate = %s %s, want %s %s", tc.fen, result, reason, tc.result, tc.reason)
		}
	}
}

func TestCancelledGame(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := PlayGame(ctx, randomAgent(1), randomAgent(2), GameOptions{})
	if rec.Reason != EndAborted || rec.Result != board.Ongoing {
		t.Errorf("got %s (%s), want * aborted", rec.Result, rec.Reason)
	}
}

func TestBadStartNotPlayed(t *testing.T) {
	for _, fen := range []string{
		"8/8/8/8/8/8/8/4K2k x - - 0 1",
		"8/8/8/8/8/8/8/4K3 w - - 0 1",
	} {
		rec := PlayGame(context.Background(), randomAgent(1), randomAgent(2), GameOptions{StartFEN: fen})
		if rec.Reason != EndBadStart || rec.Result != board.Ongoing {
			t.Errorf("%q: got %s (%s), want * %s", fen, rec.Result, rec.Reason, EndBadStart)
		}
		if rec.Plies != 0 || rec.StartFEN != fen {
			t.Errorf("%q: played %d plies from %q", fen, rec.Plies, rec.StartFEN)
		}
	}
}

func TestStartPosition(t *testing.T) {
	pos, err := StartPosition("")
	if err != nil || pos.ToFEN() != board.StartFEN {
		t.Errorf("empty FEN: %v, %v", pos, err)
	}
	if _, err := StartPosition("4k3/8/8/8/8/8/8/R3K3 b - - 0 1"); err != nil {
		t.Errorf("valid position rejected: %v", err)
	}
	// White to move while Black is in check.
	if _, err := StartPosition("4k3/8/8/8/8/8/8/4RK2 w - - 0 1"); err == nil {
		t.Error("side not to move in check accepted")
	}
}
