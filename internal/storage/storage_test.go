package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/salmaelgheity/Alpha-Beta-Chess/internal/board"
	"github.com/salmaelgheity/Alpha-Beta-Chess/internal/match"
)

func openMemory(t *testing.T) *Storage {
	t.Helper()
	s, err := Open("")
	if err != nil {
		t.Fatalf("Failed to open in-memory storage: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleGame(result board.GameResult, reason match.EndReason, moves ...string) match.GameRecord {
	return match.GameRecord{
		White:     "aggressive(depth=2)",
		Black:     "random",
		Result:    result,
		Reason:    reason,
		Moves:     moves,
		Plies:     len(moves),
		StartFEN:  board.StartFEN,
		StartedAt: time.Unix(1700000000, 0),
		Duration:  2 * time.Second,
	}
}

func TestStorage(t *testing.T) {
	t.Run("DefaultPreferences", func(t *testing.T) {
		prefs := DefaultPreferences()
		if prefs.White != "aggressive" || prefs.Black != "random" {
			t.Errorf("Expected aggressive vs random, got %s vs %s", prefs.White, prefs.Black)
		}
		if prefs.Games != 10 {
			t.Errorf("Expected 10 games, got %d", prefs.Games)
		}
		if prefs.MaxMoves != match.DefaultMaxMoves {
			t.Errorf("Expected %d max moves, got %d", match.DefaultMaxMoves, prefs.MaxMoves)
		}
		if prefs.Parallel != 1 {
			t.Errorf("Expected parallel 1, got %d", prefs.Parallel)
		}
	})

	t.Run("NewAgentStats", func(t *testing.T) {
		stats := NewAgentStats("random")
		if stats.GamesPlayed != 0 {
			t.Errorf("Expected 0 games played")
		}
		if stats.GetWinRate() != 0 {
			t.Errorf("Expected 0 win rate")
		}
	})

	t.Run("WinRate", func(t *testing.T) {
		stats := &AgentStats{
			GamesPlayed: 10,
			Wins:        5,
			Losses:      3,
			Draws:       2,
		}
		rate := stats.GetWinRate()
		if rate != 50 {
			t.Errorf("Expected 50%% win rate, got %.2f%%", rate)
		}
	})
}

func TestOnDisk(t *testing.T) {
	dbDir := filepath.Join(t.TempDir(), "db")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		t.Fatalf("Failed to create db dir: %v", err)
	}

	s, err := Open(dbDir)
	if err != nil {
		t.Fatalf("Failed to open storage: %v", err)
	}
	first, err := s.IsFirstLaunch()
	if err != nil {
		t.Fatalf("IsFirstLaunch: %v", err)
	}
	if !first {
		t.Errorf("Expected first launch on a fresh database")
	}
	if err := s.MarkFirstLaunchComplete(); err != nil {
		t.Fatalf("MarkFirstLaunchComplete: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err = Open(dbDir)
	if err != nil {
		t.Fatalf("Failed to reopen storage: %v", err)
	}
	defer s.Close()
	first, err = s.IsFirstLaunch()
	if err != nil {
		t.Fatalf("IsFirstLaunch: %v", err)
	}
	if first {
		t.Errorf("Expected first launch flag to persist across reopen")
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	s := openMemory(t)

	prefs, err := s.LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences: %v", err)
	}
	if prefs.White != "aggressive" {
		t.Errorf("Expected defaults when nothing stored, got white=%s", prefs.White)
	}

	prefs.White = "pst"
	prefs.Games = 4
	prefs.Depth = 3
	prefs.TimeLimit = 500 * time.Millisecond
	prefs.StrictCastling = true
	if err := s.SavePreferences(prefs); err != nil {
		t.Fatalf("SavePreferences: %v", err)
	}

	got, err := s.LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences: %v", err)
	}
	if got.White != "pst" || got.Games != 4 || got.Depth != 3 ||
		got.TimeLimit != 500*time.Millisecond || !got.StrictCastling {
		t.Errorf("Preferences not restored: %+v", got)
	}
	if got.LastPlayed.IsZero() {
		t.Errorf("Expected LastPlayed to be set on save")
	}
}

func TestRecordGameUpdatesStats(t *testing.T) {
	s := openMemory(t)

	games := []match.GameRecord{
		sampleGame(board.WhiteWins, match.EndNatural, "e2e4", "e7e5"),
		sampleGame(board.WhiteWins, match.EndMaterial, "d2d4", "d7d5"),
		sampleGame(board.Draw, match.EndLongGame, "c2c4"),
		sampleGame(board.BlackWins, match.EndInvalidMove, "g1f3"),
	}
	for _, g := range games {
		if err := s.RecordGame(g); err != nil {
			t.Fatalf("RecordGame: %v", err)
		}
	}

	white, err := s.LoadStats("aggressive(depth=2)")
	if err != nil {
		t.Fatalf("LoadStats: %v", err)
	}
	if white.GamesPlayed != 4 || white.Wins != 2 || white.Draws != 1 || white.Losses != 1 {
		t.Errorf("Unexpected white stats: %+v", white)
	}
	if white.WinsAsWhite != 2 || white.WinsAsBlack != 0 {
		t.Errorf("Expected 2 wins as white, got %d/%d", white.WinsAsWhite, white.WinsAsBlack)
	}
	if white.LongestWinStrk != 2 || white.CurrentStreak != 0 {
		t.Errorf("Expected streak 2/0, got %d/%d", white.LongestWinStrk, white.CurrentStreak)
	}
	if white.WinsByReason[string(match.EndNatural)] != 1 || white.WinsByReason[string(match.EndMaterial)] != 1 {
		t.Errorf("Unexpected wins by reason: %v", white.WinsByReason)
	}
	if white.TotalPlayTime != 8*time.Second {
		t.Errorf("Expected 8s total play time, got %s", white.TotalPlayTime)
	}

	black, err := s.LoadStats("random")
	if err != nil {
		t.Fatalf("LoadStats: %v", err)
	}
	if black.Wins != 1 || black.WinsAsBlack != 1 || black.Losses != 2 || black.CurrentStreak != 1 {
		t.Errorf("Unexpected black stats: %+v", black)
	}

	all, err := s.ListStats()
	if err != nil {
		t.Fatalf("ListStats: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected stats for 2 agents, got %d", len(all))
	}
}

func TestGameKeyAndLoad(t *testing.T) {
	s := openMemory(t)

	a := sampleGame(board.WhiteWins, match.EndNatural, "f2f3", "e7e5", "g2g4", "d8h4")
	b := sampleGame(board.WhiteWins, match.EndNatural, "f2f3", "e7e5", "g2g4", "d8h4")
	b.Index = 7
	c := sampleGame(board.WhiteWins, match.EndNatural, "e2e4")

	if GameKey(a) != GameKey(b) {
		t.Errorf("Identical move sequences should share a key")
	}
	if GameKey(a) == GameKey(c) {
		t.Errorf("Different move sequences should not share a key")
	}

	for _, g := range []match.GameRecord{a, b, c} {
		if err := s.RecordGame(g); err != nil {
			t.Fatalf("RecordGame: %v", err)
		}
	}

	n, err := s.CountGames()
	if err != nil {
		t.Fatalf("CountGames: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 distinct games, got %d", n)
	}

	got, err := s.LoadGame(GameKey(a))
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if got.Index != 7 || got.Result != board.WhiteWins || len(got.Moves) != 4 {
		t.Errorf("Unexpected loaded game: %+v", got)
	}

	if _, err := s.LoadGame("game/missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSummaries(t *testing.T) {
	s := openMemory(t)

	base := time.Unix(1700000000, 0)
	for i := 0; i < 3; i++ {
		sum := match.Summary{
			White:     "pst(depth=3)",
			Black:     "random",
			Games:     i + 1,
			WhiteWins: i + 1,
			Reasons:   map[match.EndReason]int{match.EndNatural: i + 1},
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.RecordSummary(sum); err != nil {
			t.Fatalf("RecordSummary: %v", err)
		}
	}

	sums, err := s.ListSummaries()
	if err != nil {
		t.Fatalf("ListSummaries: %v", err)
	}
	if len(sums) != 3 {
		t.Fatalf("Expected 3 summaries, got %d", len(sums))
	}
	for i, sum := range sums {
		if sum.Games != i+1 {
			t.Errorf("Summary %d: expected %d games (oldest first), got %d", i, i+1, sum.Games)
		}
		if sum.Reasons[match.EndNatural] != i+1 {
			t.Errorf("Summary %d: reasons not restored: %v", i, sum.Reasons)
		}
	}
}

func TestRecorderWithMatch(t *testing.T) {
	s := openMemory(t)

	var rec match.Recorder = s
	sum, err := match.RunMatch(context.Background(), match.Config{
		White:    match.Player{Preset: "random"},
		Black:    match.Player{Preset: "random"},
		Games:    2,
		MaxMoves: 20,
		Seed:     3,
		Recorder: rec,
	})
	if err != nil {
		t.Fatalf("RunMatch: %v", err)
	}

	stats, err := s.LoadStats(sum.White)
	if err != nil {
		t.Fatalf("LoadStats: %v", err)
	}
	if stats.GamesPlayed != 2 {
		t.Errorf("Expected 2 games recorded for %s, got %d", sum.White, stats.GamesPlayed)
	}

	sums, err := s.ListSummaries()
	if err != nil {
		t.Fatalf("ListSummaries: %v", err)
	}
	if len(sums) != 1 || sums[0].Games != 2 {
		t.Errorf("Expected one stored summary of 2 games, got %+v", sums)
	}
}
