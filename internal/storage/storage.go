package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/badger/v4"

	"github.com/salmaelgheity/Alpha-Beta-Chess/internal/board"
	"github.com/salmaelgheity/Alpha-Beta-Chess/internal/match"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyFirstLaunch = "first_launch"
	prefixStats    = "stats/"
	prefixGame     = "game/"
	prefixMatch    = "match/"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Preferences stores the last match setup of the runner.
type Preferences struct {
	White          string        `json:"white"`
	Black          string        `json:"black"`
	Games          int           `json:"games"`
	MaxMoves       int           `json:"max_moves"`
	Parallel       int           `json:"parallel"`
	Depth          int           `json:"depth"`      // 0 = preset default
	TimeLimit      time.Duration `json:"time_limit"` // 0 = preset default
	StrictCastling bool          `json:"strict_castling"`
	LastPlayed     time.Time     `json:"last_played"`
}

// DefaultPreferences returns default runner preferences
func DefaultPreferences() *Preferences {
	return &Preferences{
		White:      "aggressive",
		Black:      "random",
		Games:      10,
		MaxMoves:   match.DefaultMaxMoves,
		Parallel:   1,
		LastPlayed: time.Now(),
	}
}

// AgentStats stores the results of one agent across matches.
type AgentStats struct {
	Name           string         `json:"name"`
	GamesPlayed    int            `json:"games_played"`
	Wins           int            `json:"wins"`
	Losses         int            `json:"losses"`
	Draws          int            `json:"draws"`
	WinsAsWhite    int            `json:"wins_as_white"`
	WinsAsBlack    int            `json:"wins_as_black"`
	WinsByReason   map[string]int `json:"wins_by_reason"`
	TotalPlayTime  time.Duration  `json:"total_play_time"`
	LongestWinStrk int            `json:"longest_win_streak"`
	CurrentStreak  int            `json:"current_streak"`
}

// NewAgentStats returns empty statistics for the named agent
func NewAgentStats(name string) *AgentStats {
	return &AgentStats{
		Name:         name,
		WinsByReason: make(map[string]int),
	}
}

// GetWinRate returns the win rate as a percentage (0-100)
func (s *AgentStats) GetWinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100
}

// record applies one finished game played as color c.
func (s *AgentStats) record(rec match.GameRecord, c board.Color) {
	s.GamesPlayed++
	s.TotalPlayTime += rec.Duration

	winner := rec.Result.Winner()
	switch {
	case winner == board.NoColor:
		s.Draws++
		s.CurrentStreak = 0
	case winner == c:
		s.Wins++
		if c == board.White {
			s.WinsAsWhite++
		} else {
			s.WinsAsBlack++
		}
		s.WinsByReason[string(rec.Reason)]++
		s.CurrentStreak++
		if s.CurrentStreak > s.LongestWinStrk {
			s.LongestWinStrk = s.CurrentStreak
		}
	default:
		s.Losses++
		s.CurrentStreak = 0
	}
}

// Storage wraps BadgerDB for persistent storage.
// It implements match.Recorder.
type Storage struct {
	db *badger.DB
	mu sync.Mutex // Serializes statistics read-modify-write
}

// NewStorage opens the database in the default data directory
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens the database in dir. An empty dir opens an in-memory database.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// IsFirstLaunch returns true if this is the first launch
func (s *Storage) IsFirstLaunch() (bool, error) {
	firstLaunch := true

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyFirstLaunch))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		firstLaunch = false
		return nil
	})

	return firstLaunch, err
}

// MarkFirstLaunchComplete marks that first launch setup is complete
func (s *Storage) MarkFirstLaunchComplete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyFirstLaunch), []byte("done"))
	})
}

// putJSON stores v under key.
func (s *Storage) putJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// getJSON loads key into v. found is false when the key does not exist.
func (s *Storage) getJSON(key string, v any) (found bool, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	return found, err
}

// SavePreferences saves runner preferences
func (s *Storage) SavePreferences(prefs *Preferences) error {
	prefs.LastPlayed = time.Now()
	return s.putJSON(keyPreferences, prefs)
}

// LoadPreferences loads runner preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()
	_, err := s.getJSON(keyPreferences, prefs)
	return prefs, err
}

// SaveStats saves the statistics of one agent
func (s *Storage) SaveStats(stats *AgentStats) error {
	return s.putJSON(prefixStats+stats.Name, stats)
}

// LoadStats loads the statistics of the named agent, returns empty stats if not found
func (s *Storage) LoadStats(name string) (*AgentStats, error) {
	stats := NewAgentStats(name)
	_, err := s.getJSON(prefixStats+name, stats)
	return stats, err
}

// ListStats returns the statistics of every agent seen so far
func (s *Storage) ListStats() ([]*AgentStats, error) {
	var out []*AgentStats
	err := s.scan(prefixStats, func(val []byte) error {
		stats := NewAgentStats("")
		if err := json.Unmarshal(val, stats); err != nil {
			return err
		}
		out = append(out, stats)
		return nil
	})
	return out, err
}

// GameKey returns the storage key of a game. Games with the same start
// position and move sequence share a key.
func GameKey(rec match.GameRecord) string {
	h := xxhash.New()
	h.WriteString(rec.StartFEN)
	h.WriteString("|")
	h.WriteString(strings.Join(rec.Moves, " "))
	return fmt.Sprintf("%s%016x", prefixGame, h.Sum64())
}

// RecordGame stores a finished game and updates both agents' statistics
func (s *Storage) RecordGame(rec match.GameRecord) error {
	if err := s.putJSON(GameKey(rec), rec); err != nil {
		return fmt.Errorf("save game: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, side := range []struct {
		name  string
		color board.Color
	}{{rec.White, board.White}, {rec.Black, board.Black}} {
		stats, err := s.LoadStats(side.name)
		if err != nil {
			return fmt.Errorf("load stats for %s: %w", side.name, err)
		}
		stats.record(rec, side.color)
		if err := s.SaveStats(stats); err != nil {
			return fmt.Errorf("save stats for %s: %w", side.name, err)
		}
	}
	return nil
}

// LoadGame loads the game stored under key
func (s *Storage) LoadGame(key string) (match.GameRecord, error) {
	var rec match.GameRecord
	found, err := s.getJSON(key, &rec)
	if err != nil {
		return rec, err
	}
	if !found {
		return rec, fmt.Errorf("game %s: %w", key, ErrNotFound)
	}
	return rec, nil
}

// CountGames returns the number of distinct stored games
func (s *Storage) CountGames() (int, error) {
	n := 0
	err := s.scanKeys(prefixGame, func() { n++ })
	return n, err
}

// RecordSummary stores a match summary keyed by its start time
func (s *Storage) RecordSummary(sum match.Summary) error {
	started := sum.StartedAt
	if started.IsZero() {
		started = time.Now()
	}
	key := fmt.Sprintf("%s%020d", prefixMatch, started.UnixNano())
	return s.putJSON(key, sum)
}

// ListSummaries returns stored match summaries, oldest first
func (s *Storage) ListSummaries() ([]match.Summary, error) {
	var out []match.Summary
	err := s.scan(prefixMatch, func(val []byte) error {
		var sum match.Summary
		if err := json.Unmarshal(val, &sum); err != nil {
			return err
		}
		out = append(out, sum)
		return nil
	})
	return out, err
}

// scan calls fn with the value of every key under prefix, in key order.
func (s *Storage) scan(prefix string, fn func(val []byte) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := it.Item().Value(fn); err != nil {
				return err
			}
		}
		return nil
	})
}

// scanKeys calls fn once per key under prefix without reading values.
func (s *Storage) scanKeys(prefix string, fn func()) error {
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			fn()
		}
		return nil
	})
}
