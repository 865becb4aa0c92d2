package board

import "fmt"

// GameResult is the outcome of a position.
type GameResult uint8

const (
	Ongoing GameResult = iota
	WhiteWins
	BlackWins
	Draw
)

// String returns the result in PGN notation.
func (r GameResult) String() string {
	switch r {
	case WhiteWins:
		return "1-0"
	case BlackWins:
		return "0-1"
	case Draw:
		return "1/2-1/2"
	default:
		return "*"
	}
}

// IsDecided returns true if the game is over.
func (r GameResult) IsDecided() bool {
	return r != Ongoing
}

// Winner returns the winning color, or NoColor for draws and ongoing games.
func (r GameResult) Winner() Color {
	switch r {
	case WhiteWins:
		return White
	case BlackWins:
		return Black
	default:
		return NoColor
	}
}

// WinFor returns the result in which c wins.
func WinFor(c Color) GameResult {
	if c == White {
		return WhiteWins
	}
	return BlackWins
}

// Result determines the game result. Stalemate is the only draw detected;
// repetition and the fifty-move rule are not.
func (p *Position) Result() GameResult {
	if p.HasLegalMoves() {
		return Ongoing
	}
	if p.InCheck() {
		return WinFor(p.SideToMove.Other())
	}
	return Draw
}

// ParseGameResult parses a result string produced by GameResult.String.
func ParseGameResult(s string) (GameResult, error) {
	switch s {
	case "1-0":
		return WhiteWins, nil
	case "0-1":
		return BlackWins, nil
	case "1/2-1/2":
		return Draw, nil
	case "*":
		return Ongoing, nil
	default:
		return Ongoing, fmt.Errorf("invalid game result: %s", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r GameResult) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *GameResult) UnmarshalText(text []byte) error {
	parsed, err := ParseGameResult(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
