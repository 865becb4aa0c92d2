package match

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

var rule = strings.Repeat("=", 60)

// GameLine returns the one-line report of a finished game.
func GameLine(rec GameRecord) string {
	return fmt.Sprintf("Game %d: %s (%d moves, %.2fs, %s)",
		rec.Index+1, rec.Result, rec.Plies, rec.Duration.Seconds(), rec.Reason)
}

// Report formats the summary for terminal output.
func (s Summary) Report() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Match Summary: %s vs %s\n", s.White, s.Black)
	sb.WriteString(rule + "\n")
	fmt.Fprintf(&sb, "Total Games: %d\n", s.Games)
	fmt.Fprintf(&sb, "White Wins: %d (%.1f%%)\n", s.WhiteWins, s.WhiteWinRate*100)
	fmt.Fprintf(&sb, "Black Wins: %d (%.1f%%)\n", s.BlackWins, s.BlackWinRate*100)
	fmt.Fprintf(&sb, "Draws: %d (%.1f%%)\n", s.Draws, s.DrawRate*100)
	if s.Aborted > 0 {
		fmt.Fprintf(&sb, "Aborted: %d\n", s.Aborted)
	}
	fmt.Fprintf(&sb, "Average Moves: %.1f\n", s.AvgMoves)
	fmt.Fprintf(&sb, "Average Duration: %.2fs\n", s.AvgDuration.Seconds())

	if s.WhiteNodes > 0 || s.BlackNodes > 0 {
		fmt.Fprintf(&sb, "Nodes: white %s, black %s\n",
			humanize.Comma(int64(s.WhiteNodes)), humanize.Comma(int64(s.BlackNodes)))
		if s.Elapsed > 0 {
			rate := float64(s.WhiteNodes+s.BlackNodes) / s.Elapsed.Seconds()
			fmt.Fprintf(&sb, "Search speed: %s\n", humanize.SIWithDigits(rate, 1, "nps"))
		}
	}

	if len(s.Reasons) > 0 {
		reasons := make([]string, 0, len(s.Reasons))
		for reason, n := range s.Reasons {
			reasons = append(reasons, fmt.Sprintf("%s=%d", reason, n))
		}
		sort.Strings(reasons)
		fmt.Fprintf(&sb, "End Reasons: %s\n", strings.Join(reasons, ", "))
	}

	if !s.StartedAt.IsZero() {
		fmt.Fprintf(&sb, "Started: %s (took %s)\n", humanize.Time(s.StartedAt), s.Elapsed.Round(time.Millisecond))
	}

	if name, margin, tied := s.Winner(); tied {
		sb.WriteString("\nResult: Tied\n")
	} else {
		fmt.Fprintf(&sb, "\nWinner: %s (by %.1f%%)\n", name, margin*100)
	}
	sb.WriteString(rule + "\n")

	return sb.String()
}
