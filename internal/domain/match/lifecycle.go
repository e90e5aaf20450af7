package match

import (
	"strconv"
	"strings"
	"time"
)

// State tags which feed last observed a match.
type State string

const (
	StateUpcoming State = "UPCOMING"
	StateLive     State = "LIVE"
	StateFinished State = "FINISHED"
)

func (s State) Valid() bool {
	switch s {
	case StateUpcoming, StateLive, StateFinished:
		return true
	default:
		return false
	}
}

func NormalizeState(value string) State {
	state := State(strings.ToUpper(strings.TrimSpace(value)))
	if !state.Valid() {
		return StateUpcoming
	}
	return state
}

// Accepts reports whether an observation tagged next may overwrite the
// lifecycle fields of a match currently in s. FINISHED is absorbing.
func (s State) Accepts(next State) bool {
	return s != StateFinished || next == StateFinished
}

// NormalizeTimestamp converts millisecond timestamps to seconds. A value is
// treated as milliseconds when it is divisible by 1000 and longer than ten
// digits. Second values that happen to match both conditions are misread.
func NormalizeTimestamp(raw int64) int64 {
	if raw%1000 == 0 && digitCount(raw) > 10 {
		return raw / 1000
	}
	return raw
}

// ResolveTimestamp normalizes raw, falling back to now when raw is absent.
func ResolveTimestamp(raw *int64, now time.Time) int64 {
	if raw == nil {
		return now.Unix()
	}
	return NormalizeTimestamp(*raw)
}

// DetermineWinner returns the higher scorer's name. ok is false when either
// score is unknown or the scores are level, in which case the winner must be
// left as it is.
func DetermineWinner(team1, team2 string, score1, score2 *int) (winner string, ok bool) {
	if score1 == nil || score2 == nil {
		return "", false
	}
	switch {
	case *score1 > *score2:
		return team1, true
	case *score2 > *score1:
		return team2, true
	default:
		return "", false
	}
}

// DeriveWinner applies DetermineWinner to m and reports whether Winner changed.
func (m *Match) DeriveWinner() bool {
	winner, ok := DetermineWinner(m.Team1, m.Team2, m.Score1, m.Score2)
	if !ok || winner == m.Winner {
		return false
	}
	m.Winner = winner
	return true
}

func digitCount(v int64) int {
	if v < 0 {
		return len(strconv.FormatInt(v, 10)) - 1
	}
	return len(strconv.FormatInt(v, 10))
}
