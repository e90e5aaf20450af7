package match

import (
	"testing"
	"time"
)

func TestNormalizeTimestamp(t *testing.T) {
	tests := []struct {
		name string
		raw  int64
		want int64
	}{
		{name: "seconds pass through", raw: 1700000000, want: 1700000000},
		{name: "milliseconds divided", raw: 1700000000000, want: 1700000000},
		{name: "millisecond precision kept", raw: 1700000000123, want: 1700000000123},
		{name: "ten digit multiple of thousand kept", raw: 1700000000, want: 1700000000},
		{name: "zero", raw: 0, want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeTimestamp(tc.raw); got != tc.want {
				t.Fatalf("NormalizeTimestamp(%d)=%d, want %d", tc.raw, got, tc.want)
			}
		})
	}
}

func TestResolveTimestamp_FallsBackToNow(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	if got := ResolveTimestamp(nil, now); got != now.Unix() {
		t.Fatalf("expected now fallback %d, got %d", now.Unix(), got)
	}

	raw := int64(1700000000000)
	if got := ResolveTimestamp(&raw, now); got != 1700000000 {
		t.Fatalf("expected normalized timestamp, got %d", got)
	}
}

func TestDetermineWinner(t *testing.T) {
	one, two := 1, 2

	tests := []struct {
		name   string
		score1 *int
		score2 *int
		want   string
		wantOK bool
	}{
		{name: "team one higher", score1: &two, score2: &one, want: "Alpha", wantOK: true},
		{name: "team two higher", score1: &one, score2: &two, want: "Bravo", wantOK: true},
		{name: "tie", score1: &one, score2: &one, wantOK: false},
		{name: "first unknown", score1: nil, score2: &one, wantOK: false},
		{name: "second unknown", score1: &two, score2: nil, wantOK: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := DetermineWinner("Alpha", "Bravo", tc.score1, tc.score2)
			if ok != tc.wantOK || got != tc.want {
				t.Fatalf("DetermineWinner=%q,%v want %q,%v", got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestDeriveWinner_LeavesPreviousWinnerOnTie(t *testing.T) {
	m := Match{ID: 1, Team1: "Alpha", Team2: "Bravo", Winner: "Alpha"}
	m.Score1, m.Score2 = intPtr(16), intPtr(16)

	if m.DeriveWinner() {
		t.Fatalf("expected no change on tie")
	}
	if m.Winner != "Alpha" {
		t.Fatalf("expected winner untouched, got %q", m.Winner)
	}

	m.Score2 = intPtr(19)
	if !m.DeriveWinner() {
		t.Fatalf("expected winner change")
	}
	if m.Winner != "Bravo" {
		t.Fatalf("expected Bravo, got %q", m.Winner)
	}
}

func TestStateAccepts(t *testing.T) {
	if !StateUpcoming.Accepts(StateLive) || !StateLive.Accepts(StateFinished) {
		t.Fatalf("expected forward transitions to be accepted")
	}
	if !StateLive.Accepts(StateUpcoming) {
		t.Fatalf("expected non-finished states to accept any observation")
	}
	if StateFinished.Accepts(StateLive) || StateFinished.Accepts(StateUpcoming) {
		t.Fatalf("expected finished to be absorbing")
	}
	if !StateFinished.Accepts(StateFinished) {
		t.Fatalf("expected finished to accept finished")
	}
}

func TestNormalizeState(t *testing.T) {
	if got := NormalizeState(" live "); got != StateLive {
		t.Fatalf("unexpected state %q", got)
	}
	if got := NormalizeState("unknown"); got != StateUpcoming {
		t.Fatalf("expected fallback to upcoming, got %q", got)
	}
}
