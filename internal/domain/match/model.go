package match

import "fmt"

// Match is one tournament match as observed on the event pages.
type Match struct {
	ID          int64
	ScheduledAt int64
	State       State
	Team1       string
	Team2       string
	Score1      *int
	Score2      *int
	Map         string
	Winner      string
	Flags       string
}

// Patch carries the fields of a partial update. Nil fields are left untouched.
type Patch struct {
	ScheduledAt *int64
	State       *State
	Team1       *string
	Team2       *string
	Score1      *int
	Score2      *int
	Map         *string
	Winner      *string
	Flags       *string
}

func New(id int64, p Patch) Match {
	m := Match{ID: id, State: StateUpcoming}
	m.Apply(p)
	return m
}

// Apply overwrites only the fields present in p and reports whether anything changed.
func (m *Match) Apply(p Patch) bool {
	changed := false
	if p.ScheduledAt != nil && m.ScheduledAt != *p.ScheduledAt {
		m.ScheduledAt = *p.ScheduledAt
		changed = true
	}
	if p.State != nil && m.State != *p.State {
		m.State = *p.State
		changed = true
	}
	if p.Team1 != nil && m.Team1 != *p.Team1 {
		m.Team1 = *p.Team1
		changed = true
	}
	if p.Team2 != nil && m.Team2 != *p.Team2 {
		m.Team2 = *p.Team2
		changed = true
	}
	if p.Score1 != nil && !sameScore(m.Score1, p.Score1) {
		m.Score1 = intPtr(*p.Score1)
		changed = true
	}
	if p.Score2 != nil && !sameScore(m.Score2, p.Score2) {
		m.Score2 = intPtr(*p.Score2)
		changed = true
	}
	if p.Map != nil && m.Map != *p.Map {
		m.Map = *p.Map
		changed = true
	}
	if p.Winner != nil && m.Winner != *p.Winner {
		m.Winner = *p.Winner
		changed = true
	}
	if p.Flags != nil && m.Flags != *p.Flags {
		m.Flags = *p.Flags
		changed = true
	}
	return changed
}

// Clone returns a copy that shares no score pointers with m.
func (m Match) Clone() Match {
	out := m
	if m.Score1 != nil {
		out.Score1 = intPtr(*m.Score1)
	}
	if m.Score2 != nil {
		out.Score2 = intPtr(*m.Score2)
	}
	return out
}

func (m Match) Validate() error {
	if m.ID <= 0 {
		return fmt.Errorf("match id must be > 0")
	}
	if m.Team1 == "" || m.Team2 == "" {
		return fmt.Errorf("match %d team names are required", m.ID)
	}
	if !m.State.Valid() {
		return fmt.Errorf("match %d has invalid state %q", m.ID, m.State)
	}
	return nil
}

func (m Match) String() string {
	return fmt.Sprintf("[%d] %q vs %q on %s", m.ID, m.Team1, m.Team2, m.Map)
}

func sameScore(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func intPtr(v int) *int {
	return &v
}
