package usecase

import (
	"github.com/riskibarqy/tourney-sheet-sync/internal/domain/definition"
	"github.com/riskibarqy/tourney-sheet-sync/internal/domain/match"
	"github.com/riskibarqy/tourney-sheet-sync/internal/domain/team"
)

// Index is the in-memory working set of one poll cycle. It is not safe for
// concurrent use; a cycle owns it exclusively.
type Index struct {
	matches    map[int64]*match.Match
	matchOrder []int64
	teams      map[int64]*team.Team
	teamOrder  []int64
	defs       []*definition.Definition
	teamDefs   map[int64]*definition.Definition

	dirtyMatches map[int64]struct{}
	dirtyTeams   map[int64]struct{}
	dirtyDefs    map[*definition.Definition]struct{}
}

func NewIndex() *Index {
	return &Index{
		matches:      make(map[int64]*match.Match),
		teams:        make(map[int64]*team.Team),
		teamDefs:     make(map[int64]*definition.Definition),
		dirtyMatches: make(map[int64]struct{}),
		dirtyTeams:   make(map[int64]struct{}),
		dirtyDefs:    make(map[*definition.Definition]struct{}),
	}
}

// Seed registers stored entities without marking them for persistence.
func (idx *Index) Seed(matches []match.Match, teams []team.Team, defs []definition.Definition) {
	for _, m := range matches {
		if m.ID <= 0 {
			continue
		}
		idx.putMatch(m.Clone())
	}
	for _, t := range teams {
		if t.ID <= 0 {
			continue
		}
		idx.putTeam(t.Clone())
	}
	for _, d := range defs {
		idx.putDefinition(d)
	}
}

func (idx *Index) Match(id int64) (match.Match, bool) {
	m, ok := idx.matches[id]
	if !ok {
		return match.Match{}, false
	}
	return m.Clone(), true
}

// Matches returns every match in insertion order.
func (idx *Index) Matches() []match.Match {
	out := make([]match.Match, 0, len(idx.matchOrder))
	for _, id := range idx.matchOrder {
		out = append(out, idx.matches[id].Clone())
	}
	return out
}

func (idx *Index) HasMatch(id int64) bool {
	_, ok := idx.matches[id]
	return ok
}

func (idx *Index) Team(id int64) (team.Team, bool) {
	t, ok := idx.teams[id]
	if !ok {
		return team.Team{}, false
	}
	return t.Clone(), true
}

func (idx *Index) Teams() []team.Team {
	out := make([]team.Team, 0, len(idx.teamOrder))
	for _, id := range idx.teamOrder {
		out = append(out, idx.teams[id].Clone())
	}
	return out
}

func (idx *Index) Definitions() []definition.Definition {
	out := make([]definition.Definition, 0, len(idx.defs))
	for _, d := range idx.defs {
		out = append(out, *d)
	}
	return out
}

// AliasResolver builds a resolver over the current definitions.
func (idx *Index) AliasResolver() *AliasResolver {
	return NewAliasResolver(idx.Definitions())
}

// Pending returns the entities created or changed since the last flush.
func (idx *Index) Pending() ([]match.Match, []team.Team, []definition.Definition) {
	matches := make([]match.Match, 0, len(idx.dirtyMatches))
	for _, id := range idx.matchOrder {
		if _, ok := idx.dirtyMatches[id]; ok {
			matches = append(matches, idx.matches[id].Clone())
		}
	}
	teams := make([]team.Team, 0, len(idx.dirtyTeams))
	for _, id := range idx.teamOrder {
		if _, ok := idx.dirtyTeams[id]; ok {
			teams = append(teams, idx.teams[id].Clone())
		}
	}
	defs := make([]definition.Definition, 0, len(idx.dirtyDefs))
	for _, d := range idx.defs {
		if _, ok := idx.dirtyDefs[d]; ok {
			defs = append(defs, *d)
		}
	}
	return matches, teams, defs
}

func (idx *Index) PendingCount() int {
	return len(idx.dirtyMatches) + len(idx.dirtyTeams) + len(idx.dirtyDefs)
}

// MarkFlushed clears the pending sets after a successful store flush.
func (idx *Index) MarkFlushed() {
	clear(idx.dirtyMatches)
	clear(idx.dirtyTeams)
	clear(idx.dirtyDefs)
}

// upsertMatch applies p to the match with id, creating it when unknown.
func (idx *Index) upsertMatch(id int64, p match.Patch) (created, changed bool) {
	if m, ok := idx.matches[id]; ok {
		changed = m.Apply(p)
		if m.DeriveWinner() {
			changed = true
		}
		if changed {
			idx.dirtyMatches[id] = struct{}{}
		}
		return false, changed
	}

	m := match.New(id, p)
	m.DeriveWinner()
	idx.putMatch(m)
	idx.dirtyMatches[id] = struct{}{}
	return true, true
}

func (idx *Index) upsertTeam(id int64, p team.Patch) (created, changed bool) {
	if t, ok := idx.teams[id]; ok {
		changed = t.Apply(p)
		if changed {
			idx.dirtyTeams[id] = struct{}{}
		}
		return false, changed
	}

	idx.putTeam(team.New(id, p))
	idx.dirtyTeams[id] = struct{}{}
	return true, true
}

// upsertTeamDefinition keeps the team's definition pointed at its latest raw
// name. The display name is seeded only when the definition is new.
func (idx *Index) upsertTeamDefinition(teamID int64, rawName string) (created, changed bool) {
	if d, ok := idx.teamDefs[teamID]; ok {
		changed = d.Apply(definition.Patch{TeamID: &teamID, RawName: &rawName})
		if changed {
			idx.dirtyDefs[d] = struct{}{}
		}
		return false, changed
	}

	d := definition.New(definition.TypeTeam, definition.Patch{
		TeamID:      &teamID,
		RawName:     &rawName,
		DisplayName: &rawName,
	})
	ref := idx.putDefinition(d)
	idx.dirtyDefs[ref] = struct{}{}
	return true, true
}

func (idx *Index) putMatch(m match.Match) {
	if _, ok := idx.matches[m.ID]; !ok {
		idx.matchOrder = append(idx.matchOrder, m.ID)
	}
	idx.matches[m.ID] = &m
}

func (idx *Index) putTeam(t team.Team) {
	if _, ok := idx.teams[t.ID]; !ok {
		idx.teamOrder = append(idx.teamOrder, t.ID)
	}
	idx.teams[t.ID] = &t
}

func (idx *Index) putDefinition(d definition.Definition) *definition.Definition {
	ref := &d
	if d.Type == definition.TypeTeam && d.TeamID != nil {
		if existing, ok := idx.teamDefs[*d.TeamID]; ok {
			*existing = d
			return existing
		}
		idx.teamDefs[*d.TeamID] = ref
	}
	idx.defs = append(idx.defs, ref)
	return ref
}
