package team

import (
	"fmt"
	"slices"
)

// Team is a roster entry of the tracked event.
type Team struct {
	ID              int64
	Name            string
	PreviousAliases []string
}

type Patch struct {
	Name *string
}

func New(id int64, p Patch) Team {
	t := Team{ID: id}
	t.Apply(p)
	return t
}

// Apply overwrites the present fields. A rename keeps the old name in
// PreviousAliases.
func (t *Team) Apply(p Patch) bool {
	if p.Name == nil || *p.Name == t.Name {
		return false
	}
	if t.Name != "" && !slices.Contains(t.PreviousAliases, t.Name) {
		t.PreviousAliases = append(t.PreviousAliases, t.Name)
	}
	t.Name = *p.Name
	return true
}

func (t Team) Clone() Team {
	out := t
	out.PreviousAliases = slices.Clone(t.PreviousAliases)
	return out
}

func (t Team) Validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("team id must be > 0")
	}
	if t.Name == "" {
		return fmt.Errorf("team %d name is required", t.ID)
	}

	return nil
}
