package definition

import (
	"fmt"
	"strings"
)

// Type scopes a definition to one kind of scraped label.
type Type string

const (
	TypeTeam Type = "team"
	TypeMap  Type = "map"
)

func (t Type) Valid() bool {
	return t == TypeTeam || t == TypeMap
}

// Definition maps a raw scraped name to the display name used on the sheet.
// Team definitions also carry the team id they were discovered with.
type Definition struct {
	ID          int64
	Type        Type
	TeamID      *int64
	RawName     string
	DisplayName string
}

// Key identifies a definition for alias lookups.
type Key struct {
	Type Type
	Raw  string
}

func (d Definition) Key() Key {
	return Key{Type: d.Type, Raw: d.RawName}
}

type Patch struct {
	TeamID      *int64
	RawName     *string
	DisplayName *string
}

func New(kind Type, p Patch) Definition {
	d := Definition{Type: kind}
	d.Apply(p)
	return d
}

func (d *Definition) Apply(p Patch) bool {
	changed := false
	if p.TeamID != nil && (d.TeamID == nil || *d.TeamID != *p.TeamID) {
		id := *p.TeamID
		d.TeamID = &id
		changed = true
	}
	if p.RawName != nil && d.RawName != *p.RawName {
		d.RawName = *p.RawName
		changed = true
	}
	if p.DisplayName != nil && d.DisplayName != *p.DisplayName {
		d.DisplayName = *p.DisplayName
		changed = true
	}
	return changed
}

// Display returns the display name, or the raw name when none is set.
func (d Definition) Display() string {
	if strings.TrimSpace(d.DisplayName) == "" {
		return d.RawName
	}
	return d.DisplayName
}

func (d Definition) Validate() error {
	if !d.Type.Valid() {
		return fmt.Errorf("invalid definition type %q", d.Type)
	}
	if d.RawName == "" {
		return fmt.Errorf("definition raw name is required")
	}
	if d.Type == TypeTeam && (d.TeamID == nil || *d.TeamID <= 0) {
		return fmt.Errorf("team definition %q requires a team id", d.RawName)
	}
	return nil
}
