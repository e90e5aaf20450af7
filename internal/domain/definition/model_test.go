package definition

import "testing"

func TestApply_PartialUpdateKeepsDisplayName(t *testing.T) {
	teamID := int64(7020)
	raw, display := "Spirit", "Team Spirit"
	d := New(TypeTeam, Patch{TeamID: &teamID, RawName: &raw, DisplayName: &display})

	renamed := "Spirit Academy"
	if !d.Apply(Patch{TeamID: &teamID, RawName: &renamed}) {
		t.Fatalf("expected raw rename to report change")
	}
	if d.DisplayName != "Team Spirit" {
		t.Fatalf("display override lost: %q", d.DisplayName)
	}
	if d.Key() != (Key{Type: TypeTeam, Raw: "Spirit Academy"}) {
		t.Fatalf("unexpected key %+v", d.Key())
	}
	if d.Apply(Patch{TeamID: &teamID, RawName: &renamed}) {
		t.Fatalf("expected identical patch to report no change")
	}
}

func TestDisplay_FallsBackToRawName(t *testing.T) {
	d := Definition{Type: TypeMap, RawName: "de_mirage"}
	if got := d.Display(); got != "de_mirage" {
		t.Fatalf("unexpected display %q", got)
	}
	d.DisplayName = "Mirage"
	if got := d.Display(); got != "Mirage" {
		t.Fatalf("unexpected display %q", got)
	}
}

func TestValidate(t *testing.T) {
	teamID := int64(1)
	tests := []struct {
		name    string
		def     Definition
		wantErr bool
	}{
		{name: "valid map", def: Definition{Type: TypeMap, RawName: "nuke"}},
		{name: "valid team", def: Definition{Type: TypeTeam, RawName: "FaZe", TeamID: &teamID}},
		{name: "team without id", def: Definition{Type: TypeTeam, RawName: "FaZe"}, wantErr: true},
		{name: "unknown type", def: Definition{Type: "player", RawName: "s1mple"}, wantErr: true},
		{name: "empty raw name", def: Definition{Type: TypeMap}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.def.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
