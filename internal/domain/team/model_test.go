package team

import "testing"

func TestApply_RenameKeepsPreviousAlias(t *testing.T) {
	first, second := "Ninjas in Pyjamas", "NIP"
	tm := New(4411, Patch{Name: &first})
	if len(tm.PreviousAliases) != 0 {
		t.Fatalf("expected no aliases on creation, got %v", tm.PreviousAliases)
	}

	if !tm.Apply(Patch{Name: &second}) {
		t.Fatalf("expected rename to report change")
	}
	if tm.Name != "NIP" {
		t.Fatalf("unexpected name %q", tm.Name)
	}
	if len(tm.PreviousAliases) != 1 || tm.PreviousAliases[0] != "Ninjas in Pyjamas" {
		t.Fatalf("unexpected aliases %v", tm.PreviousAliases)
	}

	if tm.Apply(Patch{Name: &second}) {
		t.Fatalf("expected same name to report no change")
	}
	tm.Apply(Patch{Name: &first})
	tm.Apply(Patch{Name: &second})
	if len(tm.PreviousAliases) != 2 {
		t.Fatalf("expected aliases to stay unique, got %v", tm.PreviousAliases)
	}
}

func TestApply_NilNameIsNoop(t *testing.T) {
	name := "Vitality"
	tm := New(9565, Patch{Name: &name})
	if tm.Apply(Patch{}) {
		t.Fatalf("expected empty patch to report no change")
	}
	if tm.Name != "Vitality" {
		t.Fatalf("unexpected name %q", tm.Name)
	}
}

func TestValidate(t *testing.T) {
	if err := (Team{ID: 1, Name: "G2"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (Team{ID: 0, Name: "G2"}).Validate(); err == nil {
		t.Fatalf("expected error for missing id")
	}
	if err := (Team{ID: 1}).Validate(); err == nil {
		t.Fatalf("expected error for missing name")
	}
}
