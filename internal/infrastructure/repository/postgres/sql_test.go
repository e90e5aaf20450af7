package postgres

import (
	"database/sql"
	"testing"
)

func TestNullableInt(t *testing.T) {
	t.Run("nil is null", func(t *testing.T) {
		if got := nullableInt(nil); got.Valid {
			t.Fatalf("expected null, got %+v", got)
		}
	})

	t.Run("zero score is kept", func(t *testing.T) {
		zero := 0
		got := nullableInt(&zero)
		if !got.Valid || got.Int64 != 0 {
			t.Fatalf("expected valid zero, got %+v", got)
		}
	})
}

func TestIntFromNull(t *testing.T) {
	if got := intFromNull(sql.NullInt64{}); got != nil {
		t.Fatalf("expected nil, got %d", *got)
	}
	got := intFromNull(sql.NullInt64{Int64: 16, Valid: true})
	if got == nil || *got != 16 {
		t.Fatalf("expected 16, got %v", got)
	}
}

func TestInt64RoundTrip(t *testing.T) {
	id := int64(4608)
	got := int64FromNull(nullableInt64(&id))
	if got == nil || *got != id {
		t.Fatalf("expected %d, got %v", id, got)
	}
	if int64FromNull(nullableInt64(nil)) != nil {
		t.Fatalf("expected nil for null team id")
	}
}

func TestNullableString(t *testing.T) {
	if got := nullableString(""); got.Valid {
		t.Fatalf("expected null for empty string")
	}
	if got := nullableString("Vitality"); !got.Valid || got.String != "Vitality" {
		t.Fatalf("unexpected value %+v", got)
	}
}
