package sheet

import (
	"strconv"
	"strings"
	"time"
)

type valueKind uint8

const (
	kindNull valueKind = iota
	kindInt
	kindText
)

// Value is a cell value after coercion. Integers compare numerically, every
// other non-empty value compares as text and empty cells are null.
type Value struct {
	kind   valueKind
	number int64
	text   string
}

func Null() Value {
	return Value{}
}

func Int(v int64) Value {
	return Value{kind: kindInt, number: v}
}

// Text builds a derived value. It is coerced like a read cell so derived
// and read values compare alike.
func Text(v string) Value {
	return Coerce(v)
}

// Coerce parses a raw cell string. Parse failures are not errors: anything
// that is not an integer stays text.
func Coerce(raw string) Value {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Null()
	}
	if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return Int(n)
	}
	return Value{kind: kindText, text: raw}
}

func IntPtr(v *int) Value {
	if v == nil {
		return Null()
	}
	return Int(int64(*v))
}

func (v Value) IsNull() bool {
	return v.kind == kindNull
}

func (v Value) Int64() (int64, bool) {
	return v.number, v.kind == kindInt
}

func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case kindInt:
		return v.number == other.number
	case kindText:
		return v.text == other.text
	default:
		return true
	}
}

// String renders the value as it is sent to the sheet.
func (v Value) String() string {
	switch v.kind {
	case kindInt:
		return strconv.FormatInt(v.number, 10)
	case kindText:
		return v.text
	default:
		return ""
	}
}

// FormatDate renders epoch seconds the way the worksheet expects dates,
// e.g. 3/7/2026. A zero timestamp renders now.
func FormatDate(epochSeconds int64, loc *time.Location, now time.Time) string {
	if loc == nil {
		loc = time.Local
	}
	ts := now
	if epochSeconds != 0 {
		ts = time.Unix(epochSeconds, 0)
	}
	return ts.In(loc).Format("1/2/2006")
}
